package dice

import (
	"crypto/rand"
	"math/big"
)

// cryptoSource draws from crypto/rand.
//
// Invariant: values are uniform over [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. Safe for
// concurrent use.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0; panics otherwise. Also panics if crypto/rand
// fails.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(v.Int64())
}
