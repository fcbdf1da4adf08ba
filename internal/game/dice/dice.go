// Package dice provides the core randomness abstraction for the combat engine.
package dice

// Source is the randomness provider for all combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollBetween returns a uniform random value in [min, max] inclusive.
// When min == max the roll is deterministic.
//
// Precondition: src must be non-nil; min <= max.
// Postcondition: min <= result <= max.
func RollBetween(src Source, min, max int) int {
	if min >= max {
		return min
	}
	return min + src.Intn(max-min+1)
}
