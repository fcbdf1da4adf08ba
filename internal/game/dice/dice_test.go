package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/dice"
)

type fixedSource struct{ value int }

func (f fixedSource) Intn(n int) int {
	if f.value >= n {
		return n - 1
	}
	return f.value
}

func TestRollBetween_SingleValueRange(t *testing.T) {
	got := dice.RollBetween(fixedSource{0}, 5, 5)
	assert.Equal(t, 5, got)
}

func TestRollBetween_UsesOffset(t *testing.T) {
	assert.Equal(t, 2, dice.RollBetween(fixedSource{0}, 2, 8))
	assert.Equal(t, 5, dice.RollBetween(fixedSource{3}, 2, 8))
	assert.Equal(t, 8, dice.RollBetween(fixedSource{6}, 2, 8))
}

func TestRollBetween_CryptoSourceStaysInRange(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(t *rapid.T) {
		min := rapid.IntRange(0, 50).Draw(t, "min")
		max := min + rapid.IntRange(0, 50).Draw(t, "spread")
		got := dice.RollBetween(src, min, max)
		assert.GreaterOrEqual(t, got, min)
		assert.LessOrEqual(t, got, max)
	})
}

func TestCryptoSource_PanicsOnNonPositive(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}
