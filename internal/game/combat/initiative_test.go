package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
)

func TestOrder_DescendingInitiative(t *testing.T) {
	got := combat.Order([]combat.Entrant{
		{ID: "slow", Initiative: 10},
		{ID: "fast", Initiative: 90},
		{ID: "mid", Initiative: 50},
	})
	assert.Equal(t, []string{"fast", "mid", "slow"}, got)
}

func TestOrder_TieBreaksByIDAscending(t *testing.T) {
	got := combat.Order([]combat.Entrant{
		{ID: "zeta", Initiative: 50},
		{ID: "alpha", Initiative: 50},
		{ID: "mike", Initiative: 50},
	})
	assert.Equal(t, []string{"alpha", "mike", "zeta"}, got)
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	in := []combat.Entrant{
		{ID: "b", Initiative: 1},
		{ID: "a", Initiative: 2},
	}
	combat.Order(in)
	assert.Equal(t, "b", in[0].ID)
}

func TestOrder_Empty(t *testing.T) {
	assert.Empty(t, combat.Order(nil))
}

// Ordering must be a deterministic function of the entrant set, independent
// of input order.
func TestOrder_PermutationInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		entrants := make([]combat.Entrant, 0, n)
		seen := map[string]bool{}
		for i := 0; i < n; i++ {
			id := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "id")
			if seen[id] {
				continue
			}
			seen[id] = true
			entrants = append(entrants, combat.Entrant{
				ID:         id,
				Initiative: rapid.IntRange(0, 100).Draw(t, "init"),
			})
		}

		first := combat.Order(entrants)

		// Reverse the input and order again.
		reversed := make([]combat.Entrant, len(entrants))
		for i, e := range entrants {
			reversed[len(entrants)-1-i] = e
		}
		second := combat.Order(reversed)

		assert.Equal(t, first, second)
		assert.Len(t, first, len(entrants))
	})
}
