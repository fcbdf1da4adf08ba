package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
)

func TestValidateMelee(t *testing.T) {
	tests := []struct {
		name         string
		attackerRoom string
		targetRoom   string
		want         bool
	}{
		{"same room", "docks", "docks", true},
		{"different rooms", "docks", "warehouse", false},
		{"attacker location unknown", "", "docks", false},
		{"target location unknown", "docks", "", false},
		{"both unknown", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := combat.ValidateMelee(tt.attackerRoom, tt.targetRoom, "docks")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateMelee_IgnoresStartingRoom(t *testing.T) {
	// Both participants moved together; the combat's starting room no longer
	// matches but the attack is still legal.
	assert.True(t, combat.ValidateMelee("warehouse", "warehouse", "docks"))
}
