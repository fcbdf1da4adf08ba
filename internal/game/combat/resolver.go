package combat

import (
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/dice"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/inventory"
)

// StatBlock is the subset of participant stats the damage resolver reads.
// Player weapon attacks and NPC attacks flow through the same function so
// the rules stay symmetric.
type StatBlock struct {
	Strength     int
	Constitution int
}

// AbilityMod computes the standard ability modifier using floor division:
// floor((score - 10) / 2).
//
// Postcondition: Returns floor((score - 10) / 2).
func AbilityMod(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// ResolveDamage computes final damage for one action:
//
//	final = max(0, baseRoll + modifier + scaling - mitigation)
//
// Melee damage scales with the attacker's strength modifier; non-melee types
// carry no strength scaling. Mitigation is half the target's constitution
// modifier, floored at zero so a frail target never amplifies damage.
//
// Precondition: baseRoll and modifier come from a single roll per action;
// callers must not re-roll on retry.
// Postcondition: Returns >= 0.
func ResolveDamage(attacker, target StatBlock, baseRoll, modifier int, dtype inventory.DamageType) int {
	scaling := 0
	if dtype.IsMelee() {
		scaling = AbilityMod(attacker.Strength)
	}

	mitigation := AbilityMod(target.Constitution) / 2
	if mitigation < 0 {
		mitigation = 0
	}

	dmg := baseRoll + modifier + scaling - mitigation
	if dmg < 0 {
		return 0
	}
	return dmg
}

// RollBaseDamage produces the base roll and flat modifier for an attacker.
// Armed participants roll uniformly in [MinDamage, MaxDamage] and add the
// weapon's modifier; unarmed participants use the configured constant with
// no modifier. The roll happens exactly once per action.
//
// Precondition: src must be non-nil; unarmed must be >= 0.
func RollBaseDamage(weapon *inventory.Weapon, unarmed int, src dice.Source) (baseRoll, modifier int) {
	if weapon == nil {
		return unarmed, 0
	}
	return dice.RollBetween(src, weapon.MinDamage, weapon.MaxDamage), weapon.Modifier
}
