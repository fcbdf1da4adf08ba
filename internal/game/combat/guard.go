package combat

// ValidateMelee reports whether a melee action between attacker and target
// may proceed: both must occupy the same, known room. combatRoom is kept for
// logging only. Participants may have legitimately moved together since the
// combat began, so the starting room is not authoritative.
//
// On false the caller must terminate the combat instance, not merely skip
// the action: a combat between separated participants is never left active.
func ValidateMelee(attackerRoom, targetRoom, combatRoom string) bool {
	_ = combatRoom
	return attackerRoom != "" && attackerRoom == targetRoom
}
