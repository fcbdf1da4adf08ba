// Package participant provides the registry of combat-relevant participant
// snapshots: vitality, posture, initiative, and the in-combat flag.
package participant

// Kind distinguishes player participants from NPC participants.
type Kind int

const (
	KindPlayer Kind = iota
	KindNPC
)

// String returns "player" or "npc".
func (k Kind) String() string {
	if k == KindNPC {
		return "npc"
	}
	return "player"
}

// Posture is a participant's physical stance.
type Posture string

const (
	PostureStanding Posture = "standing"
	PostureSitting  Posture = "sitting"
	PostureProne    Posture = "prone"
)

// Condition is the vitality-driven state of a participant.
//
// Transitions are driven exclusively by ApplyDamage and Heal:
// Healthy -> Critical -> Incapacitated -> Dead. Dead is terminal.
type Condition int

const (
	ConditionHealthy Condition = iota
	ConditionCritical
	ConditionIncapacitated
	ConditionDead
)

// String returns a human-readable condition label.
func (c Condition) String() string {
	switch c {
	case ConditionHealthy:
		return "healthy"
	case ConditionCritical:
		return "critical"
	case ConditionIncapacitated:
		return "incapacitated"
	case ConditionDead:
		return "dead"
	default:
		return "unknown"
	}
}

// CanAct reports whether a participant in this condition may queue or
// execute combat actions.
func (c Condition) CanAct() bool {
	return c == ConditionHealthy || c == ConditionCritical
}

// Snapshot is the combat-relevant view of one participant.
// All fields are owned by the Registry and mutated only through its setters.
type Snapshot struct {
	ID              string
	Kind            Kind
	Name            string
	VitalityCurrent int
	VitalityMax     int
	Strength        int
	Constitution    int
	Initiative      int
	Posture         Posture
	Condition       Condition
	InCombat        bool
}

// Alive reports whether the participant is neither incapacitated nor dead.
func (s Snapshot) Alive() bool {
	return s.Condition.CanAct()
}
