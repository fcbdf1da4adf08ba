package combat

// ActionType identifies what a participant intends to do on the next round.
// The zero value (ActionUnknown) is intentionally invalid: draining a round
// synthesizes a default attack for participants with no queued action.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack                    // basic attack against a target
	ActionQueued                    // queued ability or command with a payload
	ActionNone                      // deliberate no-op for the round
)

// String returns the human-readable name of the ActionType.
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionQueued:
		return "queued"
	case ActionNone:
		return "none"
	default:
		return "unknown"
	}
}

// Action is the closed tagged variant resolved during round execution.
// Target is the participant ID the action is aimed at; Payload carries the
// opaque ability/command body for ActionQueued.
type Action struct {
	Type    ActionType
	Target  string
	Payload string
}
