// Package combat implements the round-based combat engine: instance
// lifecycle, initiative ordering, action queuing, round resolution, and the
// death/reward pipeline. Rounds fire on the fixed game tick clock.
package combat

import (
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
)

// State is the lifecycle state of a combat instance.
// Transitions are one-directional: Active -> Ending -> Ended.
type State int

const (
	StateActive State = iota
	StateEnding
	StateEnded
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Member is one participant's transient combat record inside an instance.
// Initiative is snapshotted at combat start; vitality and posture live in the
// participant registry and are re-read each round, never cached here.
type Member struct {
	ID   string
	Kind participant.Kind
	// Initiative is the stat snapshot taken when the member joined.
	Initiative int
	// Fled is set when the member escapes; fled members neither act nor
	// count toward side elimination.
	Fled bool
	// Opponent is the last-known opponent, used to synthesize the default
	// attack when no action is queued.
	Opponent string
}

// Instance holds the live state of a single combat encounter.
//
// Instances are not individually locked: the Manager's mutex serializes all
// access, so round execution never races with action enqueues.
//
// Invariants: Round only increases; queued holds at most one action per
// member (enqueuing replaces); state never moves backwards.
type Instance struct {
	// ID is the opaque unique identifier of this encounter.
	ID string
	// RoomID is the room the combat started in, kept for logging. Melee
	// checks re-read participant locations instead of trusting this.
	RoomID string
	// Members lists all participants in joining order.
	Members []*Member
	// Round is the current round number, starting at 0.
	Round int64
	// RoundLengthTicks is the tick count between rounds, fixed for the
	// life of the instance.
	RoundLengthTicks int64
	// NextRoundTick is the absolute tick at which the next round executes.
	NextRoundTick int64

	queued map[string]Action
	state  State
}

// State returns the instance's lifecycle state.
func (c *Instance) State() State { return c.state }

// beginEnding moves Active -> Ending. No-op for Ending/Ended.
func (c *Instance) beginEnding() {
	if c.state == StateActive {
		c.state = StateEnding
	}
}

// finishEnded moves Ending -> Ended. No-op once Ended.
func (c *Instance) finishEnded() {
	if c.state == StateEnding {
		c.state = StateEnded
	}
}

// MemberByID returns the member with the given participant ID, or nil.
func (c *Instance) MemberByID(id string) *Member {
	for _, m := range c.Members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Enqueue records an action for the member with the given participant ID,
// replacing any prior pending action. Valid only while the instance is
// Active.
//
// Postcondition: at most one action is queued for memberID.
func (c *Instance) Enqueue(memberID string, a Action) error {
	if c.state != StateActive {
		return ErrCombatNotActive
	}
	if c.MemberByID(memberID) == nil {
		return ErrNotAMember
	}
	c.queued[memberID] = a
	return nil
}

// HasPending reports whether memberID has an action queued for the next round.
func (c *Instance) HasPending(memberID string) bool {
	_, ok := c.queued[memberID]
	return ok
}

// DrainActions returns and clears all queued actions for this round.
// Members absent from the result receive a synthesized default attack
// during resolution.
func (c *Instance) DrainActions() map[string]Action {
	drained := c.queued
	c.queued = make(map[string]Action)
	return drained
}

// purgeActions drops all queued actions. Called on termination.
func (c *Instance) purgeActions() {
	c.queued = make(map[string]Action)
}

// Due reports whether this instance should execute a round at tick.
func (c *Instance) Due(tick int64) bool {
	return c.state == StateActive && tick >= c.NextRoundTick
}

// scheduleNext advances the round counter and the next-round tick.
//
// Postcondition: Round is incremented by 1; NextRoundTick advances by
// RoundLengthTicks.
func (c *Instance) scheduleNext() {
	c.Round++
	c.NextRoundTick += c.RoundLengthTicks
}

// Entrants returns the (id, initiative) pairs for initiative ordering.
func (c *Instance) Entrants() []Entrant {
	entrants := make([]Entrant, 0, len(c.Members))
	for _, m := range c.Members {
		entrants = append(entrants, Entrant{ID: m.ID, Initiative: m.Initiative})
	}
	return entrants
}
