package participant

import (
	"fmt"
	"sync"
)

// DamageOutcome reports the observable result of one damage application.
// Vitality, Posture, and Condition reflect the same atomic update: no caller
// can observe vitality <= 0 paired with a standing posture.
type DamageOutcome struct {
	Vitality            int
	Posture             Posture
	Condition           Condition
	BecameIncapacitated bool
	BecameDead          bool
}

// Registry tracks all participant snapshots, keyed by participant ID.
// All methods are safe for concurrent use.
//
// Invariant: a snapshot with VitalityCurrent <= 0 always has PostureProne and
// Condition Incapacitated or Dead; both are written under the same lock hold.
type Registry struct {
	mu             sync.RWMutex
	snapshots      map[string]*Snapshot
	deathThreshold int
}

// NewRegistry creates an empty Registry.
//
// Precondition: deathThreshold must be < 0. Vitality in (deathThreshold, 0]
// incapacitates; vitality <= deathThreshold kills.
func NewRegistry(deathThreshold int) *Registry {
	if deathThreshold >= 0 {
		panic("participant.NewRegistry: deathThreshold must be < 0")
	}
	return &Registry{
		snapshots:      make(map[string]*Snapshot),
		deathThreshold: deathThreshold,
	}
}

// Add registers a new participant snapshot.
//
// Precondition: snap.ID must be non-empty; snap.VitalityMax must be >= 1.
// Postcondition: Returns an error if the ID is already registered.
func (r *Registry) Add(snap Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("participant: id must not be empty")
	}
	if snap.VitalityMax < 1 {
		return fmt.Errorf("participant %q: vitality_max must be >= 1", snap.ID)
	}
	if snap.Posture == "" {
		snap.Posture = PostureStanding
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.snapshots[snap.ID]; exists {
		return fmt.Errorf("participant %q already registered", snap.ID)
	}
	r.snapshots[snap.ID] = &snap
	return nil
}

// Remove deletes the snapshot for id. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snapshots, id)
}

// Get returns a copy of the snapshot for id.
//
// Postcondition: Returns (snapshot, true) if found, or (zero, false) otherwise.
func (r *Registry) Get(id string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.snapshots[id]
	if !ok {
		return Snapshot{}, false
	}
	return *s, true
}

// ApplyDamage decrements vitality by amount and evaluates the condition
// thresholds in the same lock hold. Crossing zero sets posture to prone
// atomically with the vitality write. Damage at or below the registry's
// death threshold kills; damage to an already-dead participant is a no-op.
//
// Precondition: amount must be >= 0.
// Postcondition: Returns the post-update outcome, or an error for unknown ids.
func (r *Registry) ApplyDamage(id string, amount int) (DamageOutcome, error) {
	if amount < 0 {
		return DamageOutcome{}, fmt.Errorf("participant %q: damage must be >= 0, got %d", id, amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[id]
	if !ok {
		return DamageOutcome{}, fmt.Errorf("participant %q not registered", id)
	}

	if s.Condition == ConditionDead {
		return outcomeOf(s), nil
	}

	wasDown := s.Condition == ConditionIncapacitated
	s.VitalityCurrent -= amount

	switch {
	case s.VitalityCurrent <= r.deathThreshold:
		s.Condition = ConditionDead
		s.Posture = PostureProne
	case s.VitalityCurrent <= 0:
		s.Condition = ConditionIncapacitated
		s.Posture = PostureProne
	case s.VitalityCurrent <= s.VitalityMax/4:
		s.Condition = ConditionCritical
	default:
		s.Condition = ConditionHealthy
	}

	out := outcomeOf(s)
	out.BecameDead = s.Condition == ConditionDead
	out.BecameIncapacitated = !wasDown && s.Condition == ConditionIncapacitated
	return out, nil
}

// Heal increments vitality by amount, capped at VitalityMax, and re-evaluates
// the condition thresholds. Healing cannot revive the dead, and it does not
// change posture: a revived participant must stand up on their own.
//
// Precondition: amount must be >= 0.
// Postcondition: Returns the post-update outcome, or an error for unknown ids.
func (r *Registry) Heal(id string, amount int) (DamageOutcome, error) {
	if amount < 0 {
		return DamageOutcome{}, fmt.Errorf("participant %q: heal must be >= 0, got %d", id, amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[id]
	if !ok {
		return DamageOutcome{}, fmt.Errorf("participant %q not registered", id)
	}

	if s.Condition == ConditionDead {
		return outcomeOf(s), nil
	}

	s.VitalityCurrent += amount
	if s.VitalityCurrent > s.VitalityMax {
		s.VitalityCurrent = s.VitalityMax
	}

	switch {
	case s.VitalityCurrent <= 0:
		s.Condition = ConditionIncapacitated
	case s.VitalityCurrent <= s.VitalityMax/4:
		s.Condition = ConditionCritical
	default:
		s.Condition = ConditionHealthy
	}

	return outcomeOf(s), nil
}

// SetPosture updates the posture for id. Incapacitated and dead participants
// stay prone; the call is a no-op for them.
//
// Postcondition: Returns an error only for unknown ids.
func (r *Registry) SetPosture(id string, p Posture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[id]
	if !ok {
		return fmt.Errorf("participant %q not registered", id)
	}
	if !s.Condition.CanAct() {
		return nil
	}
	s.Posture = p
	return nil
}

// SetInCombat updates the in-combat flag for id. Unknown ids are ignored.
func (r *Registry) SetInCombat(id string, inCombat bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.snapshots[id]; ok {
		s.InCombat = inCombat
	}
}

// InCombat reports whether id is currently flagged as in combat.
// Unknown ids report false.
func (r *Registry) InCombat(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.snapshots[id]
	return ok && s.InCombat
}

// Vitality returns (current, max) vitality for id.
//
// Postcondition: Returns (0, 0, false) for unknown ids.
func (r *Registry) Vitality(id string) (current, max int, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, found := r.snapshots[id]
	if !found {
		return 0, 0, false
	}
	return s.VitalityCurrent, s.VitalityMax, true
}

func outcomeOf(s *Snapshot) DamageOutcome {
	return DamageOutcome{
		Vitality:  s.VitalityCurrent,
		Posture:   s.Posture,
		Condition: s.Condition,
	}
}
