package combat

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
)

// Termination reasons carried on NoticeTerminated notifications.
const (
	ReasonRoomMismatch   = "room-mismatch"
	ReasonSideEliminated = "side-eliminated"
	ReasonDisconnect     = "disconnect"
	ReasonAdmin          = "admin"
	ReasonAllFled        = "all-fled"
)

// Manager owns the combat instance map and the participant -> combat
// mapping. It is the only component that creates or removes instances, and
// its mutex serializes round execution with action enqueues and termination
// requests: a force-end issued while a round is executing waits for the
// round to finish, so a partially-applied round is never observable.
//
// Invariant: a participant ID maps to at most one active instance.
type Manager struct {
	mu               sync.Mutex
	registry         *participant.Registry
	bus              *Bus
	logger           *zap.Logger
	roundLengthTicks int64
	instances        map[string]*Instance
	byParticipant    map[string]string
}

// NewManager creates an empty combat Manager.
//
// Precondition: registry, bus, and logger must be non-nil; roundLengthTicks must be >= 1.
func NewManager(registry *participant.Registry, bus *Bus, roundLengthTicks int64, logger *zap.Logger) *Manager {
	if roundLengthTicks < 1 {
		panic("combat.NewManager: roundLengthTicks must be >= 1")
	}
	return &Manager{
		registry:         registry,
		bus:              bus,
		logger:           logger,
		roundLengthTicks: roundLengthTicks,
		instances:        make(map[string]*Instance),
		byParticipant:    make(map[string]string),
	}
}

// StartCombat begins a new combat between participants a and b in roomID.
// The first round executes roundLengthTicks after currentTick. Both
// participants are flagged in-combat and become each other's default
// opponents.
//
// Precondition: a and b must be registered participants in the same room.
// Postcondition: Returns the new combat ID, or ErrAlreadyInCombat if either
// participant already maps to an active instance.
func (m *Manager) StartCombat(a, b, roomID string, currentTick int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range []string{a, b} {
		if combatID, engaged := m.byParticipant[id]; engaged {
			if _, ok := m.instances[combatID]; !ok {
				// Structural invariant violation: a mapping with no
				// instance behind it. Alert and force-clean the entry.
				m.logger.Error("participant mapped to missing combat instance; cleaning up",
					zap.String("participant_id", id),
					zap.String("combat_id", combatID),
				)
				delete(m.byParticipant, id)
				continue
			}
			return "", fmt.Errorf("participant %q: %w", id, ErrAlreadyInCombat)
		}
	}

	snapA, okA := m.registry.Get(a)
	snapB, okB := m.registry.Get(b)
	if !okA {
		return "", fmt.Errorf("participant %q not registered", a)
	}
	if !okB {
		return "", fmt.Errorf("participant %q not registered", b)
	}
	if snapA.Condition == participant.ConditionDead {
		return "", fmt.Errorf("participant %q: %w", a, ErrParticipantDead)
	}
	if snapB.Condition == participant.ConditionDead {
		return "", fmt.Errorf("participant %q: %w", b, ErrParticipantDead)
	}

	inst := &Instance{
		ID:     uuid.NewString(),
		RoomID: roomID,
		Members: []*Member{
			{ID: a, Kind: snapA.Kind, Initiative: snapA.Initiative, Opponent: b},
			{ID: b, Kind: snapB.Kind, Initiative: snapB.Initiative, Opponent: a},
		},
		RoundLengthTicks: m.roundLengthTicks,
		NextRoundTick:    currentTick + m.roundLengthTicks,
		queued:           make(map[string]Action),
	}

	m.instances[inst.ID] = inst
	m.byParticipant[a] = inst.ID
	m.byParticipant[b] = inst.ID
	m.registry.SetInCombat(a, true)
	m.registry.SetInCombat(b, true)

	m.logger.Info("combat started",
		zap.String("combat_id", inst.ID),
		zap.String("room_id", roomID),
		zap.String("attacker", a),
		zap.String("target", b),
		zap.Int64("first_round_tick", inst.NextRoundTick),
	)
	m.bus.Publish(Notification{
		Type:     NoticeStarted,
		CombatID: inst.ID,
		RoomID:   roomID,
	})

	return inst.ID, nil
}

// EndCombat terminates the instance with the given ID. Idempotent: ending an
// unknown or already-Ended combat is a no-op. Clears in-combat flags, purges
// queued actions, removes the mappings, and publishes a termination notice
// carrying reason.
func (m *Manager) EndCombat(combatID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[combatID]
	if !ok {
		return
	}
	m.endLocked(inst, reason)
}

// endLocked performs the Active -> Ending -> Ended transition.
// Caller must hold m.mu.
func (m *Manager) endLocked(inst *Instance, reason string) {
	if inst.State() == StateEnded {
		return
	}
	inst.beginEnding()
	inst.purgeActions()

	participants := make([]string, 0, len(inst.Members))
	for _, mbr := range inst.Members {
		participants = append(participants, mbr.ID)
		delete(m.byParticipant, mbr.ID)
		m.registry.SetInCombat(mbr.ID, false)
	}

	inst.finishEnded()
	delete(m.instances, inst.ID)

	m.logger.Info("combat ended",
		zap.String("combat_id", inst.ID),
		zap.String("room_id", inst.RoomID),
		zap.Int64("rounds", inst.Round),
		zap.String("reason", reason),
	)
	m.bus.Publish(Notification{
		Type:         NoticeTerminated,
		CombatID:     inst.ID,
		RoomID:       inst.RoomID,
		Round:        inst.Round,
		Reason:       reason,
		Participants: participants,
	})
}

// CombatFor returns the active combat ID for participantID.
//
// Postcondition: Returns (id, true) if engaged, or ("", false) otherwise.
func (m *Manager) CombatFor(participantID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byParticipant[participantID]
	return id, ok
}

// IsInCombat reports whether participantID belongs to an active instance.
// Movement and command dispatch consult this before allowing a move.
func (m *Manager) IsInCombat(participantID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byParticipant[participantID]
	return ok
}

// Enqueue records an action for participantID in combatID for the next
// round, replacing any prior pending action.
//
// Postcondition: Returns ErrCombatNotFound, ErrCombatNotActive, or
// ErrNotAMember on failure; nil on success.
func (m *Manager) Enqueue(combatID, participantID string, a Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[combatID]
	if !ok {
		return ErrCombatNotFound
	}
	if snap, found := m.registry.Get(participantID); found && !snap.Alive() {
		return fmt.Errorf("participant %q cannot act while %s", participantID, snap.Condition)
	}
	if a.Type == ActionAttack && a.Target != "" {
		if snap, found := m.registry.Get(a.Target); found && snap.Condition == participant.ConditionDead {
			return fmt.Errorf("target %q: %w", a.Target, ErrParticipantDead)
		}
	}
	return inst.Enqueue(participantID, a)
}

// MarkFled removes participantID from active participation in combatID: the
// member stops acting, stops counting toward side elimination, and has its
// in-combat flag cleared. Ends the combat when no opposed sides remain.
func (m *Manager) MarkFled(combatID, participantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[combatID]
	if !ok {
		return ErrCombatNotFound
	}
	mbr := inst.MemberByID(participantID)
	if mbr == nil {
		return ErrNotAMember
	}
	mbr.Fled = true
	delete(m.byParticipant, participantID)
	m.registry.SetInCombat(participantID, false)
	m.logger.Info("participant fled combat",
		zap.String("combat_id", combatID),
		zap.String("participant_id", participantID),
	)

	if sideEliminated(inst, m.registry) {
		m.endLocked(inst, ReasonAllFled)
	}
	return nil
}

// Instance returns the live instance for combatID.
//
// Postcondition: Returns (instance, true) if found, or (nil, false) otherwise.
func (m *Manager) Instance(combatID string) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[combatID]
	return inst, ok
}

// ActiveCount returns the number of live instances.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

// CompletedRound reports one executed round back to the scheduler.
type CompletedRound struct {
	CombatID string
	RoomID   string
	Round    int64
	Outcome  RoundOutcome
	// EndReason is non-empty when the round terminated the combat.
	EndReason string
}

// ExecuteDueRounds runs exec for every Active instance due at tick, then
// either terminates the instance (room mismatch, side elimination) or
// schedules its next round. The manager's mutex is held for the whole sweep,
// so no enqueue, flee, or force-end interleaves with round execution.
//
// Instances are processed in combat-ID order for reproducibility.
func (m *Manager) ExecuteDueRounds(tick int64, exec func(*Instance) RoundOutcome) []CompletedRound {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []*Instance
	for _, inst := range m.instances {
		if inst.Due(tick) {
			due = append(due, inst)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })

	var completed []CompletedRound
	for _, inst := range due {
		outcome := exec(inst)
		cr := CompletedRound{
			CombatID: inst.ID,
			RoomID:   inst.RoomID,
			Round:    inst.Round,
			Outcome:  outcome,
		}
		switch {
		case outcome.RoomMismatch:
			cr.EndReason = ReasonRoomMismatch
			m.endLocked(inst, ReasonRoomMismatch)
		case outcome.SideEliminated:
			cr.EndReason = ReasonSideEliminated
			m.endLocked(inst, ReasonSideEliminated)
		default:
			inst.scheduleNext()
		}
		completed = append(completed, cr)
	}
	return completed
}
