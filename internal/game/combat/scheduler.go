package combat

import (
	"go.uber.org/zap"
)

// DeathSink observes killing blows after the reward pipeline has processed
// them. The respawn layer registers one to clean up and replace defeated
// NPCs.
type DeathSink interface {
	OnDeath(d Death, tick int64)
}

// Scheduler drives round execution off the game tick clock. Each tick it
// asks the Manager for due instances, resolves one round for each, and
// publishes the resulting notifications outside the Manager's lock.
type Scheduler struct {
	manager *Manager
	bus     *Bus
	rewards *RewardPipeline
	deps    RoundDeps
	logger  *zap.Logger
	sinks   []DeathSink
}

// NewScheduler wires a Scheduler to its collaborators. rewards may be nil
// when no reward pipeline is configured (deaths are then only published).
func NewScheduler(manager *Manager, bus *Bus, rewards *RewardPipeline, deps RoundDeps, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		manager: manager,
		bus:     bus,
		rewards: rewards,
		deps:    deps,
		logger:  logger,
	}
}

// AddDeathSink registers sink to receive every killing blow. Sinks run after
// the reward pipeline has claimed the kill.
//
// Precondition: must be called before the scheduler starts ticking.
func (s *Scheduler) AddDeathSink(sink DeathSink) {
	s.sinks = append(s.sinks, sink)
}

// OnTick executes every due round for the given absolute tick. Registered as
// a tick handler on the game clock.
func (s *Scheduler) OnTick(tick int64) {
	completed := s.manager.ExecuteDueRounds(tick, func(inst *Instance) RoundOutcome {
		return ResolveRound(inst, s.deps)
	})

	for _, cr := range completed {
		s.logger.Debug("round executed",
			zap.String("combat_id", cr.CombatID),
			zap.Int64("round", cr.Round),
			zap.Int("events", len(cr.Outcome.Events)),
			zap.String("end_reason", cr.EndReason),
		)
		if cr.Outcome.RoomMismatch {
			s.logger.Warn("melee participants in different rooms; combat terminated",
				zap.String("combat_id", cr.CombatID),
				zap.String("room_id", cr.RoomID),
				zap.Int64("round", cr.Round),
			)
		}

		s.bus.Publish(Notification{
			Type:     NoticeRound,
			CombatID: cr.CombatID,
			RoomID:   cr.RoomID,
			Round:    cr.Round,
			Events:   cr.Outcome.Events,
		})

		for _, d := range cr.Outcome.Deaths {
			s.logger.Info("participant died in combat",
				zap.String("combat_id", cr.CombatID),
				zap.String("killer_id", d.KillerID),
				zap.String("victim_id", d.VictimID),
			)
			s.bus.Publish(Notification{
				Type:     NoticeDeath,
				CombatID: cr.CombatID,
				RoomID:   cr.RoomID,
				Round:    cr.Round,
				ActorID:  d.KillerID,
				VictimID: d.VictimID,
			})
			if s.rewards != nil {
				s.rewards.OnDeath(d)
			}
			for _, sink := range s.sinks {
				sink.OnDeath(d, tick)
			}
		}
	}
}
