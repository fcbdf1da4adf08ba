package gameserver

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
)

// VitalsSaver persists a player's current vitality. Implemented by the
// progression repository.
type VitalsSaver interface {
	SaveVitals(ctx context.Context, playerID string, current int) error
}

// VitalsSync writes player vitality back to storage whenever a combat ends.
// It observes termination notices on the bus, so a slow database write never
// touches the round loop; a failed write is logged and the next combat's
// termination retries it implicitly.
type VitalsSync struct {
	registry *participant.Registry
	saver    VitalsSaver
	bus      *combat.Bus
	timeout  time.Duration
	logger   *zap.Logger

	notices  chan combat.Notification
	done     chan struct{}
	stopOnce sync.Once
}

// NewVitalsSync wires a VitalsSync.
//
// Precondition: all collaborators must be non-nil; timeout > 0.
func NewVitalsSync(registry *participant.Registry, saver VitalsSaver, bus *combat.Bus, timeout time.Duration, logger *zap.Logger) *VitalsSync {
	s := &VitalsSync{
		registry: registry,
		saver:    saver,
		bus:      bus,
		timeout:  timeout,
		logger:   logger,
		notices:  make(chan combat.Notification, 64),
		done:     make(chan struct{}),
	}
	s.bus.Subscribe(s.notices)
	return s
}

// Start consumes termination notices until Stop. Implements the server
// Service interface.
func (s *VitalsSync) Start() error {
	for {
		select {
		case <-s.done:
			return nil
		case n := <-s.notices:
			if n.Type == combat.NoticeTerminated {
				s.persist(n)
			}
		}
	}
}

// Stop terminates the sync loop and detaches from the bus. Idempotent.
func (s *VitalsSync) Stop() {
	s.stopOnce.Do(func() {
		s.bus.Unsubscribe(s.notices)
		close(s.done)
	})
}

func (s *VitalsSync) persist(n combat.Notification) {
	for _, id := range n.Participants {
		snap, ok := s.registry.Get(id)
		if !ok || snap.Kind != participant.KindPlayer {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.saver.SaveVitals(ctx, id, snap.VitalityCurrent)
		cancel()
		if err != nil {
			s.logger.Warn("persisting player vitals failed",
				zap.String("player_id", id),
				zap.String("combat_id", n.CombatID),
				zap.Int("vitality", snap.VitalityCurrent),
				zap.Error(err),
			)
			continue
		}
		s.logger.Debug("player vitals persisted",
			zap.String("player_id", id),
			zap.Int("vitality", snap.VitalityCurrent),
		)
	}
}
