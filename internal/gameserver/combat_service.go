package gameserver

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/npc"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/world"
)

// CombatService is the player-facing command surface over the combat engine.
// It translates "attack the cultist" into participant IDs and combat manager
// calls, and owns the disconnect grace timers.
type CombatService struct {
	combats *combat.Manager
	npcs    *npc.Manager
	world   *world.Manager
	ticks   *TickDriver
	grace   time.Duration
	logger  *zap.Logger

	mu           sync.Mutex
	disconnected map[string]*time.Timer
}

// NewCombatService wires the command surface to its collaborators.
//
// Precondition: all collaborators must be non-nil; grace must be >= 0.
func NewCombatService(combats *combat.Manager, npcs *npc.Manager, worldMgr *world.Manager, ticks *TickDriver, grace time.Duration, logger *zap.Logger) *CombatService {
	return &CombatService{
		combats:      combats,
		npcs:         npcs,
		world:        worldMgr,
		ticks:        ticks,
		grace:        grace,
		logger:       logger,
		disconnected: make(map[string]*time.Timer),
	}
}

// Attack resolves targetName to an NPC in the player's current room and
// either starts a new combat or, if the player is already fighting, queues an
// attack against that target for the next round.
//
// Postcondition: Returns the combat ID the player now belongs to.
func (s *CombatService) Attack(playerID, targetName string) (string, error) {
	roomID, ok := s.world.CurrentRoom(playerID)
	if !ok {
		return "", fmt.Errorf("player %q has no known location", playerID)
	}

	target := s.npcs.FindInRoom(roomID, targetName)
	if target == nil {
		return "", fmt.Errorf("no %q here to attack", targetName)
	}

	if combatID, engaged := s.combats.CombatFor(playerID); engaged {
		err := s.combats.Enqueue(combatID, playerID, combat.Action{
			Type:   combat.ActionAttack,
			Target: target.ID,
		})
		return combatID, err
	}

	return s.combats.StartCombat(playerID, target.ID, roomID, s.ticks.CurrentTick())
}

// QueueAbility queues an ability or command body for the player's next round,
// replacing any pending action. The payload is opaque to the engine; it is
// resolved against the player's current opponent.
func (s *CombatService) QueueAbility(playerID, payload string) error {
	combatID, engaged := s.combats.CombatFor(playerID)
	if !engaged {
		return fmt.Errorf("player %q is not in combat", playerID)
	}
	return s.combats.Enqueue(combatID, playerID, combat.Action{
		Type:    combat.ActionQueued,
		Payload: payload,
	})
}

// Pass queues a deliberate no-op for the player's next round.
func (s *CombatService) Pass(playerID string) error {
	combatID, engaged := s.combats.CombatFor(playerID)
	if !engaged {
		return fmt.Errorf("player %q is not in combat", playerID)
	}
	return s.combats.Enqueue(combatID, playerID, combat.Action{Type: combat.ActionNone})
}

// Flee withdraws the player from their current combat. The player stops
// acting and being targeted, and may move again immediately.
func (s *CombatService) Flee(playerID string) error {
	combatID, engaged := s.combats.CombatFor(playerID)
	if !engaged {
		return fmt.Errorf("player %q is not in combat", playerID)
	}
	return s.combats.MarkFled(combatID, playerID)
}

// ForceEnd terminates a combat by administrative action. Idempotent.
func (s *CombatService) ForceEnd(combatID string) {
	s.combats.EndCombat(combatID, combat.ReasonAdmin)
}

// HandleDisconnect starts the disconnect grace timer for a player in combat.
// If the player does not reconnect within the grace period, their combat is
// terminated. Players not in combat are ignored.
func (s *CombatService) HandleDisconnect(playerID string) {
	combatID, engaged := s.combats.CombatFor(playerID)
	if !engaged {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, pending := s.disconnected[playerID]; pending {
		return
	}

	s.logger.Info("player disconnected during combat; grace timer started",
		zap.String("player_id", playerID),
		zap.String("combat_id", combatID),
		zap.Duration("grace", s.grace),
	)
	s.disconnected[playerID] = time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		delete(s.disconnected, playerID)
		s.mu.Unlock()

		if id, still := s.combats.CombatFor(playerID); still {
			s.logger.Info("disconnect grace expired; ending combat",
				zap.String("player_id", playerID),
				zap.String("combat_id", id),
			)
			s.combats.EndCombat(id, combat.ReasonDisconnect)
		}
	})
}

// HandleReconnect cancels a pending disconnect grace timer. The player's
// combat continues as if the disconnect never happened.
func (s *CombatService) HandleReconnect(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, pending := s.disconnected[playerID]; pending {
		timer.Stop()
		delete(s.disconnected, playerID)
		s.logger.Info("player reconnected within grace period",
			zap.String("player_id", playerID),
		)
	}
}
