package gameserver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/world"
)

// ErrInCombat is returned when a movement attempt is suppressed because the
// participant is engaged in combat.
var ErrInCombat = errors.New("cannot move while in combat")

// CombatChecker reports whether a participant is engaged in an active combat.
type CombatChecker interface {
	IsInCombat(participantID string) bool
}

// MovementService moves participants between rooms, suppressing movement for
// anyone in combat. Leaving combat legitimately goes through flee or combat
// termination, never through a plain move.
type MovementService struct {
	world   *world.Manager
	combats CombatChecker
	logger  *zap.Logger
}

// NewMovementService wires movement to the world state and the combat check.
func NewMovementService(worldMgr *world.Manager, combats CombatChecker, logger *zap.Logger) *MovementService {
	return &MovementService{
		world:   worldMgr,
		combats: combats,
		logger:  logger,
	}
}

// Move attempts to move participantID one room in dir.
//
// Postcondition: Returns the destination room ID on success; ErrInCombat if
// the participant is fighting; an error if there is no such exit.
func (s *MovementService) Move(participantID string, dir world.Direction) (string, error) {
	if s.combats.IsInCombat(participantID) {
		s.logger.Debug("movement suppressed",
			zap.String("participant_id", participantID),
			zap.String("direction", string(dir)),
		)
		return "", ErrInCombat
	}

	fromRoom, ok := s.world.CurrentRoom(participantID)
	if !ok {
		return "", fmt.Errorf("participant %q has no known location", participantID)
	}

	target, err := s.world.Navigate(fromRoom, dir)
	if err != nil {
		return "", err
	}
	if err := s.world.SetLocation(participantID, target.ID); err != nil {
		return "", err
	}
	return target.ID, nil
}
