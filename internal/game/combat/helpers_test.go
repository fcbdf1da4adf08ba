package combat_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/inventory"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
)

// fixedSource returns a fixed dice value, clamped into range.
type fixedSource struct{ value int }

func (f fixedSource) Intn(n int) int {
	if f.value >= n {
		return n - 1
	}
	return f.value
}

// stubWeapons maps participant IDs to equipped weapons.
type stubWeapons map[string]*inventory.Weapon

func (s stubWeapons) EquippedWeapon(id string) (*inventory.Weapon, bool) {
	w, ok := s[id]
	return w, ok
}

// stubRooms maps participant IDs to room IDs.
type stubRooms map[string]string

func (s stubRooms) CurrentRoom(id string) (string, bool) {
	r, ok := s[id]
	return r, ok
}

// countingGranter records experience grants for assertions.
type countingGranter struct {
	mu     sync.Mutex
	grants []grantCall
	fail   int // number of initial calls to fail
}

type grantCall struct {
	playerID string
	amount   int
	reason   string
}

func (g *countingGranter) GrantExperience(_ context.Context, playerID string, amount int, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail > 0 {
		g.fail--
		return errGrantUnavailable
	}
	g.grants = append(g.grants, grantCall{playerID: playerID, amount: amount, reason: reason})
	return nil
}

func (g *countingGranter) calls() []grantCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]grantCall, len(g.grants))
	copy(out, g.grants)
	return out
}

var errGrantUnavailable = errors.New("progression store unavailable")

// stubRewards maps NPC IDs to experience values.
type stubRewards map[string]int

func (s stubRewards) XPReward(id string) (int, bool) {
	xp, ok := s[id]
	return xp, ok
}

// fixture bundles the collaborators for combat engine tests.
type fixture struct {
	reg     *participant.Registry
	bus     *combat.Bus
	manager *combat.Manager
	weapons stubWeapons
	rooms   stubRooms
}

func newFixture(t *testing.T, roundLength int64) *fixture {
	t.Helper()
	reg := participant.NewRegistry(-10)
	bus := combat.NewBus()
	return &fixture{
		reg:     reg,
		bus:     bus,
		manager: combat.NewManager(reg, bus, roundLength, zap.NewNop()),
		weapons: stubWeapons{},
		rooms:   stubRooms{},
	}
}

func (f *fixture) addFighter(t *testing.T, id string, kind participant.Kind, vitality, initiative int, roomID string) {
	t.Helper()
	require.NoError(t, f.reg.Add(participant.Snapshot{
		ID:              id,
		Kind:            kind,
		Name:            id,
		VitalityCurrent: vitality,
		VitalityMax:     vitality,
		Strength:        10,
		Constitution:    10,
		Initiative:      initiative,
	}))
	f.rooms[id] = roomID
}

func (f *fixture) deps(src fixedSource) combat.RoundDeps {
	return combat.RoundDeps{
		Registry:      f.reg,
		Weapons:       f.weapons,
		Rooms:         f.rooms,
		Source:        src,
		UnarmedDamage: 2,
	}
}
