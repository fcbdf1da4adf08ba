package gameserver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/inventory"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/npc"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/world"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/gameserver"
)

// harness stands up a two-room world with a player and the full wiring the
// server binary uses: registry, combat manager, tick driver, services.
type harness struct {
	registry *participant.Registry
	world    *world.Manager
	npcs     *npc.Manager
	weapons  *inventory.Registry
	bus      *combat.Bus
	combats  *combat.Manager
	ticks    *gameserver.TickDriver
	combat   *gameserver.CombatService
	movement *gameserver.MovementService
	spawner  *gameserver.Spawner
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	zone := &world.Zone{
		ID: "waterfront", Name: "Waterfront", StartRoom: "docks",
		Rooms: map[string]*world.Room{
			"docks": {
				ID: "docks", ZoneID: "waterfront", Title: "The Docks",
				Exits: []world.Exit{{Direction: world.North, TargetRoom: "warehouse"}},
			},
			"warehouse": {
				ID: "warehouse", ZoneID: "waterfront", Title: "Warehouse Row",
				Exits: []world.Exit{{Direction: world.South, TargetRoom: "docks"}},
			},
		},
	}
	worldMgr, err := world.NewManager([]*world.Zone{zone})
	require.NoError(t, err)

	registry := participant.NewRegistry(-10)
	npcMgr := npc.NewManager()
	weapons := inventory.NewRegistry()
	bus := combat.NewBus()
	logger := zap.NewNop()
	combats := combat.NewManager(registry, bus, 10, logger)
	ticks := gameserver.NewTickDriver(time.Hour)

	templates := []*npc.Template{{
		ID: "dock_cultist", Name: "dock cultist",
		MaxVitality: 12, Initiative: 50,
		Strength: 10, Constitution: 10, XPReward: 25,
	}}
	spawner := gameserver.NewSpawner(worldMgr, npcMgr, registry, weapons, templates, logger)

	h := &harness{
		registry: registry,
		world:    worldMgr,
		npcs:     npcMgr,
		weapons:  weapons,
		bus:      bus,
		combats:  combats,
		ticks:    ticks,
		combat:   gameserver.NewCombatService(combats, npcMgr, worldMgr, ticks, 50*time.Millisecond, logger),
		movement: gameserver.NewMovementService(worldMgr, combats, logger),
		spawner:  spawner,
	}
	h.addPlayer(t, "hero", "docks")
	return h
}

func (h *harness) addPlayer(t *testing.T, id, roomID string) {
	t.Helper()
	require.NoError(t, h.registry.Add(participant.Snapshot{
		ID:              id,
		Kind:            participant.KindPlayer,
		Name:            id,
		VitalityCurrent: 20,
		VitalityMax:     20,
		Strength:        12,
		Constitution:    12,
		Initiative:      90,
	}))
	require.NoError(t, h.world.SetLocation(id, roomID))
}

func (h *harness) spawnCultist(t *testing.T, roomID string) *npc.Instance {
	t.Helper()
	inst, err := h.spawner.SpawnOne("dock_cultist", roomID)
	require.NoError(t, err)
	return inst
}
