// Package main provides the game server binary: it loads the world and
// content, wires the combat engine to the tick clock and the database, and
// runs everything under the service lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/config"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/dice"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/inventory"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/npc"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/world"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/gameserver"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/observability"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/server"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	zonesDir := flag.String("zones", "content/zones", "path to zone YAML files directory")
	npcsDir := flag.String("npcs-dir", "content/npcs", "path to NPC YAML templates directory")
	weaponsDir := flag.String("weapons-dir", "content/weapons", "path to weapon YAML definitions directory")
	playerName := flag.String("player", "adventurer", "name of the local console player")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.Duration("tick_interval", cfg.Game.TickInterval),
		zap.Int64("round_length_ticks", cfg.Game.RoundLengthTicks),
	)

	// Load world
	zoneStart := time.Now()
	zones, err := world.LoadZonesFromDir(*zonesDir)
	if err != nil {
		logger.Fatal("loading zones", zap.Error(err))
	}
	worldMgr, err := world.NewManager(zones)
	if err != nil {
		logger.Fatal("creating world manager", zap.Error(err))
	}
	if err := worldMgr.ValidateExits(); err != nil {
		logger.Fatal("validating world exits", zap.Error(err))
	}
	logger.Info("world loaded",
		zap.Int("zones", worldMgr.ZoneCount()),
		zap.Int("rooms", worldMgr.RoomCount()),
		zap.Duration("elapsed", time.Since(zoneStart)),
	)

	// Load weapon definitions.
	invRegistry := inventory.NewRegistry()
	weapons, err := inventory.LoadWeapons(*weaponsDir)
	if err != nil {
		logger.Fatal("loading weapon definitions", zap.Error(err))
	}
	for _, w := range weapons {
		if err := invRegistry.Register(w); err != nil {
			logger.Fatal("registering weapon", zap.String("id", w.ID), zap.Error(err))
		}
	}
	logger.Info("loaded weapon definitions", zap.Int("count", len(weapons)))

	// Load NPC templates.
	npcTemplates, err := npc.LoadTemplates(*npcsDir)
	if err != nil {
		logger.Fatal("loading npc templates", zap.Error(err))
	}
	logger.Info("loaded npc templates", zap.Int("count", len(npcTemplates)))

	// Connect to PostgreSQL for character progression.
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	progression := postgres.NewProgressionRepository(pool.DB())

	// Core game state.
	registry := participant.NewRegistry(cfg.Game.DeathThreshold)
	npcMgr := npc.NewManager()
	bus := combat.NewBus()
	combatMgr := combat.NewManager(registry, bus, cfg.Game.RoundLengthTicks, logger)

	rewards := combat.NewRewardPipeline(progression, npcMgr, cfg.Game.RewardTimeout, logger)

	scheduler := combat.NewScheduler(combatMgr, bus, rewards, combat.RoundDeps{
		Registry:      registry,
		Weapons:       invRegistry,
		Rooms:         worldMgr,
		Source:        dice.NewCryptoSource(),
		UnarmedDamage: cfg.Game.UnarmedBaseDamage,
	}, logger)

	// Spawn initial NPC population.
	spawner := gameserver.NewSpawner(worldMgr, npcMgr, registry, invRegistry, npcTemplates, logger)
	if _, err := spawner.SpawnAll(); err != nil {
		logger.Fatal("spawning npcs", zap.Error(err))
	}

	// Defeated NPCs are cleaned up and replaced on the tick clock.
	respawner := gameserver.NewRespawner(spawner, npcMgr, cfg.Game.RespawnDelayTicks, logger)
	scheduler.AddDeathSink(respawner)

	// Tick clock drives combat rounds, then pending respawns.
	ticks := gameserver.NewTickDriver(cfg.Game.TickInterval)
	ticks.RegisterHandler(scheduler.OnTick)
	ticks.RegisterHandler(respawner.OnTick)

	combatSvc := gameserver.NewCombatService(combatMgr, npcMgr, worldMgr, ticks, cfg.Game.DisconnectGrace, logger)
	movementSvc := gameserver.NewMovementService(worldMgr, combatMgr, logger)

	// Register the local player at the start room.
	startRoom := worldMgr.StartRoom()
	if startRoom == nil {
		logger.Fatal("world has no start room")
	}
	playerID := *playerName
	if err := registry.Add(participant.Snapshot{
		ID:              playerID,
		Kind:            participant.KindPlayer,
		Name:            *playerName,
		VitalityCurrent: 20,
		VitalityMax:     20,
		Strength:        12,
		Constitution:    12,
		Initiative:      10,
		Posture:         participant.PostureStanding,
	}); err != nil {
		logger.Fatal("registering player", zap.Error(err))
	}
	if err := worldMgr.SetLocation(playerID, startRoom.ID); err != nil {
		logger.Fatal("placing player", zap.Error(err))
	}

	console := gameserver.NewConsole(playerID, registry, worldMgr, npcMgr, combatSvc, movementSvc, bus, os.Stdin, os.Stdout, logger)
	vitals := gameserver.NewVitalsSync(registry, progression, bus, 5*time.Second, logger)

	// Wire lifecycle.
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("tick-driver", ticks)
	lifecycle.Add("reward-pipeline", rewards)
	lifecycle.Add("vitals-sync", vitals)
	lifecycle.Add("console", console)
	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("npcs", npcMgr.Count()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
