package gameserver

import (
	"sync"

	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/npc"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
)

// Respawner replaces defeated NPCs. On a killing blow it removes the corpse
// from the NPC manager, the participant registry, and the world occupancy
// map, and schedules a fresh instance of the same template into the same
// room a fixed number of ticks later.
//
// Invariant: entries are only queued when delayTicks >= 1; a zero delay
// disables respawn and only the corpse cleanup runs.
type Respawner struct {
	spawner    *Spawner
	npcs       *npc.Manager
	delayTicks int64
	logger     *zap.Logger

	mu      sync.Mutex
	pending []pendingSpawn
}

type pendingSpawn struct {
	templateID string
	roomID     string
	readyTick  int64
}

// NewRespawner wires a Respawner.
//
// Precondition: spawner, npcs, and logger must be non-nil; delayTicks >= 0.
func NewRespawner(spawner *Spawner, npcs *npc.Manager, delayTicks int64, logger *zap.Logger) *Respawner {
	return &Respawner{
		spawner:    spawner,
		npcs:       npcs,
		delayTicks: delayTicks,
		logger:     logger,
	}
}

// OnDeath despawns a defeated NPC and queues its replacement. Player deaths
// and victims unknown to the NPC manager are ignored. Implements the
// scheduler's DeathSink; it runs after the reward pipeline has read the
// victim's reward value.
func (r *Respawner) OnDeath(d combat.Death, tick int64) {
	if d.VictimKind != participant.KindNPC {
		return
	}
	inst, ok := r.npcs.Get(d.VictimID)
	if !ok {
		return
	}

	r.spawner.Despawn(inst.ID)
	if r.delayTicks < 1 {
		r.logger.Info("npc defeated; respawn disabled",
			zap.String("npc_id", inst.ID),
			zap.String("template_id", inst.TemplateID),
		)
		return
	}

	readyTick := tick + r.delayTicks
	r.mu.Lock()
	r.pending = append(r.pending, pendingSpawn{
		templateID: inst.TemplateID,
		roomID:     inst.RoomID,
		readyTick:  readyTick,
	})
	r.mu.Unlock()

	r.logger.Info("npc defeated; respawn scheduled",
		zap.String("npc_id", inst.ID),
		zap.String("template_id", inst.TemplateID),
		zap.String("room_id", inst.RoomID),
		zap.Int64("respawn_tick", readyTick),
	)
}

// OnTick spawns every queued replacement whose tick has arrived. Registered
// on the game clock after the combat scheduler's handler.
func (r *Respawner) OnTick(tick int64) {
	r.mu.Lock()
	var due []pendingSpawn
	rest := r.pending[:0]
	for _, p := range r.pending {
		if p.readyTick <= tick {
			due = append(due, p)
		} else {
			rest = append(rest, p)
		}
	}
	r.pending = rest
	r.mu.Unlock()

	for _, p := range due {
		inst, err := r.spawner.SpawnOne(p.templateID, p.roomID)
		if err != nil {
			r.logger.Error("respawn failed",
				zap.String("template_id", p.templateID),
				zap.String("room_id", p.roomID),
				zap.Error(err),
			)
			continue
		}
		r.logger.Info("npc respawned",
			zap.String("npc_id", inst.ID),
			zap.String("template_id", p.templateID),
			zap.String("room_id", p.roomID),
		)
	}
}

// PendingCount returns the number of queued respawns.
func (r *Respawner) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
