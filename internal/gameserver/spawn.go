package gameserver

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/inventory"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/npc"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/world"
)

// Spawner populates the world with live NPCs from room spawn configs.
// Each spawned NPC gets an instance record, a participant snapshot, a
// location, and an equipped weapon when its template names one.
type Spawner struct {
	world     *world.Manager
	npcs      *npc.Manager
	registry  *participant.Registry
	weapons   *inventory.Registry
	templates map[string]*npc.Template
	logger    *zap.Logger
}

// NewSpawner indexes templates by ID and wires the spawner.
func NewSpawner(worldMgr *world.Manager, npcs *npc.Manager, registry *participant.Registry, weapons *inventory.Registry, templates []*npc.Template, logger *zap.Logger) *Spawner {
	indexed := make(map[string]*npc.Template, len(templates))
	for _, t := range templates {
		indexed[t.ID] = t
	}
	return &Spawner{
		world:     worldMgr,
		npcs:      npcs,
		registry:  registry,
		weapons:   weapons,
		templates: indexed,
		logger:    logger,
	}
}

// SpawnAll walks every room of every zone and spawns the configured NPCs.
//
// Postcondition: Returns the number of spawned instances, or an error on the
// first unknown template or unregistered weapon.
func (s *Spawner) SpawnAll() (int, error) {
	spawned := 0
	for _, zone := range s.world.AllZones() {
		for _, room := range zone.Rooms {
			for _, cfg := range room.Spawns {
				for i := 0; i < cfg.Count; i++ {
					if _, err := s.SpawnOne(cfg.Template, room.ID); err != nil {
						return spawned, err
					}
					spawned++
				}
			}
		}
	}
	s.logger.Info("world populated", zap.Int("npcs_spawned", spawned))
	return spawned, nil
}

// SpawnOne creates a single live NPC from templateID in roomID and returns
// its instance. Used by SpawnAll, respawn logic, and tests.
func (s *Spawner) SpawnOne(templateID, roomID string) (*npc.Instance, error) {
	tmpl, ok := s.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("spawn: unknown npc template %q in room %q", templateID, roomID)
	}

	inst := npc.NewInstance(uuid.NewString(), tmpl, roomID)
	if err := s.npcs.Add(inst); err != nil {
		return nil, err
	}

	if err := s.registry.Add(participant.Snapshot{
		ID:              inst.ID,
		Kind:            participant.KindNPC,
		Name:            inst.Name,
		VitalityCurrent: tmpl.MaxVitality,
		VitalityMax:     tmpl.MaxVitality,
		Strength:        tmpl.Strength,
		Constitution:    tmpl.Constitution,
		Initiative:      tmpl.Initiative,
		Posture:         participant.PostureStanding,
	}); err != nil {
		return nil, err
	}

	if err := s.world.SetLocation(inst.ID, roomID); err != nil {
		return nil, err
	}

	if tmpl.Weapon != "" {
		if err := s.weapons.Equip(inst.ID, tmpl.Weapon); err != nil {
			return nil, fmt.Errorf("spawn: template %q: %w", templateID, err)
		}
	}

	s.logger.Debug("npc spawned",
		zap.String("instance_id", inst.ID),
		zap.String("template_id", templateID),
		zap.String("room_id", roomID),
	)
	return inst, nil
}

// Despawn removes a dead or expired NPC from all game state.
func (s *Spawner) Despawn(instanceID string) {
	_ = s.npcs.Remove(instanceID)
	s.registry.Remove(instanceID)
	s.world.RemoveLocation(instanceID)
	s.weapons.Unequip(instanceID)
}
