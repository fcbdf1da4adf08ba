package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/combat"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/inventory"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
)

func slashWeapon(min, max, mod int) *inventory.Weapon {
	return &inventory.Weapon{
		ID: "test-blade", Name: "test blade",
		MinDamage: min, MaxDamage: max, Modifier: mod,
		DamageTypes: []inventory.DamageType{inventory.DamageSlash},
	}
}

func TestResolveRound_BasicExchange(t *testing.T) {
	f := newFixture(t, 10)
	f.addFighter(t, "hero", participant.KindPlayer, 20, 90, "docks")
	f.addFighter(t, "cultist", participant.KindNPC, 12, 50, "docks")
	f.weapons["hero"] = slashWeapon(2, 8, 1)

	id, err := f.manager.StartCombat("hero", "cultist", "docks", 0)
	require.NoError(t, err)
	inst, ok := f.manager.Instance(id)
	require.True(t, ok)

	// fixedSource{3} makes the hero's roll 2+3=5, +1 modifier = 6 damage.
	out := combat.ResolveRound(inst, f.deps(fixedSource{3}))

	require.Len(t, out.Events, 2)
	assert.False(t, out.RoomMismatch)
	assert.False(t, out.SideEliminated)

	// Higher initiative acts first.
	assert.Equal(t, "hero", out.Events[0].ActorID)
	assert.Equal(t, combat.EventHit, out.Events[0].Type)
	assert.Equal(t, 6, out.Events[0].Damage)
	assert.Equal(t, 6, out.Events[0].Vitality)

	// The NPC's default counterattack lands unarmed damage.
	assert.Equal(t, "cultist", out.Events[1].ActorID)
	assert.Equal(t, "hero", out.Events[1].TargetID)
	assert.Equal(t, 2, out.Events[1].Damage)

	heroVit, _, _ := f.reg.Vitality("hero")
	assert.Equal(t, 18, heroVit)
}

func TestResolveRound_DamageStaysInWeaponBand(t *testing.T) {
	for roll := 0; roll < 7; roll++ {
		f := newFixture(t, 10)
		f.addFighter(t, "hero", participant.KindPlayer, 200, 90, "docks")
		f.addFighter(t, "cultist", participant.KindNPC, 200, 50, "docks")
		f.weapons["hero"] = slashWeapon(2, 8, 1)

		id, err := f.manager.StartCombat("hero", "cultist", "docks", 0)
		require.NoError(t, err)
		inst, _ := f.manager.Instance(id)

		out := combat.ResolveRound(inst, f.deps(fixedSource{roll}))
		require.NotEmpty(t, out.Events)
		dmg := out.Events[0].Damage
		assert.GreaterOrEqual(t, dmg, 3, "min_damage + modifier")
		assert.LessOrEqual(t, dmg, 9, "max_damage + modifier")
	}
}

func TestResolveRound_QueuedAbilityResolvesAgainstOpponent(t *testing.T) {
	f := newFixture(t, 10)
	f.addFighter(t, "hero", participant.KindPlayer, 20, 90, "docks")
	f.addFighter(t, "cultist", participant.KindNPC, 12, 50, "docks")

	id, err := f.manager.StartCombat("hero", "cultist", "docks", 0)
	require.NoError(t, err)
	require.NoError(t, f.manager.Enqueue(id, "hero", combat.Action{
		Type:    combat.ActionQueued,
		Payload: "elder sign",
	}))
	inst, _ := f.manager.Instance(id)

	out := combat.ResolveRound(inst, f.deps(fixedSource{0}))
	require.Len(t, out.Events, 2)
	assert.Equal(t, "hero", out.Events[0].ActorID)
	assert.Equal(t, "cultist", out.Events[0].TargetID)
	assert.Equal(t, combat.EventHit, out.Events[0].Type)
}

func TestResolveRound_PassAction(t *testing.T) {
	f := newFixture(t, 10)
	f.addFighter(t, "hero", participant.KindPlayer, 20, 90, "docks")
	f.addFighter(t, "cultist", participant.KindNPC, 12, 50, "docks")

	id, err := f.manager.StartCombat("hero", "cultist", "docks", 0)
	require.NoError(t, err)
	require.NoError(t, f.manager.Enqueue(id, "hero", combat.Action{Type: combat.ActionNone}))
	inst, _ := f.manager.Instance(id)

	out := combat.ResolveRound(inst, f.deps(fixedSource{0}))
	require.Len(t, out.Events, 2)
	assert.Equal(t, combat.EventPass, out.Events[0].Type)

	cultistVit, _, _ := f.reg.Vitality("cultist")
	assert.Equal(t, 12, cultistVit, "a pass must deal no damage")
}

func TestResolveRound_RoomMismatchStopsRound(t *testing.T) {
	f := newFixture(t, 10)
	f.addFighter(t, "hero", participant.KindPlayer, 20, 90, "docks")
	f.addFighter(t, "cultist", participant.KindNPC, 12, 50, "docks")
	f.rooms["cultist"] = "warehouse"

	id, err := f.manager.StartCombat("hero", "cultist", "docks", 0)
	require.NoError(t, err)
	inst, _ := f.manager.Instance(id)

	out := combat.ResolveRound(inst, f.deps(fixedSource{3}))
	assert.True(t, out.RoomMismatch)
	assert.Empty(t, out.Events)
	assert.Empty(t, out.Deaths)

	heroVit, _, _ := f.reg.Vitality("hero")
	cultistVit, _, _ := f.reg.Vitality("cultist")
	assert.Equal(t, 20, heroVit, "no damage may be applied on a room mismatch")
	assert.Equal(t, 12, cultistVit)
}

func TestResolveRound_KillingBlowEndsRound(t *testing.T) {
	f := newFixture(t, 10)
	f.addFighter(t, "hero", participant.KindPlayer, 20, 90, "docks")
	f.addFighter(t, "cultist", participant.KindNPC, 1, 50, "docks")
	f.weapons["hero"] = slashWeapon(11, 11, 0)

	id, err := f.manager.StartCombat("hero", "cultist", "docks", 0)
	require.NoError(t, err)
	inst, _ := f.manager.Instance(id)

	// 11 damage takes the cultist from 1 to -10, at the death threshold.
	out := combat.ResolveRound(inst, f.deps(fixedSource{0}))

	require.Len(t, out.Events, 1, "the dead cultist must not act")
	assert.Equal(t, combat.EventDeath, out.Events[0].Type)
	require.Len(t, out.Deaths, 1)
	assert.Equal(t, "hero", out.Deaths[0].KillerID)
	assert.Equal(t, participant.KindPlayer, out.Deaths[0].KillerKind)
	assert.Equal(t, "cultist", out.Deaths[0].VictimID)
	assert.Equal(t, participant.KindNPC, out.Deaths[0].VictimKind)
	assert.True(t, out.SideEliminated)

	snap, _ := f.reg.Get("cultist")
	assert.Equal(t, participant.ConditionDead, snap.Condition)
}

func TestResolveRound_IncapacitationKeepsCombatAlive(t *testing.T) {
	f := newFixture(t, 10)
	f.addFighter(t, "hero", participant.KindPlayer, 20, 90, "docks")
	f.addFighter(t, "cultist", participant.KindNPC, 4, 50, "docks")
	f.weapons["hero"] = slashWeapon(6, 6, 0)

	id, err := f.manager.StartCombat("hero", "cultist", "docks", 0)
	require.NoError(t, err)
	inst, _ := f.manager.Instance(id)

	// 6 damage takes the cultist to -2: down but not dead.
	out := combat.ResolveRound(inst, f.deps(fixedSource{0}))

	require.Len(t, out.Events, 1)
	assert.Equal(t, combat.EventIncapacitated, out.Events[0].Type)
	assert.Empty(t, out.Deaths)
	assert.False(t, out.SideEliminated, "an incapacitated fighter still holds the field")

	snap, _ := f.reg.Get("cultist")
	assert.Equal(t, participant.ConditionIncapacitated, snap.Condition)
	assert.Equal(t, participant.PostureProne, snap.Posture)
}

func TestResolveRound_FledMemberNeitherActsNorBlocks(t *testing.T) {
	f := newFixture(t, 10)
	f.addFighter(t, "hero", participant.KindPlayer, 20, 90, "docks")
	f.addFighter(t, "cultist", participant.KindNPC, 12, 50, "docks")

	id, err := f.manager.StartCombat("hero", "cultist", "docks", 0)
	require.NoError(t, err)
	inst, _ := f.manager.Instance(id)
	inst.MemberByID("cultist").Fled = true

	out := combat.ResolveRound(inst, f.deps(fixedSource{0}))

	// The hero's default attack finds no live target, and with the only NPC
	// gone the fight is over.
	require.Len(t, out.Events, 1)
	assert.Equal(t, combat.EventMiss, out.Events[0].Type)
	assert.True(t, out.SideEliminated)
}
