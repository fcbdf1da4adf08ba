package gameserver_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/gameserver"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved map[string]int
}

func (r *recordingSaver) SaveVitals(_ context.Context, playerID string, current int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		r.saved = make(map[string]int)
	}
	r.saved[playerID] = current
	return nil
}

func (r *recordingSaver) get(playerID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.saved[playerID]
	return v, ok
}

func startVitalsSync(t *testing.T, h *harness, saver gameserver.VitalsSaver) {
	t.Helper()
	vs := gameserver.NewVitalsSync(h.registry, saver, h.bus, time.Second, zap.NewNop())
	go func() { _ = vs.Start() }()
	t.Cleanup(vs.Stop)
}

func TestVitalsSync_PersistsPlayerVitalityOnTermination(t *testing.T) {
	h := newHarness(t)
	saver := &recordingSaver{}
	startVitalsSync(t, h, saver)

	cultist := h.spawnCultist(t, "docks")
	combatID, err := h.combat.Attack("hero", "dock cultist")
	require.NoError(t, err)

	_, err = h.registry.ApplyDamage("hero", 5)
	require.NoError(t, err)

	h.combat.ForceEnd(combatID)

	require.Eventually(t, func() bool {
		_, ok := saver.get("hero")
		return ok
	}, 2*time.Second, 10*time.Millisecond, "termination must flush the player's vitals")

	vit, _ := saver.get("hero")
	assert.Equal(t, 15, vit)

	_, npcSaved := saver.get(cultist.ID)
	assert.False(t, npcSaved, "only player vitals are persisted")
}

func TestVitalsSync_IgnoresNonTerminationNotices(t *testing.T) {
	h := newHarness(t)
	saver := &recordingSaver{}
	startVitalsSync(t, h, saver)

	h.spawnCultist(t, "docks")
	_, err := h.combat.Attack("hero", "dock cultist")
	require.NoError(t, err)

	// Only the started notice has been published so far.
	time.Sleep(50 * time.Millisecond)
	_, saved := saver.get("hero")
	assert.False(t, saved)
}
