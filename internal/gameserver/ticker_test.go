package gameserver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/gameserver"
)

func TestTickDriver_AdvanceIncrementsAndNotifies(t *testing.T) {
	td := gameserver.NewTickDriver(time.Hour)

	var seen []int64
	td.RegisterHandler(func(tick int64) { seen = append(seen, tick) })

	td.Advance()
	td.Advance()
	td.Advance()

	assert.Equal(t, []int64{1, 2, 3}, seen)
	assert.Equal(t, int64(3), td.CurrentTick())
}

func TestTickDriver_HandlersRunInRegistrationOrder(t *testing.T) {
	td := gameserver.NewTickDriver(time.Hour)

	var order []string
	td.RegisterHandler(func(int64) { order = append(order, "first") })
	td.RegisterHandler(func(int64) { order = append(order, "second") })

	td.Advance()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestTickDriver_StartStop(t *testing.T) {
	td := gameserver.NewTickDriver(5 * time.Millisecond)

	ticks := make(chan int64, 64)
	td.RegisterHandler(func(tick int64) {
		select {
		case ticks <- tick:
		default:
		}
	})

	done := make(chan error, 1)
	go func() { done <- td.Start() }()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop did not fire")
	}

	td.Stop()
	td.Stop() // idempotent

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop did not stop")
	}
}

func TestNewTickDriver_RejectsNonPositiveInterval(t *testing.T) {
	assert.Panics(t, func() { gameserver.NewTickDriver(0) })
}
