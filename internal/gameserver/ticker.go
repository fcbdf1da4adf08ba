// Package gameserver wires the game subsystems together: the tick clock,
// the combat command surface, movement, and NPC spawning.
package gameserver

import (
	"sync"
	"time"
)

// TickHandler receives the absolute tick number on every tick.
type TickHandler func(tick int64)

// TickDriver is the fixed-interval game clock. It maintains a monotonically
// increasing absolute tick counter and fans each tick out to registered
// handlers sequentially, so a handler never observes ticks out of order.
//
// Invariant: the tick counter never decreases and never skips.
type TickDriver struct {
	interval time.Duration

	mu       sync.Mutex
	tick     int64
	handlers []TickHandler

	done     chan struct{}
	stopOnce sync.Once
}

// NewTickDriver creates a stopped TickDriver.
//
// Precondition: interval must be > 0.
func NewTickDriver(interval time.Duration) *TickDriver {
	if interval <= 0 {
		panic("gameserver.NewTickDriver: interval must be > 0")
	}
	return &TickDriver{
		interval: interval,
		done:     make(chan struct{}),
	}
}

// RegisterHandler adds a handler invoked once per tick, in registration order.
//
// Precondition: fn must not be nil. Register before Start.
func (t *TickDriver) RegisterHandler(fn TickHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers = append(t.handlers, fn)
}

// CurrentTick returns the last completed tick number.
func (t *TickDriver) CurrentTick() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tick
}

// Advance executes exactly one tick: increments the counter and invokes every
// handler with the new value. Exposed so tests and offline tools can drive
// the clock deterministically.
func (t *TickDriver) Advance() {
	t.mu.Lock()
	t.tick++
	tick := t.tick
	handlers := make([]TickHandler, len(t.handlers))
	copy(handlers, t.handlers)
	t.mu.Unlock()

	for _, fn := range handlers {
		fn(tick)
	}
}

// Start runs the tick loop, blocking until Stop is called.
// Implements the server Service interface.
//
// Postcondition: handlers are invoked once per interval until Stop.
func (t *TickDriver) Start() error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.Advance()
		case <-t.done:
			return nil
		}
	}
}

// Stop terminates the tick loop. Idempotent.
func (t *TickDriver) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}
