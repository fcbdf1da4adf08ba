package npc

import (
	"fmt"
	"strings"
	"sync"
)

// Manager tracks all live NPC instances. All methods are safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*Instance
}

// NewManager creates an empty NPC Manager.
func NewManager() *Manager {
	return &Manager{instances: make(map[string]*Instance)}
}

// Add registers a live instance.
//
// Postcondition: Returns an error if the instance ID is already registered.
func (m *Manager) Add(inst *Instance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.instances[inst.ID]; exists {
		return fmt.Errorf("npc instance %q already registered", inst.ID)
	}
	m.instances[inst.ID] = inst
	return nil
}

// Get returns the instance with the given ID.
//
// Postcondition: Returns (instance, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	return inst, ok
}

// Remove deletes the instance with the given ID.
//
// Postcondition: Returns an error if no such instance exists.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[id]; !ok {
		return fmt.Errorf("npc instance %q not found", id)
	}
	delete(m.instances, id)
	return nil
}

// FindInRoom returns the first instance in roomID whose name matches name
// (case-insensitive), or nil.
func (m *Manager) FindInRoom(roomID, name string) *Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inst := range m.instances {
		if inst.RoomID == roomID && strings.EqualFold(inst.Name, name) {
			return inst
		}
	}
	return nil
}

// XPReward returns the configured experience reward for the NPC with the
// given instance ID.
//
// Postcondition: Returns (reward, true) for live instances, (0, false) otherwise.
func (m *Manager) XPReward(id string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	if !ok {
		return 0, false
	}
	return inst.XPReward, true
}

// Count returns the number of live instances.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.instances)
}
