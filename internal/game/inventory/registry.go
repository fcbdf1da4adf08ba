package inventory

import (
	"fmt"
	"sync"
)

// Registry indexes weapon definitions and tracks which weapon each
// participant has equipped. All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	weapons  map[string]*Weapon
	equipped map[string]string // participant ID -> weapon ID
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		weapons:  make(map[string]*Weapon),
		equipped: make(map[string]string),
	}
}

// Register adds a weapon definition.
//
// Postcondition: Returns an error if the weapon ID is already registered.
func (r *Registry) Register(w *Weapon) error {
	if err := w.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("weapon %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// Weapon returns the definition for weaponID, or nil.
func (r *Registry) Weapon(weaponID string) *Weapon {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.weapons[weaponID]
}

// Equip records weaponID as participantID's equipped weapon.
//
// Precondition: weaponID must be registered.
func (r *Registry) Equip(participantID, weaponID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.weapons[weaponID]; !ok {
		return fmt.Errorf("weapon %q not found", weaponID)
	}
	r.equipped[participantID] = weaponID
	return nil
}

// Unequip clears participantID's equipped weapon.
func (r *Registry) Unequip(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.equipped, participantID)
}

// EquippedWeapon returns the weapon participantID currently wields.
//
// Postcondition: Returns (nil, false) for unarmed participants.
func (r *Registry) EquippedWeapon(participantID string) (*Weapon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	weaponID, ok := r.equipped[participantID]
	if !ok {
		return nil, false
	}
	w, ok := r.weapons[weaponID]
	return w, ok
}
