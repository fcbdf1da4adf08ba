// Package inventory provides weapon definitions and the equipped-weapon
// lookup consumed by the combat engine. The full item model lives elsewhere;
// combat only reads damage stats.
package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DamageType classifies the damage a weapon deals.
type DamageType string

const (
	DamageSlash  DamageType = "slash"
	DamagePierce DamageType = "pierce"
	DamageBlunt  DamageType = "blunt"
	// DamageOccult covers ranged eldritch effects; it is not melee and is
	// exempt from the same-room requirement.
	DamageOccult DamageType = "occult"
)

// IsMelee reports whether this damage type requires attacker and target to
// share a room.
func (d DamageType) IsMelee() bool {
	switch d {
	case DamageSlash, DamagePierce, DamageBlunt:
		return true
	default:
		return false
	}
}

func validDamageType(d DamageType) bool {
	switch d {
	case DamageSlash, DamagePierce, DamageBlunt, DamageOccult:
		return true
	default:
		return false
	}
}

// Weapon defines the combat-relevant stats of an equippable weapon.
// Base damage is a uniform roll in [MinDamage, MaxDamage] plus Modifier.
type Weapon struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	MinDamage   int          `yaml:"min_damage"`
	MaxDamage   int          `yaml:"max_damage"`
	Modifier    int          `yaml:"modifier"`
	DamageTypes []DamageType `yaml:"damage_types"`
}

// PrimaryType returns the weapon's first damage type.
//
// Precondition: the weapon has passed Validate (at least one damage type).
func (w *Weapon) PrimaryType() DamageType {
	return w.DamageTypes[0]
}

// Validate checks that the weapon definition satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, 1 <= MinDamage <=
// MaxDamage, and every damage type is known.
func (w *Weapon) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("weapon: id must not be empty")
	}
	if w.Name == "" {
		return fmt.Errorf("weapon %q: name must not be empty", w.ID)
	}
	if w.MinDamage < 1 {
		return fmt.Errorf("weapon %q: min_damage must be >= 1, got %d", w.ID, w.MinDamage)
	}
	if w.MaxDamage < w.MinDamage {
		return fmt.Errorf("weapon %q: max_damage %d must be >= min_damage %d", w.ID, w.MaxDamage, w.MinDamage)
	}
	if len(w.DamageTypes) == 0 {
		return fmt.Errorf("weapon %q: must declare at least one damage type", w.ID)
	}
	for _, dt := range w.DamageTypes {
		if !validDamageType(dt) {
			return fmt.Errorf("weapon %q: unknown damage type %q", w.ID, dt)
		}
	}
	return nil
}

// LoadWeaponFromBytes parses a single weapon definition from raw YAML bytes.
//
// Postcondition: Returns a validated *Weapon, or an error.
func LoadWeaponFromBytes(data []byte) (*Weapon, error) {
	var w Weapon
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing weapon YAML: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// LoadWeapons reads all *.yaml files in dir and returns the parsed weapons.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all weapons or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadWeapons(dir string) ([]*Weapon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading weapons dir %q: %w", dir, err)
	}

	var weapons []*Weapon
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		w, err := LoadWeaponFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		weapons = append(weapons, w)
	}
	return weapons, nil
}
