package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/inventory"
)

func validWeapon() *inventory.Weapon {
	return &inventory.Weapon{
		ID: "boarding_axe", Name: "boarding axe",
		MinDamage: 2, MaxDamage: 8, Modifier: 1,
		DamageTypes: []inventory.DamageType{inventory.DamageSlash},
	}
}

func TestWeaponValidate(t *testing.T) {
	require.NoError(t, validWeapon().Validate())

	w := validWeapon()
	w.ID = ""
	assert.Error(t, w.Validate())

	w = validWeapon()
	w.MinDamage = 0
	assert.Error(t, w.Validate())

	w = validWeapon()
	w.MaxDamage = 1
	assert.Error(t, w.Validate())

	w = validWeapon()
	w.DamageTypes = nil
	assert.Error(t, w.Validate())

	w = validWeapon()
	w.DamageTypes = []inventory.DamageType{"psychic"}
	assert.Error(t, w.Validate())
}

func TestDamageType_IsMelee(t *testing.T) {
	assert.True(t, inventory.DamageSlash.IsMelee())
	assert.True(t, inventory.DamagePierce.IsMelee())
	assert.True(t, inventory.DamageBlunt.IsMelee())
	assert.False(t, inventory.DamageOccult.IsMelee())
}

func TestLoadWeaponFromBytes(t *testing.T) {
	yaml := `
id: rusted_hook
name: rusted cargo hook
min_damage: 1
max_damage: 4
modifier: 0
damage_types: [pierce]
`
	w, err := inventory.LoadWeaponFromBytes([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, "rusted_hook", w.ID)
	assert.Equal(t, inventory.DamagePierce, w.PrimaryType())
}

func TestRegistry_EquipLifecycle(t *testing.T) {
	reg := inventory.NewRegistry()
	require.NoError(t, reg.Register(validWeapon()))

	assert.Error(t, reg.Register(validWeapon()), "duplicate weapon id")
	assert.Error(t, reg.Equip("hero", "no-such-weapon"))

	_, armed := reg.EquippedWeapon("hero")
	assert.False(t, armed)

	require.NoError(t, reg.Equip("hero", "boarding_axe"))
	w, armed := reg.EquippedWeapon("hero")
	require.True(t, armed)
	assert.Equal(t, "boarding_axe", w.ID)

	reg.Unequip("hero")
	_, armed = reg.EquippedWeapon("hero")
	assert.False(t, armed)
}
