package npc

// Instance is a live NPC entity occupying a room.
// Vitality and condition live in the participant registry; the instance
// carries identity and template-derived data only.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// TemplateID is the source template's ID.
	TemplateID string
	// Name is copied from the template for display.
	Name string
	// Description is copied from the template.
	Description string
	// RoomID is the room this instance spawned into.
	RoomID string
	// Weapon is the weapon definition ID this instance wields; empty = unarmed.
	Weapon string
	// XPReward is the experience granted to the killer, copied at spawn time.
	XPReward int
}

// NewInstance creates a live NPC instance from a template, placed in roomID.
//
// Precondition: id must be non-empty; tmpl must be non-nil; roomID must be non-empty.
func NewInstance(id string, tmpl *Template, roomID string) *Instance {
	return &Instance{
		ID:          id,
		TemplateID:  tmpl.ID,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		RoomID:      roomID,
		Weapon:      tmpl.Weapon,
		XPReward:    tmpl.XPReward,
	}
}
