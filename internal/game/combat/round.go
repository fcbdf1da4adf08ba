package combat

import (
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/dice"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/inventory"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/game/participant"
)

// RoundEventType classifies what happened during one resolved action.
type RoundEventType int

const (
	// EventHit is a successful attack that dealt damage (possibly 0 after
	// mitigation).
	EventHit RoundEventType = iota
	// EventMiss is an attack whose target was gone, dead, or fled when the
	// action resolved.
	EventMiss
	// EventPass is an explicit no-op action.
	EventPass
	// EventDeath is a killing blow.
	EventDeath
	// EventIncapacitated is a blow that dropped the target below zero
	// vitality without killing them.
	EventIncapacitated
)

// RoundEvent is one resolved action within a round, in initiative order.
type RoundEvent struct {
	Type     RoundEventType
	ActorID  string
	TargetID string
	Damage   int
	// Vitality is the target's vitality after the action, for hit events.
	Vitality int
}

// Death records a killing blow for the reward pipeline.
type Death struct {
	KillerID   string
	KillerKind participant.Kind
	VictimID   string
	VictimKind participant.Kind
}

// RoundOutcome is the result of executing one round of one instance.
type RoundOutcome struct {
	Events []RoundEvent
	Deaths []Death
	// RoomMismatch is set when a melee attacker and target were found in
	// different rooms; the round stops immediately and the instance must be
	// terminated with no damage applied for that action.
	RoomMismatch bool
	// SideEliminated is set when one side has no members left able to fight.
	SideEliminated bool
}

// WeaponSource resolves the currently equipped weapon for a participant.
// A false return means the participant fights unarmed.
type WeaponSource interface {
	EquippedWeapon(participantID string) (*inventory.Weapon, bool)
}

// RoomLocator resolves a participant's current room. Combat re-reads
// locations every round instead of caching them at combat start.
type RoomLocator interface {
	CurrentRoom(participantID string) (string, bool)
}

// RoundDeps carries the collaborators round resolution reads and writes.
type RoundDeps struct {
	Registry *participant.Registry
	Weapons  WeaponSource
	Rooms    RoomLocator
	Source   dice.Source
	// UnarmedDamage is the flat base damage for unarmed attacks.
	UnarmedDamage int
}

// ResolveRound executes a single round of inst: drains the queued actions,
// orders all able members by initiative, and resolves one action per member.
// Members without a queued action attack their last-known opponent.
//
// The caller (the Manager, holding its mutex) applies the outcome: it
// terminates the instance on RoomMismatch or SideEliminated, and otherwise
// schedules the next round.
//
// Precondition: inst must be Active; deps fields must all be non-nil.
// Postcondition: every member resolved at most one action; on RoomMismatch
// the offending action dealt no damage and later actions did not run.
func ResolveRound(inst *Instance, deps RoundDeps) RoundOutcome {
	var out RoundOutcome
	actions := inst.DrainActions()
	order := Order(inst.Entrants())

	for _, actorID := range order {
		actor := inst.MemberByID(actorID)
		if actor == nil || actor.Fled {
			continue
		}
		snap, ok := deps.Registry.Get(actorID)
		if !ok || !snap.Alive() {
			continue
		}

		action, queued := actions[actorID]
		if !queued || action.Type == ActionUnknown {
			action = Action{Type: ActionAttack, Target: actor.Opponent}
		}
		if action.Target == "" {
			action.Target = actor.Opponent
		}
		if action.Type == ActionNone {
			out.Events = append(out.Events, RoundEvent{Type: EventPass, ActorID: actorID})
			continue
		}

		ev, death, mismatch := resolveAttack(inst, actor, snap, action, deps)
		if mismatch {
			out.RoomMismatch = true
			return out
		}
		out.Events = append(out.Events, ev)
		if death != nil {
			out.Deaths = append(out.Deaths, *death)
		}
		if sideEliminated(inst, deps.Registry) {
			out.SideEliminated = true
			return out
		}
	}

	if sideEliminated(inst, deps.Registry) {
		out.SideEliminated = true
	}
	return out
}

// resolveAttack resolves one attack action. Returns the event, a Death record
// for killing blows, and whether a melee room mismatch was detected.
func resolveAttack(inst *Instance, actor *Member, actorSnap participant.Snapshot, action Action, deps RoundDeps) (RoundEvent, *Death, bool) {
	target := inst.MemberByID(action.Target)
	if target == nil || target.Fled {
		return RoundEvent{Type: EventMiss, ActorID: actor.ID, TargetID: action.Target}, nil, false
	}
	targetSnap, ok := deps.Registry.Get(target.ID)
	if !ok || targetSnap.Condition == participant.ConditionDead {
		return RoundEvent{Type: EventMiss, ActorID: actor.ID, TargetID: target.ID}, nil, false
	}

	var weapon *inventory.Weapon
	if w, armed := deps.Weapons.EquippedWeapon(actor.ID); armed {
		weapon = w
	}
	dtype := inventory.DamageBlunt
	if weapon != nil {
		dtype = weapon.PrimaryType()
	}

	if dtype.IsMelee() {
		actorRoom, _ := deps.Rooms.CurrentRoom(actor.ID)
		targetRoom, _ := deps.Rooms.CurrentRoom(target.ID)
		if !ValidateMelee(actorRoom, targetRoom, inst.RoomID) {
			return RoundEvent{}, nil, true
		}
	}

	baseRoll, modifier := RollBaseDamage(weapon, deps.UnarmedDamage, deps.Source)
	dmg := ResolveDamage(
		StatBlock{Strength: actorSnap.Strength, Constitution: actorSnap.Constitution},
		StatBlock{Strength: targetSnap.Strength, Constitution: targetSnap.Constitution},
		baseRoll, modifier, dtype,
	)

	outcome, _ := deps.Registry.ApplyDamage(target.ID, dmg)

	actor.Opponent = target.ID
	target.Opponent = actor.ID

	ev := RoundEvent{
		Type:     EventHit,
		ActorID:  actor.ID,
		TargetID: target.ID,
		Damage:   dmg,
		Vitality: outcome.Vitality,
	}
	var death *Death
	switch {
	case outcome.BecameDead:
		ev.Type = EventDeath
		death = &Death{
			KillerID:   actor.ID,
			KillerKind: actor.Kind,
			VictimID:   target.ID,
			VictimKind: target.Kind,
		}
	case outcome.BecameIncapacitated:
		ev.Type = EventIncapacitated
	}
	return ev, death, false
}

// sideEliminated reports whether players or NPCs have no member left able to
// fight. Dead and fled members do not count; incapacitated members do, since
// they remain valid targets and can be healed back into the fight.
func sideEliminated(inst *Instance, reg *participant.Registry) bool {
	players, npcs := 0, 0
	for _, m := range inst.Members {
		if m.Fled {
			continue
		}
		snap, ok := reg.Get(m.ID)
		if !ok || snap.Condition == participant.ConditionDead {
			continue
		}
		if m.Kind == participant.KindPlayer {
			players++
		} else {
			npcs++
		}
	}
	return players == 0 || npcs == 0
}
