package combat

import "errors"

// ErrAlreadyInCombat is returned when starting combat for a participant that
// already belongs to an active instance. Recovered locally: the caller
// surfaces an "already fighting" message.
var ErrAlreadyInCombat = errors.New("participant already in combat")

// ErrCombatNotActive is returned when an action is enqueued against an
// instance that is Ending or Ended. The action is dropped; never fatal.
var ErrCombatNotActive = errors.New("combat is not active")

// ErrCombatNotFound is returned when a combat ID resolves to no instance.
var ErrCombatNotFound = errors.New("combat not found")

// ErrNotAMember is returned when an action is enqueued for a participant
// that does not belong to the instance.
var ErrNotAMember = errors.New("participant is not a member of this combat")

// ErrParticipantDead is returned when combat is started with, or an attack
// is aimed at, a participant that is already dead. Recovered locally: the
// caller surfaces the rejection to the actor.
var ErrParticipantDead = errors.New("participant is dead")
