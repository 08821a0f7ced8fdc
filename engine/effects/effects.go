// Package effects turns ability definitions into handlers that mutate the
// world. A handler holds only its actor's identity and looks the actor up
// on every call, so it always sees current stamina and position. Game
// outcomes are written to the event log; only out-of-bounds requests come
// back as errors.
package effects

import (
	"strings"

	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/engine/target"
	"github.com/nathoo/olympos/types"
)

// Rand is the random source used by handlers. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Build produces the handler for ability a acting as actorID. Abilities of
// an unknown type, or with effects no handler understands, bind a no-op.
func Build(a types.Ability, actorID uint64, rng Rand) state.Handler {
	switch a.Type {
	case types.AbilityMovement:
		return buildMove(a, actorID, rng)
	case types.AbilityAttack:
		return buildAttack(a, actorID)
	case types.AbilityUtility:
		switch {
		case a.Effects["equip"] != nil:
			return buildEquip(a, actorID)
		case a.Effects["information"] != nil:
			return buildInformation(a, actorID)
		}
	}
	return noop
}

func noop(*state.World, []string) error { return nil }

// Flavor fills in the <entity> and <target> tokens. The player is "You" as
// the actor and "you" as the target.
func Flavor(text string, actor *state.Entity, targetName string) string {
	text = strings.ReplaceAll(text, "<entity>", Subject(actor))
	return strings.ReplaceAll(text, "<target>", targetName)
}

// Subject is how an actor is named at the start of a sentence.
func Subject(e *state.Entity) string {
	if e.IsPlayer() {
		return "You"
	}
	return e.Name
}

// Object is how a target is named inside a sentence.
func Object(e *state.Entity) string {
	if e.IsPlayer() {
		return "you"
	}
	return e.Name
}

// failText is the fail flavor, or a generic message when none is defined.
func failText(a types.Ability) string {
	if a.FailFlavor != "" {
		return a.FailFlavor
	}
	return "<entity> failed to " + a.Name + "."
}

// succeed logs the success flavor at pos.
func succeed(w *state.World, a types.Ability, actor *state.Entity, targetName string, pos types.Position) error {
	if a.Flavor == "" {
		return nil
	}
	return w.LogEvent(Flavor(a.Flavor, actor, targetName), pos)
}

// fail logs the fail flavor at the actor's tile.
func fail(w *state.World, a types.Ability, actor *state.Entity, targetName string) error {
	return w.LogEvent(Flavor(failText(a), actor, targetName), actor.Pos)
}

// argument is the text standing in for <target> when nothing was found.
func argument(a types.Ability, args []string) string {
	return target.Choose(a, args).Arg
}
