package loader

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/olympos/engine/ability"
	"github.com/nathoo/olympos/engine/parser"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/engine/target"
	"github.com/nathoo/olympos/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// finish logs the warnings and returns e only if it holds errors.
func (e *ValidationError) finish(log logrus.FieldLogger) error {
	log = orDiscard(log)
	for _, w := range e.Warnings {
		log.Warn(w)
	}
	if len(e.Errors) > 0 {
		return e
	}
	return nil
}

// Conditional movement keys understood by the effects package.
var conditionalKeys = []string{"minimize distance", "maximize distance", "maintain distance"}

// validateDefs checks the compiled catalogs for consistency.
func validateDefs(defs *state.Defs, log logrus.FieldLogger) error {
	ve := &ValidationError{}

	definedIn := map[string]string{}
	for _, set := range defs.AbilitySets {
		if set.Name == "" {
			ve.errorf("ability set with an empty name")
		}
		for _, name := range set.Order {
			a := set.Abilities[name]
			if name == "" {
				ve.errorf("set %q: ability with an empty name", set.Name)
				continue
			}
			if first, dup := definedIn[name]; dup {
				ve.warnf("ability %q in set %q is shadowed by set %q", name, set.Name, first)
			} else {
				definedIn[name] = set.Name
			}
			validateAbility(a, set.Name, ve)
		}
	}

	known := map[string]bool{ability.AttackAlias: true}
	for name := range definedIn {
		known[name] = true
	}
	for name, b := range defs.Behaviors {
		if name == types.NoBehavior {
			ve.errorf("behavior set %q is reserved for entities without behavior", name)
		}
		for i, r := range b.Rules {
			if r.When.Kind == types.CondNever {
				ve.warnf("behavior %q rule %d: condition %q is not recognised and never fires", name, i+1, r.When.Raw)
			}
			if len(r.Actions) == 0 {
				ve.warnf("behavior %q rule %d queues nothing", name, i+1)
			}
			for _, cmd := range r.Actions {
				p := parser.Parse(cmd)
				if p.Action == "" {
					ve.warnf("behavior %q rule %d: empty command %q", name, i+1, cmd)
				} else if !known[p.Action] {
					ve.warnf("behavior %q rule %d: %q names no ability", name, i+1, p.Action)
				}
			}
		}
	}

	return ve.finish(log)
}

func validateAbility(a types.Ability, set string, ve *ValidationError) {
	where := fmt.Sprintf("set %q ability %q", set, a.Name)

	literals := []string(nil)
	if len(a.Arguments) > 0 && a.Arguments[0] == "or" {
		literals = a.Arguments[1:]
		if len(literals) == 0 {
			ve.errorf("%s: \"or\" with no alternatives", where)
		}
	}
	for _, arg := range a.DefaultArgs {
		if len(literals) > 0 && !slices.Contains(literals, arg) && !slices.Contains(literals, target.Placeholder) {
			ve.warnf("%s: default argument %q is not one of its alternatives", where, arg)
		}
	}

	switch a.Type {
	case types.AbilityMovement:
		_, fixed := target.Offset(a.Effects)
		dist := target.Section(a.Effects, "distance")
		lo, okLo := target.Number(dist, "random_min")
		hi, okHi := target.Number(dist, "random_max")
		random := okLo && okHi
		if random && hi < lo {
			ve.errorf("%s: random_max %v is below random_min %v", where, hi, lo)
		}
		conditional := false
		for _, k := range conditionalKeys {
			if a.Effects[k] != nil {
				conditional = true
			}
		}
		if !fixed && !random && !conditional && len(literals) == 0 {
			ve.errorf("%s: movement without a distance or a conditional effect", where)
		}
		for _, lit := range literals {
			if _, ok := target.Offset(target.Section(a.Effects, lit)); !ok {
				ve.warnf("%s: alternative %q has no distance and always fails", where, lit)
			}
		}

	case types.AbilityAttack:
		if target.Section(a.Effects, "damage") == nil {
			ve.warnf("%s: attack without damage", where)
		}

	case types.AbilityUtility:
		if a.Effects["equip"] == nil && a.Effects["information"] == nil {
			ve.warnf("%s: utility with neither equip nor information does nothing", where)
		}
	}
}

// validateScenario checks a compiled scenario against the catalogs.
func validateScenario(sc types.Scenario, defs *state.Defs, log logrus.FieldLogger) error {
	ve := &ValidationError{}

	if sc.Height <= 0 || sc.Width <= 0 {
		ve.errorf("world size %dx%d must be positive", sc.Height, sc.Width)
	}
	players := 0
	for i, e := range sc.Entities {
		where := fmt.Sprintf("spawn %d (%s)", i+1, e.Name)
		if e.Name == "" {
			ve.errorf("spawn %d has no name", i+1)
		}
		if e.Pos.Y < 0 || e.Pos.X < 0 || e.Pos.Y >= sc.Height || e.Pos.X >= sc.Width {
			ve.errorf("%s: position %d,%d is off the %dx%d map", where, e.Pos.Y, e.Pos.X, sc.Height, sc.Width)
		} else if sc.Walls && onBorder(e.Pos, sc) {
			ve.warnf("%s: placed on the border wall at %d,%d", where, e.Pos.Y, e.Pos.X)
		}
		if e.Behavior != "" && e.Behavior != types.NoBehavior && defs != nil {
			if _, ok := defs.Behavior(e.Behavior); !ok {
				ve.warnf("%s: unknown behavior %q, it will never act", where, e.Behavior)
			}
		}
		if slices.Contains(e.Traits, "player") {
			players++
		}
	}
	if players == 0 {
		ve.warnf("scenario %q has no player", sc.Name)
	}

	return ve.finish(log)
}

func onBorder(p types.Position, sc types.Scenario) bool {
	return p.Y == 0 || p.X == 0 || p.Y == sc.Height-1 || p.X == sc.Width-1
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
