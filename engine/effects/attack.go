package effects

import (
	"math"

	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/engine/target"
	"github.com/nathoo/olympos/types"
)

// MarkAttack tags the tile an attack looked at.
const MarkAttack = "attack"

// DamageCalc computes floor(base + Σ coefficient·attribute) from an
// effects "damage" block. "reflexes" is accepted for dexterity.
func DamageCalc(damage map[string]any, s *types.Stats) int {
	base, _ := target.Number(damage, "base")
	if s == nil {
		return max(0, int(math.Floor(base)))
	}
	str, _ := target.Number(damage, "strength")
	dom, _ := target.Number(damage, "domain")
	aura, _ := target.Number(damage, "aura")
	dex, ok := target.Number(damage, "dexterity")
	if !ok {
		dex, _ = target.Number(damage, "reflexes")
	}
	total := base +
		str*float64(s.Strength) +
		dom*float64(s.Domain) +
		aura*float64(s.Aura) +
		dex*float64(s.Dexterity)
	return max(0, int(math.Floor(total)))
}

// buildAttack hits at most one target. The stamina cost is paid whether or
// not anything was hit.
func buildAttack(a types.Ability, actorID uint64) state.Handler {
	dmg := target.Section(a.Effects, "damage")
	return func(w *state.World, args []string) error {
		actor := w.Entity(actorID)
		if actor == nil {
			return nil
		}
		defer actor.SpendStamina(a.Stamina)

		res := target.Single(w, actor, a, args)
		if res.HasProbe {
			w.Mark(res.Probe, MarkAttack)
		}
		if len(res.Targets) == 0 {
			return fail(w, a, actor, argument(a, args))
		}

		tgt := res.Targets[0]
		if err := succeed(w, a, actor, Object(tgt), tgt.Pos); err != nil {
			return err
		}
		w.Damage(tgt.ID, DamageCalc(dmg, actor.Stats))
		return nil
	}
}
