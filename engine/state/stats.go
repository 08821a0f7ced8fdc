package state

import (
	"math"

	"github.com/nathoo/olympos/types"
)

// MaxHealth is floor(1 + 0.8·vitality + 0.2·domain).
func MaxHealth(s *types.Stats) int {
	return int(math.Floor(1.0 + float64(s.Vitality)*0.8 + float64(s.Domain)*0.2))
}

// MaxMana is aura + domain.
func MaxMana(s *types.Stats) int {
	return s.Aura + s.Domain
}

// MaxStamina keeps stamina growth slow: roughly one action per point per tick.
func MaxStamina(s *types.Stats) int {
	return 1 + int(math.Floor(math.Cbrt(1.0+float64(s.Vitality)*0.5+float64(s.Strength)+float64(s.Domain)*0.5)))
}

// DetectionRange is how far (Manhattan) an entity can sense others.
func DetectionRange(s *types.Stats) int {
	return 4 + int(math.Floor(math.Cbrt(float64(s.Vitality))))
}

// Regeneration rates per tick.
func healthRate(s *types.Stats) float64 {
	return float64(s.Vitality)*0.1 + float64(s.Domain)*0.05
}

func manaRate(s *types.Stats) float64 {
	return float64(s.ChannelRate) * 0.1
}

func staminaRate(s *types.Stats) float64 {
	return 1.0 + math.Cbrt(healthRate(s))
}

// TickIncrease returns the whole units gained at tick by a resource that
// regenerates rate units per tick. No fractional remainder is stored: the
// gain is floor(rate·tick) − floor(rate·(tick−1)).
func TickIncrease(rate float64, tick int) int {
	if tick <= 0 {
		return 0
	}
	return int(math.Floor(rate*float64(tick)) - math.Floor(rate*float64(tick-1)))
}

// Regenerate applies one tick of health, mana and stamina regeneration.
// The results stay inside [0, max], which also pulls back resources left
// above a maximum that has since shrunk.
func Regenerate(s *types.Stats, tick int) {
	s.Health += TickIncrease(healthRate(s), tick)
	s.Mana += TickIncrease(manaRate(s), tick)
	s.Stamina += TickIncrease(staminaRate(s), tick)
	clampStats(s)
}

// Fill sets health, mana and stamina to their maxima.
func Fill(s *types.Stats) {
	s.Health = MaxHealth(s)
	s.Mana = MaxMana(s)
	s.Stamina = MaxStamina(s)
}

// clampStats keeps current resources inside [0, max].
func clampStats(s *types.Stats) {
	s.Health = max(0, min(s.Health, MaxHealth(s)))
	s.Mana = max(0, min(s.Mana, MaxMana(s)))
	s.Stamina = max(0, min(s.Stamina, MaxStamina(s)))
}
