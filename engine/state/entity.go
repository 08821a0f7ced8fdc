package state

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/nathoo/olympos/types"
)

// Handler is a bound ability. It looks its actor up in w at call time.
// Resolution misses are reported through the event log, never as errors;
// a returned error always means an out-of-bounds request.
type Handler func(w *World, args []string) error

// nextEntityID is shared by every world so identities are never reused.
var nextEntityID atomic.Uint64

// Slot is an equipment slot with its current occupant, if any.
type Slot struct {
	Name    string
	Accepts []string
	Item    *Entity
}

// Entity is anything that occupies a tile: creatures, walls, items.
type Entity struct {
	ID          uint64
	Pos         types.Position
	Name        string
	Traits      map[string]bool
	Stats       *types.Stats
	BehaviorSet string

	// Handlers and the abilities they were built from, keyed by action name.
	Handlers map[string]Handler
	Details  map[string]types.Ability

	Mastery map[string]float64
	Slots   []Slot
}

// NewEntity creates an entity with a fresh identity. It is not placed in any
// world until World.Place is called.
func NewEntity(pos types.Position, name string, traits []string) *Entity {
	e := &Entity{
		ID:          nextEntityID.Add(1),
		Pos:         pos,
		Name:        name,
		Traits:      map[string]bool{},
		BehaviorSet: types.NoBehavior,
		Handlers:    map[string]Handler{},
		Details:     map[string]types.Ability{},
		Mastery:     map[string]float64{},
	}
	for _, t := range traits {
		e.Traits[t] = true
	}
	return e
}

// HasTrait reports whether the entity carries trait.
func (e *Entity) HasTrait(trait string) bool {
	return e.Traits[trait]
}

// HasAllTraits reports whether the entity carries every trait.
func (e *Entity) HasAllTraits(traits []string) bool {
	for _, t := range traits {
		if !e.Traits[t] {
			return false
		}
	}
	return true
}

// AddTraits adds traits. Handlers are not rebuilt here; see ability.Binder.
func (e *Entity) AddTraits(traits ...string) {
	for _, t := range traits {
		e.Traits[t] = true
	}
}

// TraitList returns the traits sorted.
func (e *Entity) TraitList() []string {
	out := make([]string, 0, len(e.Traits))
	for t := range e.Traits {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Species returns the value of the "species:" trait, or "".
func (e *Entity) Species() string {
	for t := range e.Traits {
		if s, ok := strings.CutPrefix(t, "species:"); ok {
			return s
		}
	}
	return ""
}

// IsPlayer reports whether the entity is player controlled.
func (e *Entity) IsPlayer() bool {
	return e.Traits["player"]
}

// Blocks reports whether the entity makes its tile impassable: anything
// "impassable", and mobs that are neither small nor flying.
func (e *Entity) Blocks() bool {
	if e.Traits["impassable"] {
		return true
	}
	return e.Traits["mob"] && !e.Traits["small"] && !e.Traits["flying"]
}

// SpendStamina removes n stamina, never going below zero.
func (e *Entity) SpendStamina(n int) {
	if e.Stats == nil {
		return
	}
	e.Stats.Stamina = max(0, e.Stats.Stamina-n)
}

// HasStamina reports whether the entity can pay n stamina. Entities without
// stats can only pay for free actions.
func (e *Entity) HasStamina(n int) bool {
	if e.Stats == nil {
		return n <= 0
	}
	return e.Stats.Stamina >= n
}

// Describe returns the descriptive attributes shown by information
// abilities.
func (e *Entity) Describe() map[string]string {
	d := map[string]string{
		"name":     e.Name,
		"traits":   strings.Join(e.TraitList(), ", "),
		"position": fmt.Sprintf("%d,%d", e.Pos.Y, e.Pos.X),
	}
	if sp := e.Species(); sp != "" {
		d["species"] = sp
	}
	if s := e.Stats; s != nil {
		d["health"] = fmt.Sprintf("%d/%d", s.Health, MaxHealth(s))
		d["mana"] = fmt.Sprintf("%d/%d", s.Mana, MaxMana(s))
		d["stamina"] = fmt.Sprintf("%d/%d", s.Stamina, MaxStamina(s))
		d["strength"] = fmt.Sprint(s.Strength)
		d["dexterity"] = fmt.Sprint(s.Dexterity)
		d["vitality"] = fmt.Sprint(s.Vitality)
		d["aura"] = fmt.Sprint(s.Aura)
		d["domain"] = fmt.Sprint(s.Domain)
		d["detection"] = fmt.Sprint(DetectionRange(s))
	}
	return d
}
