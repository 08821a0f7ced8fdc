// Package types defines the shared data structures for the olympos engine.
// This package contains only type definitions, no logic.
package types

// NoBehavior is the behavior-set reference for entities that never act on
// their own (the player, walls, items).
const NoBehavior = "none"

// Position is a grid location. Y grows downward, X grows to the right.
type Position struct {
	Y int
	X int
}

// Stats holds the numeric attributes of a living entity. Maxima are derived
// from the base attributes, see state.MaxHealth and friends.
type Stats struct {
	// Physical
	Strength  int `json:"strength"`
	Dexterity int `json:"dexterity"`
	Vitality  int `json:"vitality"`

	// Metaphysical
	Aura        int `json:"aura"`
	Domain      int `json:"domain"`
	ChannelRate int `json:"channel_rate"`

	// Current status
	Health  int `json:"health"`
	Mana    int `json:"mana"`
	Stamina int `json:"stamina"`

	SpeciesLevel int `json:"species_level"`
}

// AbilityType selects how an ability is turned into a handler.
type AbilityType string

const (
	AbilityMovement AbilityType = "movement"
	AbilityAttack   AbilityType = "attack"
	AbilityUtility  AbilityType = "utility"
)

// AbilityArea is the targeting shape of an ability.
type AbilityArea string

const (
	AreaSingle AbilityArea = "single"
	AreaLine   AbilityArea = "line"
	AreaCone   AbilityArea = "cone"
	AreaRadius AbilityArea = "radius"
)

// AbilityRange is the nominal range class of an ability.
type AbilityRange string

const (
	RangeClose  AbilityRange = "close"
	RangeMedium AbilityRange = "medium"
	RangeFar    AbilityRange = "far"
)

// Ability is a data-defined action. Effects keys are interpreted by the
// effects package ("damage", "distance", "area", "information", "equip",
// "minimize distance", "maximize distance", "maintain distance", and
// per-direction sub-maps such as "north").
type Ability struct {
	Name        string         `json:"-"`
	Type        AbilityType    `json:"type"`
	Area        AbilityArea    `json:"area"`
	Range       AbilityRange   `json:"range"`
	Stamina     int            `json:"stamina"`
	Arguments   []string       `json:"arguments"`
	DefaultArgs []string       `json:"default arguments"`
	Effects     map[string]any `json:"effects"`
	Prereqs     map[string]int `json:"prereqs"`
	Constraints []string       `json:"constraints"`
	Flavor      string         `json:"flavor"`
	FailFlavor  string         `json:"fail flavor"`
}

// AbilitySet is a named bundle of abilities.
type AbilitySet struct {
	Name        string
	Description string
	Abilities   map[string]Ability
	Order       []string // ability names, sorted
}

// ConditionKind tags the variant held by a Condition.
type ConditionKind int

const (
	CondNever ConditionKind = iota // unknown or malformed; never fires
	CondHealthPercent
	CondDistance
	CondSense
	CondElse
)

// CompareOp is one of < > <= >= == !=.
type CompareOp string

// Condition is a parsed behavior-rule condition.
type Condition struct {
	Kind  ConditionKind
	Op    CompareOp
	Value float64 // percent (0-100) for hp, tiles for distance
	Key   string  // trait or name for distance and sense
	Raw   string  // source text
}

// Rule is one condition followed by the commands to enqueue when it holds.
type Rule struct {
	When    Condition
	Actions []string
}

// BehaviorSet is a named ordered list of rules.
type BehaviorSet struct {
	Name        string
	Description string
	Rules       []Rule
}

// WorldEvent is a message anchored to a tile. Events live for one tick.
type WorldEvent struct {
	Message string
	Pos     Position
}

// SelectorKind tells how a command addresses its entity.
type SelectorKind int

const (
	ByID SelectorKind = iota
	ByName
	ByTraits
)

// Selector addresses the entity (or entities) a command is for.
type Selector struct {
	Kind   SelectorKind
	ID     uint64
	Name   string
	Traits []string
}

// Command is a queued action request.
type Command struct {
	Target Selector
	Action string
	Args   []string
}

// SlotDef declares an equipment slot. An item fits when it carries any of
// the Accepts traits.
type SlotDef struct {
	Name    string
	Accepts []string
}

// EntitySpec describes an entity to spawn. Stats, when present, are
// filled to their maxima on spawn.
type EntitySpec struct {
	Name     string
	Pos      Position
	Traits   []string
	Stats    *Stats
	Behavior string // behavior-set name; empty means NoBehavior
	Slots    []SlotDef
}

// Scenario is a starting map: its size, whether it is walled in, and the
// entities placed on it.
type Scenario struct {
	Name     string
	Height   int
	Width    int
	Walls    bool
	Entities []EntitySpec
}
