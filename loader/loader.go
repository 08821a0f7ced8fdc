// Package loader reads the ability and behavior catalogs (JSON) and the
// starting scenario (a sandboxed Lua script). Everything is compiled into
// plain Go values; no Lua survives past LoadScenario.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/olympos/engine/rules"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// rawAbilitySet mirrors one entry of abilities.json.
type rawAbilitySet struct {
	Description string                   `json:"description"`
	Abilities   map[string]types.Ability `json:"abilities"`
}

// rawBehaviorSet mirrors one entry of behaviors.json. Each rule is a
// condition followed by the commands to queue.
type rawBehaviorSet struct {
	Description string     `json:"description"`
	Rules       [][]string `json:"rules"`
}

// LoadDefs reads both catalogs from disk, checks them against their
// schemas, compiles them and validates cross references. Warnings are
// logged; errors are returned.
func LoadDefs(abilitiesPath, behaviorsPath string, log logrus.FieldLogger) (*state.Defs, error) {
	abilities, err := os.ReadFile(abilitiesPath)
	if err != nil {
		return nil, fmt.Errorf("reading abilities %s: %w", abilitiesPath, err)
	}
	behaviors, err := os.ReadFile(behaviorsPath)
	if err != nil {
		return nil, fmt.Errorf("reading behaviors %s: %w", behaviorsPath, err)
	}
	defs, err := ParseDefs(abilities, behaviors, log)
	if err != nil {
		return nil, err
	}
	orDiscard(log).WithFields(logrus.Fields{
		"ability_sets":  len(defs.AbilitySets),
		"behavior_sets": len(defs.Behaviors),
	}).Info("definitions loaded")
	return defs, nil
}

// ParseDefs is LoadDefs on in-memory documents.
func ParseDefs(abilities, behaviors []byte, log logrus.FieldLogger) (*state.Defs, error) {
	if err := checkSchema(abilitiesValidator, "abilities", abilities); err != nil {
		return nil, err
	}
	if err := checkSchema(behaviorsValidator, "behaviors", behaviors); err != nil {
		return nil, err
	}

	var rawSets map[string]rawAbilitySet
	if err := json.Unmarshal(abilities, &rawSets); err != nil {
		return nil, fmt.Errorf("decoding abilities: %w", err)
	}
	var rawBehaviors map[string]rawBehaviorSet
	if err := json.Unmarshal(behaviors, &rawBehaviors); err != nil {
		return nil, fmt.Errorf("decoding behaviors: %w", err)
	}

	defs := &state.Defs{
		AbilitySets: compileAbilitySets(rawSets),
		Behaviors:   compileBehaviors(rawBehaviors),
	}
	if err := validateDefs(defs, log); err != nil {
		return nil, err
	}
	return defs, nil
}

// compileAbilitySets sorts sets by name and names every ability after its
// key.
func compileAbilitySets(raw map[string]rawAbilitySet) []types.AbilitySet {
	sets := make([]types.AbilitySet, 0, len(raw))
	for name, rs := range raw {
		set := types.AbilitySet{
			Name:        name,
			Description: rs.Description,
			Abilities:   make(map[string]types.Ability, len(rs.Abilities)),
		}
		for aname, a := range rs.Abilities {
			a.Name = aname
			set.Abilities[aname] = a
			set.Order = append(set.Order, aname)
		}
		sort.Strings(set.Order)
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets
}

// compileBehaviors parses every rule condition once, up front.
func compileBehaviors(raw map[string]rawBehaviorSet) map[string]types.BehaviorSet {
	out := make(map[string]types.BehaviorSet, len(raw))
	for name, rb := range raw {
		set := types.BehaviorSet{Name: name, Description: rb.Description}
		for _, r := range rb.Rules {
			set.Rules = append(set.Rules, types.Rule{
				When:    rules.ParseCondition(r[0]),
				Actions: append([]string(nil), r[1:]...),
			})
		}
		out[name] = set
	}
	return out
}
