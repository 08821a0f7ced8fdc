// Package resolve finds live entities by name, trait, range and identity.
// Names are matched as case-insensitive regular expressions searched
// anywhere in the entity name, so "slime" finds "Blue Slime".
package resolve

import (
	"regexp"

	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// Unbounded disables the range check.
const Unbounded = -1

// Query narrows a search. Zero values mean "anywhere, nobody excluded".
type Query struct {
	From    types.Position
	Range   int    // Manhattan; Unbounded for no limit
	Exclude uint64 // entity to skip, usually the searcher
}

// Anywhere is a query without range limit.
var Anywhere = Query{Range: Unbounded}

// Distance is the Manhattan distance between two tiles.
func Distance(a, b types.Position) int {
	return abs(a.Y-b.Y) + abs(a.X-b.X)
}

func (q Query) admits(e *state.Entity) bool {
	if q.Exclude != 0 && e.ID == q.Exclude {
		return false
	}
	return q.Range < 0 || Distance(q.From, e.Pos) <= q.Range
}

// namePattern compiles a name for searching. Names that are not valid
// expressions are matched literally.
func namePattern(name string) *regexp.Regexp {
	re, err := regexp.Compile("(?i)" + name)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(name))
	}
	return re
}

// ByName returns the first entity, in world order, whose name matches.
func ByName(w *state.World, name string, q Query) *state.Entity {
	if name == "" {
		return nil
	}
	re := namePattern(name)
	for _, e := range w.Entities() {
		if q.admits(e) && re.MatchString(e.Name) {
			return e
		}
	}
	return nil
}

// AllByName returns every entity whose name matches, in world order.
func AllByName(w *state.World, name string, q Query) []*state.Entity {
	if name == "" {
		return nil
	}
	re := namePattern(name)
	var found []*state.Entity
	for _, e := range w.Entities() {
		if q.admits(e) && re.MatchString(e.Name) {
			found = append(found, e)
		}
	}
	return found
}

// ByTraits returns the first entity carrying every trait.
func ByTraits(w *state.World, traits []string, q Query) *state.Entity {
	if len(traits) == 0 {
		return nil
	}
	for _, e := range w.Entities() {
		if q.admits(e) && e.HasAllTraits(traits) {
			return e
		}
	}
	return nil
}

// AllByTraits returns every entity carrying every trait.
func AllByTraits(w *state.World, traits []string, q Query) []*state.Entity {
	var found []*state.Entity
	for _, e := range w.Entities() {
		if q.admits(e) && e.HasAllTraits(traits) {
			found = append(found, e)
		}
	}
	return found
}

// NameThenTrait treats key as a name first and falls back to a trait.
func NameThenTrait(w *state.World, key string, q Query) *state.Entity {
	if e := ByName(w, key, q); e != nil {
		return e
	}
	return ByTraits(w, []string{key}, q)
}

// TraitThenName treats key as a trait first and falls back to a name.
func TraitThenName(w *state.World, key string, q Query) *state.Entity {
	if e := ByTraits(w, []string{key}, q); e != nil {
		return e
	}
	return ByName(w, key, q)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
