package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/olympos/engine/parser"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// DefaultEventRange is how far from the player events are reported when
// the engine was built without an explicit range.
const DefaultEventRange = 10

// Result is what the player sees after a step.
type Result struct {
	Tick   int
	Output []string
	Dead   bool
	Err    error
}

// Submit expands the player's input (abbreviations, direction letters) and
// queues it for the next tick. It returns a message for the player when
// the input cannot be queued.
func (e *Engine) Submit(input string) (string, bool) {
	p := e.Player()
	if p == nil {
		return "There is no one to control.", false
	}
	cmd := parser.Parse(input)
	if cmd.Action == "" {
		return "", false
	}
	action := parser.Expand(strings.ToLower(cmd.Action), Known(p))
	if _, ok := p.Handlers[action]; !ok {
		return fmt.Sprintf("You don't know how to %s.", cmd.Action), false
	}
	if cmd.Clamped {
		e.log.WithField("input", input).Warn("repeat count clamped")
	}
	for i := 0; i < cmd.Repeat; i++ {
		e.SubmitByID(p.ID, action, cmd.Args)
	}
	return "", true
}

// Step submits the input and, when it was accepted, runs one tick.
func (e *Engine) Step(input string) Result {
	if msg, ok := e.Submit(input); !ok {
		var out []string
		if msg != "" {
			out = []string{msg}
		}
		return Result{Tick: e.World.Tick(), Output: out}
	}
	return e.Advance()
}

// Advance runs one tick and collects the events near the player.
func (e *Engine) Advance() Result {
	p := e.Player()
	var (
		id  uint64
		pos = e.lastSeen
	)
	if p != nil {
		id, pos = p.ID, p.Pos
	}

	err := e.Tick()
	r := Result{Tick: e.World.Tick(), Err: err}
	if p != nil && e.World.Entity(id) == nil {
		r.Dead = true
	}
	if alive := e.World.Entity(id); alive != nil {
		pos = alive.Pos
	}
	e.lastSeen = pos

	rng := e.EventRange
	if rng <= 0 {
		rng = DefaultEventRange
	}
	r.Output = e.World.LocalEvents(pos, rng)
	if r.Dead {
		r.Output = append(r.Output, "You have died.")
	}
	return r
}

// Known returns the actions e can take, sorted.
func Known(e *state.Entity) []string {
	out := make([]string, 0, len(e.Handlers))
	for name := range e.Handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Map renders the world one character per tile. Tiles tagged this tick
// show the tag instead of the occupant.
func (e *Engine) Map() []string {
	w := e.World
	marks := w.Marks()
	rows := make([]string, w.Height)
	var b strings.Builder
	for y := 0; y < w.Height; y++ {
		b.Reset()
		for x := 0; x < w.Width; x++ {
			pos := types.Position{Y: y, X: x}
			switch marks[pos] {
			case "attack":
				b.WriteByte('*')
				continue
			case "area":
				if len(w.Occupants(pos)) == 0 {
					b.WriteByte('+')
					continue
				}
			}
			b.WriteRune(Glyph(w.Occupants(pos)))
		}
		rows[y] = b.String()
	}
	return rows
}

// Glyph picks the character for a tile from its occupants: the player over
// anything blocking, blocking over items, items over the floor.
func Glyph(occupants []*state.Entity) rune {
	best, rank := '.', 0
	for _, o := range occupants {
		g, r := glyphOf(o)
		if r >= rank {
			best, rank = g, r
		}
	}
	return best
}

func glyphOf(o *state.Entity) (rune, int) {
	switch {
	case o.IsPlayer():
		return '@', 4
	case o.HasTrait("wall"):
		return '#', 3
	case o.Blocks():
		return initial(o.Name, '#'), 3
	case o.HasTrait("item"):
		return '!', 1
	default:
		return initial(strings.ToLower(o.Name), '?'), 2
	}
}

func initial(name string, fallback rune) rune {
	for _, r := range name {
		return r
	}
	return fallback
}
