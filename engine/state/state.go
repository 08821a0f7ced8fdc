// Package state is the spatial world index: the entity arena, the
// passability grid, the tick counter and the per-tick event log.
package state

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nathoo/olympos/engine/events"
	"github.com/nathoo/olympos/types"
)

// ErrOutOfBounds is returned when a caller asks for a location outside the
// map. It indicates a caller bug, not a game outcome.
var ErrOutOfBounds = errors.New("out of bounds")

// World owns every live entity. Entities are addressed by identity; the
// order slice keeps iteration stable.
type World struct {
	Height int
	Width  int

	order    []uint64
	byID     map[uint64]*Entity
	occupied map[types.Position][]uint64
	passable [][]bool

	tick  int
	log   events.Log
	marks map[types.Position]string
}

// NewWorld creates an empty world. Every tile starts passable.
func NewWorld(height, width int) *World {
	passable := make([][]bool, height)
	for y := range passable {
		passable[y] = make([]bool, width)
		for x := range passable[y] {
			passable[y][x] = true
		}
	}
	return &World{
		Height:   height,
		Width:    width,
		byID:     map[uint64]*Entity{},
		occupied: map[types.Position][]uint64{},
		passable: passable,
		marks:    map[types.Position]string{},
	}
}

// InBounds reports whether pos is on the map.
func (w *World) InBounds(pos types.Position) bool {
	return pos.Y >= 0 && pos.X >= 0 && pos.Y < w.Height && pos.X < w.Width
}

// Passable reports whether pos is on the map and not blocked.
func (w *World) Passable(pos types.Position) bool {
	if !w.InBounds(pos) {
		return false
	}
	return w.passable[pos.Y][pos.X]
}

// AddEntity creates and places a new entity.
func (w *World) AddEntity(y, x int, name string, traits []string) (*Entity, error) {
	e := NewEntity(types.Position{Y: y, X: x}, name, traits)
	if err := w.Place(e, e.Pos); err != nil {
		return nil, err
	}
	return e, nil
}

// Place puts an existing entity into the world at pos.
func (w *World) Place(e *Entity, pos types.Position) error {
	if !w.InBounds(pos) {
		return fmt.Errorf("cannot place %s at %d,%d: %w", e.Name, pos.Y, pos.X, ErrOutOfBounds)
	}
	if _, dup := w.byID[e.ID]; dup {
		return fmt.Errorf("entity %d is already placed", e.ID)
	}
	e.Pos = pos
	w.byID[e.ID] = e
	w.order = append(w.order, e.ID)
	w.occupied[pos] = append(w.occupied[pos], e.ID)
	w.refresh(pos)
	return nil
}

// Remove takes an entity out of the world and returns it.
func (w *World) Remove(id uint64) (*Entity, bool) {
	e, ok := w.byID[id]
	if !ok {
		return nil, false
	}
	delete(w.byID, id)
	w.order = removeID(w.order, id)
	w.leave(e.Pos, id)
	w.refresh(e.Pos)
	return e, true
}

// Move relocates an entity if the destination is passable. Both tiles are
// refreshed before Move returns.
func (w *World) Move(e *Entity, pos types.Position) bool {
	if !w.Passable(pos) {
		return false
	}
	if _, ok := w.byID[e.ID]; !ok {
		return false
	}
	old := e.Pos
	w.leave(old, e.ID)
	e.Pos = pos
	w.occupied[pos] = append(w.occupied[pos], e.ID)
	w.refresh(old)
	w.refresh(pos)
	return true
}

// Damage reduces the target's health. A target brought to zero health is
// removed in the same call; killed reports that. Entities without stats
// are unaffected.
func (w *World) Damage(id uint64, amount int) (killed bool) {
	e, ok := w.byID[id]
	if !ok || e.Stats == nil {
		return false
	}
	amount = max(0, amount)
	if amount >= e.Stats.Health {
		e.Stats.Health = 0
		w.Remove(id)
		return true
	}
	e.Stats.Health -= amount
	return false
}

// Entity returns the live entity with the given identity, or nil.
func (w *World) Entity(id uint64) *Entity {
	return w.byID[id]
}

// Entities returns the live entities in world order.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.byID[id])
	}
	return out
}

// Occupants returns the entities on a tile, in arrival order.
func (w *World) Occupants(pos types.Position) []*Entity {
	ids := w.occupied[pos]
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.byID[id])
	}
	return out
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.order)
}

// Tick returns the current tick number. The first tick is 1.
func (w *World) Tick() int {
	return w.tick
}

// Advance starts a new tick: it drops last tick's events and marks, bumps
// the counter, then regenerates every entity. Regeneration runs in parallel
// and has finished when Advance returns.
func (w *World) Advance() {
	w.log.Clear()
	clear(w.marks)
	w.tick++

	var g errgroup.Group
	tick := w.tick
	for _, id := range w.order {
		e := w.byID[id]
		if e.Stats == nil {
			continue
		}
		g.Go(func() error {
			Regenerate(e.Stats, tick)
			return nil
		})
	}
	_ = g.Wait()

	for _, id := range w.order {
		if e := w.byID[id]; e.IsPlayer() {
			w.log.Add(types.WorldEvent{
				Message: fmt.Sprintf("==========Tick %d========", tick),
				Pos:     e.Pos,
			})
			break
		}
	}
}

// LogEvent records a message at pos for the current tick.
func (w *World) LogEvent(msg string, pos types.Position) error {
	if !w.InBounds(pos) {
		return fmt.Errorf("cannot log event at %d,%d: %w", pos.Y, pos.X, ErrOutOfBounds)
	}
	w.log.Add(types.WorldEvent{Message: msg, Pos: pos})
	return nil
}

// Events returns every event of the current tick.
func (w *World) Events() []types.WorldEvent {
	return w.log.All()
}

// LocalEvents returns the messages within rng tiles of pos.
func (w *World) LocalEvents(pos types.Position, rng int) []string {
	return w.log.Local(pos, rng)
}

// LogInformation pushes a block onto the observer info log.
func (w *World) LogInformation(lines []string) {
	w.log.AddInfo(lines)
}

// Information returns the newest info blocks, newest first.
func (w *World) Information() [][]string {
	return w.log.Info()
}

// Mark tags a tile for display during the current tick. Out-of-bounds tiles
// are ignored.
func (w *World) Mark(pos types.Position, tag string) {
	if w.InBounds(pos) {
		w.marks[pos] = tag
	}
}

// Marks returns the tiles tagged this tick.
func (w *World) Marks() map[types.Position]string {
	out := make(map[types.Position]string, len(w.marks))
	for p, t := range w.marks {
		out[p] = t
	}
	return out
}

// BuildWalls surrounds the map with impassable walls.
func (w *World) BuildWalls() error {
	for x := 0; x < w.Width; x++ {
		for _, y := range []int{0, w.Height - 1} {
			if _, err := w.AddEntity(y, x, "Wall", []string{"wall", "impassable"}); err != nil {
				return err
			}
		}
	}
	for y := 1; y < w.Height-1; y++ {
		for _, x := range []int{0, w.Width - 1} {
			if _, err := w.AddEntity(y, x, "Wall", []string{"wall", "impassable"}); err != nil {
				return err
			}
		}
	}
	return nil
}

// RefreshTile recomputes passability at pos. Needed after an occupant's
// traits change.
func (w *World) RefreshTile(pos types.Position) {
	w.refresh(pos)
}

// refresh recomputes passability of a single tile from its occupants.
func (w *World) refresh(pos types.Position) {
	if !w.InBounds(pos) {
		return
	}
	passable := true
	for _, id := range w.occupied[pos] {
		if w.byID[id].Blocks() {
			passable = false
			break
		}
	}
	w.passable[pos.Y][pos.X] = passable
}

func (w *World) leave(pos types.Position, id uint64) {
	ids := removeID(w.occupied[pos], id)
	if len(ids) == 0 {
		delete(w.occupied, pos)
		return
	}
	w.occupied[pos] = ids
}

func removeID(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
