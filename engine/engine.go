// Package engine provides the Tick() orchestrator that wires together
// regeneration, behavior rules, the command queue and ability handlers
// into a single simulation step.
package engine

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nathoo/olympos/engine/ability"
	"github.com/nathoo/olympos/engine/command"
	"github.com/nathoo/olympos/engine/rules"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// Engine holds the catalog, the world and the pending commands.
type Engine struct {
	Defs  *state.Defs
	World *state.World
	Queue *command.Queue
	RNG   *RNG
	RunID string

	// Scenario names the starting map, if the engine was built from one.
	Scenario string
	// EventRange is how far from the player Step and Advance report
	// events. Zero means DefaultEventRange.
	EventRange int

	binder   *ability.Binder
	log      *logrus.Entry
	lastSeen types.Position
}

// New creates an engine around an empty world. A nil logger discards
// diagnostics.
func New(defs *state.Defs, height, width int, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	runID := uuid.NewString()
	entry := log.WithField("run", runID)
	rng := NewLiveRNG()
	return &Engine{
		Defs:   defs,
		World:  state.NewWorld(height, width),
		Queue:  command.New(entry),
		RNG:    rng,
		RunID:  runID,
		binder: ability.NewBinder(defs, rng, entry),
		log:    entry,
	}
}

// NewFromScenario builds the scenario's world: walls first, then every
// entity in declaration order.
func NewFromScenario(defs *state.Defs, sc types.Scenario, log logrus.FieldLogger) (*Engine, error) {
	e := New(defs, sc.Height, sc.Width, log)
	e.Scenario = sc.Name
	if sc.Walls {
		if err := e.World.BuildWalls(); err != nil {
			return nil, fmt.Errorf("building walls: %w", err)
		}
	}
	for _, spec := range sc.Entities {
		if _, err := e.Spawn(spec); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	e.log.WithFields(logrus.Fields{
		"scenario": sc.Name,
		"height":   sc.Height,
		"width":    sc.Width,
		"entities": e.World.Len(),
	}).Info("world ready")
	return e, nil
}

// Spawn places a new entity, fills its stats and binds its abilities.
func (e *Engine) Spawn(spec types.EntitySpec) (*state.Entity, error) {
	ent, err := e.World.AddEntity(spec.Pos.Y, spec.Pos.X, spec.Name, spec.Traits)
	if err != nil {
		return nil, err
	}
	if spec.Stats != nil {
		s := *spec.Stats
		state.Fill(&s)
		ent.Stats = &s
	}
	if spec.Behavior != "" {
		ent.BehaviorSet = spec.Behavior
	}
	for _, sd := range spec.Slots {
		ent.Slots = append(ent.Slots, state.Slot{Name: sd.Name, Accepts: sd.Accepts})
	}
	e.binder.Bind(ent)
	return ent, nil
}

// AddTraits gives an entity new traits, refreshes its tile and binds any
// abilities the traits unlock. It returns the newly bound names.
func (e *Engine) AddTraits(id uint64, traits ...string) []string {
	ent := e.World.Entity(id)
	if ent == nil {
		return nil
	}
	ent.AddTraits(traits...)
	e.World.RefreshTile(ent.Pos)
	return e.binder.Bind(ent)
}

// Player returns the first player-controlled entity, or nil.
func (e *Engine) Player() *state.Entity {
	for _, ent := range e.World.Entities() {
		if ent.IsPlayer() {
			return ent
		}
	}
	return nil
}

// SubmitByID queues a split command for the entity with the given identity.
func (e *Engine) SubmitByID(id uint64, action string, args []string) {
	e.Queue.SubmitByID(id, action, args)
}

// SubmitByName queues a split command for the first entity matching name.
func (e *Engine) SubmitByName(name, action string, args []string) {
	e.Queue.SubmitByName(name, action, args)
}

// SubmitByTraits queues a split command for every entity with all traits.
func (e *Engine) SubmitByTraits(traits []string, action string, args []string) {
	e.Queue.SubmitByTraits(traits, action, args)
}

// EnqueueByID queues a command string ("3 east") by identity.
func (e *Engine) EnqueueByID(id uint64, cmd string) {
	e.Queue.EnqueueByID(id, cmd)
}

// EnqueueByName queues a command string by name.
func (e *Engine) EnqueueByName(name, cmd string) {
	e.Queue.EnqueueByName(name, cmd)
}

// EnqueueByTraits queues a command string by traits.
func (e *Engine) EnqueueByTraits(traits []string, cmd string) {
	e.Queue.EnqueueByTraits(traits, cmd)
}

// Tick advances the simulation by one step. Commands submitted before the
// call run before anything the behavior rules queue. The error is non-nil
// only when a handler asked for an out-of-bounds location.
func (e *Engine) Tick() error {
	// 1. New tick: clear events, regenerate (parallel, with a barrier).
	e.World.Advance()

	// 2. Autonomous entities queue their commands.
	evaluated := rules.EvaluateAll(e.Defs, e.World, e.Queue)
	pending := e.Queue.Len()

	// 3. Drain and run the queue.
	err := e.Queue.Execute(e.World)

	e.log.WithFields(logrus.Fields{
		"tick":      e.World.Tick(),
		"evaluated": evaluated,
		"commands":  pending,
		"entities":  e.World.Len(),
		"rng_draws": e.RNG.Position(),
	}).Debug("tick")
	if err != nil {
		return fmt.Errorf("tick %d: %w", e.World.Tick(), err)
	}
	return nil
}
