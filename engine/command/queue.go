// Package command collects pending actions and runs them once per tick.
//
// Commands arrive on three channels: by identity, by name and by traits.
// Callers holding a live entity enqueue by identity (EnqueueByEntity), so
// no command ever carries a reference across a tick boundary. Name and
// trait commands are resolved when the queue is drained.
package command

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/olympos/engine/parser"
	"github.com/nathoo/olympos/engine/resolve"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// Queue holds the commands of the coming tick.
type Queue struct {
	ids    []types.Command
	names  []types.Command
	traits []types.Command

	log logrus.FieldLogger
}

// New creates an empty queue. A nil logger discards diagnostics.
func New(log logrus.FieldLogger) *Queue {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Queue{log: log}
}

// EnqueueByID parses cmd ("3 east", "bite north") and queues it for the
// entity with the given identity.
func (q *Queue) EnqueueByID(id uint64, cmd string) {
	q.add(&q.ids, types.Selector{Kind: types.ByID, ID: id}, cmd)
}

// EnqueueByEntity queues cmd for e, addressed by identity.
func (q *Queue) EnqueueByEntity(e *state.Entity, cmd string) {
	q.EnqueueByID(e.ID, cmd)
}

// EnqueueByName queues cmd for the first entity whose name matches.
func (q *Queue) EnqueueByName(name, cmd string) {
	q.add(&q.names, types.Selector{Kind: types.ByName, Name: name}, cmd)
}

// EnqueueByTraits queues cmd for every entity carrying all traits.
func (q *Queue) EnqueueByTraits(traits []string, cmd string) {
	q.add(&q.traits, types.Selector{Kind: types.ByTraits, Traits: traits}, cmd)
}

// SubmitByID queues an already split command by identity.
func (q *Queue) SubmitByID(id uint64, action string, args []string) {
	q.ids = append(q.ids, types.Command{
		Target: types.Selector{Kind: types.ByID, ID: id}, Action: action, Args: args,
	})
}

// SubmitByName queues an already split command by name.
func (q *Queue) SubmitByName(name, action string, args []string) {
	q.names = append(q.names, types.Command{
		Target: types.Selector{Kind: types.ByName, Name: name}, Action: action, Args: args,
	})
}

// SubmitByTraits queues an already split command by traits.
func (q *Queue) SubmitByTraits(traits []string, action string, args []string) {
	q.traits = append(q.traits, types.Command{
		Target: types.Selector{Kind: types.ByTraits, Traits: traits}, Action: action, Args: args,
	})
}

func (q *Queue) add(ch *[]types.Command, sel types.Selector, cmd string) {
	p := parser.Parse(cmd)
	if p.Action == "" {
		return
	}
	if p.Clamped {
		q.log.WithFields(logrus.Fields{
			"command": cmd,
			"repeat":  p.Repeat,
		}).Warn("repeat count clamped")
	}
	for i := 0; i < p.Repeat; i++ {
		*ch = append(*ch, types.Command{Target: sel, Action: p.Action, Args: p.Args})
	}
}

// Len returns the number of pending commands across all channels.
func (q *Queue) Len() int {
	return len(q.ids) + len(q.names) + len(q.traits)
}

// Pending returns the queued commands: identity, then name, then traits.
func (q *Queue) Pending() []types.Command {
	out := make([]types.Command, 0, q.Len())
	out = append(out, q.ids...)
	out = append(out, q.names...)
	return append(out, q.traits...)
}

// Execute drains the queue against w.
//
// Step 1. Name commands resolve to the first matching entity and are
// dropped when it lacks the action; trait commands go to every matching
// entity that has it. Both are
// appended, in their original order, after the identity commands.
// Step 2. Every identity command runs in order. Commands whose entity is
// gone or lacks the action are dropped.
// Step 3. All channels are cleared.
//
// The returned error joins the out-of-bounds errors raised by handlers.
func (q *Queue) Execute(w *state.World) error {
	// Step 1.
	run := q.ids
	for _, c := range q.names {
		e := resolve.ByName(w, c.Target.Name, resolve.Anywhere)
		if e == nil {
			continue
		}
		if _, ok := e.Handlers[c.Action]; ok {
			run = append(run, byID(e.ID, c))
		}
	}
	for _, c := range q.traits {
		for _, e := range resolve.AllByTraits(w, c.Target.Traits, resolve.Anywhere) {
			if _, ok := e.Handlers[c.Action]; ok {
				run = append(run, byID(e.ID, c))
			}
		}
	}

	// Step 3. Cleared before running; handlers may enqueue for the next tick.
	q.ids, q.names, q.traits = nil, nil, nil

	// Step 2.
	var errs []error
	dropped := 0
	for _, c := range run {
		e := w.Entity(c.Target.ID)
		if e == nil {
			dropped++
			continue
		}
		h, ok := e.Handlers[c.Action]
		if !ok {
			dropped++
			continue
		}
		if err := h(w, c.Args); err != nil {
			errs = append(errs, err)
		}
	}

	q.log.WithFields(logrus.Fields{
		"tick":     w.Tick(),
		"executed": len(run) - dropped,
		"dropped":  dropped,
	}).Debug("queue drained")
	return errors.Join(errs...)
}

func byID(id uint64, c types.Command) types.Command {
	return types.Command{
		Target: types.Selector{Kind: types.ByID, ID: id},
		Action: c.Action,
		Args:   c.Args,
	}
}
