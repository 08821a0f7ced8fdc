package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// recorder gives entities handlers that log "<name>:<action> <args>".
type recorder struct {
	calls []string
}

func (r *recorder) bind(e *state.Entity, actions ...string) {
	for _, a := range actions {
		name, action := e.Name, a
		e.Handlers[a] = func(_ *state.World, args []string) error {
			r.calls = append(r.calls, fmt.Sprintf("%s:%s %v", name, action, args))
			return nil
		}
	}
}

func setup(t *testing.T) (*state.World, *recorder, map[string]*state.Entity) {
	t.Helper()
	w := state.NewWorld(10, 10)
	r := &recorder{}
	ents := map[string]*state.Entity{}
	for i, spec := range []struct {
		name   string
		traits []string
	}{
		{"Bob", []string{"player"}},
		{"Blue Slime", []string{"mob", "species:slime"}},
		{"Green Slime", []string{"mob", "species:slime"}},
		{"Bat", []string{"mob", "flying"}},
	} {
		e, err := w.AddEntity(1, i, spec.name, spec.traits)
		require.NoError(t, err)
		ents[spec.name] = e
	}
	r.bind(ents["Bob"], "east", "bite")
	r.bind(ents["Blue Slime"], "east")
	r.bind(ents["Green Slime"], "east", "bite")
	r.bind(ents["Bat"], "flutter")
	return w, r, ents
}

func TestEnqueue_RepeatCount(t *testing.T) {
	tests := []struct {
		cmd  string
		want int
	}{
		{"3 east", 3},
		{"east", 1},
		{"0 east", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			q := New(nil)
			q.EnqueueByID(1, tt.cmd)
			require.Equal(t, tt.want, q.Len())
			for _, c := range q.Pending() {
				assert.Equal(t, "east", c.Action)
				assert.Empty(t, c.Args)
			}
		})
	}
}

func TestEnqueue_ClampedRepeatWarns(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	q := New(log)
	q.EnqueueByID(1, "5000 east")

	assert.Equal(t, 100, q.Len())
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "repeat count clamped", entry.Message)
	assert.Equal(t, "5000 east", entry.Data["command"])

	hook.Reset()
	q.EnqueueByID(1, "3 east")
	assert.Empty(t, hook.AllEntries())
}

func TestExecute_IdentityOrder(t *testing.T) {
	w, r, ents := setup(t)
	q := New(nil)
	q.EnqueueByEntity(ents["Green Slime"], "bite north")
	q.EnqueueByID(ents["Bob"].ID, "2 east")

	require.NoError(t, q.Execute(w))
	assert.Equal(t, []string{
		"Green Slime:bite [north]",
		"Bob:east []",
		"Bob:east []",
	}, r.calls)
	assert.Zero(t, q.Len())
}

func TestExecute_NameAndTraitsAfterIdentity(t *testing.T) {
	w, r, ents := setup(t)
	q := New(nil)
	q.EnqueueByTraits([]string{"species:slime"}, "east")
	q.EnqueueByName("green", "bite")
	q.SubmitByID(ents["Bat"].ID, "flutter", nil)

	require.NoError(t, q.Execute(w))
	assert.Equal(t, []string{
		"Bat:flutter []",
		"Green Slime:bite []",
		"Blue Slime:east []",
		"Green Slime:east []",
	}, r.calls)
}

func TestExecute_NameGoesToFirstMatchOnly(t *testing.T) {
	w, r, _ := setup(t)
	q := New(nil)
	// Blue Slime is the first "slime" and cannot bite; Green Slime is not
	// tried in its place.
	q.SubmitByName("slime", "bite", nil)
	q.SubmitByName("slime", "east", nil)

	require.NoError(t, q.Execute(w))
	assert.Equal(t, []string{"Blue Slime:east []"}, r.calls)
}

func TestExecute_DropsMisses(t *testing.T) {
	w, r, ents := setup(t)
	q := New(nil)
	q.SubmitByName("dragon", "east", nil)
	q.SubmitByTraits([]string{"undead"}, "east", nil)
	q.SubmitByID(ents["Bat"].ID, "east", nil)
	q.SubmitByID(9999999, "east", nil)

	require.NoError(t, q.Execute(w))
	assert.Empty(t, r.calls)
	assert.Zero(t, q.Len())
}

func TestExecute_DeadEntityDropped(t *testing.T) {
	w, r, ents := setup(t)
	killer := ents["Bob"]
	victim := ents["Blue Slime"]
	killer.Handlers["smite"] = func(w *state.World, _ []string) error {
		w.Remove(victim.ID)
		return nil
	}
	q := New(nil)
	q.SubmitByID(killer.ID, "smite", nil)
	q.SubmitByID(victim.ID, "east", nil)

	require.NoError(t, q.Execute(w))
	assert.Empty(t, r.calls)
}

func TestExecute_ClearsEveryChannel(t *testing.T) {
	w, r, ents := setup(t)
	q := New(nil)
	q.EnqueueByName("Bob", "east")
	q.EnqueueByTraits([]string{"mob"}, "flutter")
	q.EnqueueByEntity(ents["Bob"], "bite")

	require.NoError(t, q.Execute(w))
	require.Len(t, r.calls, 3)
	require.NoError(t, q.Execute(w))
	assert.Len(t, r.calls, 3, "nothing carries over")
}

func TestExecute_JoinsOutOfBounds(t *testing.T) {
	w, _, ents := setup(t)
	ents["Bob"].Handlers["shout"] = func(w *state.World, _ []string) error {
		return w.LogEvent("HEY", types.Position{Y: -1, X: 0})
	}
	q := New(nil)
	q.SubmitByID(ents["Bob"].ID, "shout", nil)
	q.SubmitByID(ents["Bob"].ID, "shout", nil)

	err := q.Execute(w)
	require.Error(t, err)
	assert.True(t, errors.Is(err, state.ErrOutOfBounds))
}

func TestPending(t *testing.T) {
	q := New(nil)
	q.EnqueueByTraits([]string{"mob"}, "east")
	q.EnqueueByName("Bob", "bite slime")
	q.EnqueueByID(7, "west")

	p := q.Pending()
	require.Len(t, p, 3)
	assert.Equal(t, types.ByID, p[0].Target.Kind)
	assert.Equal(t, types.ByName, p[1].Target.Kind)
	assert.Equal(t, []string{"slime"}, p[1].Args)
	assert.Equal(t, types.ByTraits, p[2].Target.Kind)
}
