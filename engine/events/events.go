// Package events implements the per-tick world event log and the
// observer-facing information log. Events do not outlive the tick that
// produced them.
package events

import "github.com/nathoo/olympos/types"

// infoDepth is how many information blocks the info log keeps.
const infoDepth = 2

// Log holds the events of the current tick in the order they were logged.
type Log struct {
	events []types.WorldEvent
	info   [][]string
}

// Add appends an event. Bounds are checked by the caller (state.World).
func (l *Log) Add(ev types.WorldEvent) {
	l.events = append(l.events, ev)
}

// All returns every event of the current tick.
func (l *Log) All() []types.WorldEvent {
	out := make([]types.WorldEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Local returns the messages anchored within Manhattan distance rng of pos.
func Local(evts []types.WorldEvent, pos types.Position, rng int) []string {
	var local []string
	for _, ev := range evts {
		if abs(ev.Pos.Y-pos.Y)+abs(ev.Pos.X-pos.X) <= rng {
			local = append(local, ev.Message)
		}
	}
	return local
}

// Local returns the current tick's messages within range of pos.
func (l *Log) Local(pos types.Position, rng int) []string {
	return Local(l.events, pos, rng)
}

// Clear drops all events. Called at the start of every tick.
func (l *Log) Clear() {
	l.events = l.events[:0]
}

// AddInfo pushes an information block. Only the newest blocks are kept,
// newest first.
func (l *Log) AddInfo(lines []string) {
	l.info = append([][]string{lines}, l.info...)
	if len(l.info) > infoDepth {
		l.info = l.info[:infoDepth]
	}
}

// Info returns the kept information blocks, newest first.
func (l *Log) Info() [][]string {
	out := make([][]string, len(l.info))
	copy(out, l.info)
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
