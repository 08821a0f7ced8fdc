// Package parser splits command strings into an action and its arguments.
// Intentionally dumb: no NLP, just a repeat count and spaces.
package parser

import (
	"sort"
	"strconv"
	"strings"
)

// maxRepeat caps the repeat prefix.
const maxRepeat = 100

var directionExpansions = map[string]string{
	"n": "north",
	"s": "south",
	"e": "east",
	"w": "west",
}

// Parsed is one command string after splitting.
type Parsed struct {
	Repeat int
	Action string
	Args   []string
	// Clamped is set when the requested count exceeded maxRepeat.
	Clamped bool
}

// Parse splits "3 east" into a repeat count of 3 and the action "east".
// Without a numeric prefix the count is 1. Everything after the action is
// split on spaces into arguments. An empty input yields an empty action
// and a count of 0.
func Parse(input string) Parsed {
	words := strings.Fields(input)
	if len(words) == 0 {
		return Parsed{}
	}

	repeat, clamped := 1, false
	if len(words) > 1 && allDigits(words[0]) {
		n, err := strconv.Atoi(words[0])
		if err != nil || n > maxRepeat {
			n, clamped = maxRepeat, true
		}
		repeat = n
		words = words[1:]
	}

	p := Parsed{Repeat: repeat, Action: words[0], Clamped: clamped}
	if len(words) > 1 {
		p.Args = words[1:]
	}
	return p
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Expand resolves a typed action word against the actions an entity knows.
// An exact name wins, then a direction shortcut ("n"), then a prefix shared
// by exactly one known action. Anything else is returned unchanged.
func Expand(word string, known []string) string {
	word = strings.ToLower(word)
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	if set[word] {
		return word
	}
	if dir, ok := directionExpansions[word]; ok && set[dir] {
		return dir
	}
	if word == "" {
		return word
	}

	var matches []string
	for _, k := range known {
		if strings.HasPrefix(k, word) {
			matches = append(matches, k)
		}
	}
	if len(matches) == 1 {
		return matches[0]
	}
	return word
}

// Abbreviations lists every unambiguous prefix of the known actions,
// mapped to the full name. Prefixes that are themselves an action name or
// shared by two actions are left out.
func Abbreviations(known []string) map[string]string {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	out := map[string]string{}
	collisions := map[string]bool{}
	sorted := append([]string(nil), known...)
	sort.Strings(sorted)
	for _, k := range sorted {
		for n := 1; n < len(k); n++ {
			prefix := k[:n]
			if set[prefix] {
				continue
			}
			if prev, ok := out[prefix]; ok && prev != k {
				collisions[prefix] = true
				continue
			}
			out[prefix] = k
		}
	}
	for c := range collisions {
		delete(out, c)
	}
	return out
}
