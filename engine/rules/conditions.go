// Package rules drives autonomous entities. Each behavior set is an
// ordered list of condition → commands rules; conditions are parsed once
// at load time and evaluated every tick.
package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nathoo/olympos/types"
)

var (
	hpPattern       = regexp.MustCompile(`^hp\s*(<=|>=|==|!=|<|>)\s*([0-9]+(?:\.[0-9]+)?)\s*%$`)
	distancePattern = regexp.MustCompile(`^distance:(\S+)\s*(<=|>=|==|!=|<|>)\s*([0-9]+)$`)
	sensePattern    = regexp.MustCompile(`^sense\s+(\S+)$`)
)

// ParseCondition parses a rule condition:
//
//	hp < 50%
//	distance:player <= 3
//	sense player
//	else
//
// Anything else parses to a condition that never holds.
func ParseCondition(raw string) types.Condition {
	text := strings.TrimSpace(raw)
	c := types.Condition{Kind: types.CondNever, Raw: raw}

	if text == "else" {
		c.Kind = types.CondElse
		return c
	}
	if m := hpPattern.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return c
		}
		c.Kind, c.Op, c.Value = types.CondHealthPercent, types.CompareOp(m[1]), v
		return c
	}
	if m := distancePattern.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return c
		}
		c.Kind, c.Key, c.Op, c.Value = types.CondDistance, m[1], types.CompareOp(m[2]), v
		return c
	}
	if m := sensePattern.FindStringSubmatch(text); m != nil {
		c.Kind, c.Key = types.CondSense, m[1]
		return c
	}
	return c
}

// Compare applies op to a and b. Unknown operators are false.
func Compare(op types.CompareOp, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	case "==":
		return a == b
	case "!=":
		return a != b
	default:
		return false
	}
}
