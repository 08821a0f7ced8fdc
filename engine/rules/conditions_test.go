package rules

import (
	"testing"

	"github.com/nathoo/olympos/types"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		raw  string
		want types.Condition
	}{
		{"else", types.Condition{Kind: types.CondElse}},
		{"  else ", types.Condition{Kind: types.CondElse}},
		{"hp < 50%", types.Condition{Kind: types.CondHealthPercent, Op: "<", Value: 50}},
		{"hp>=12.5%", types.Condition{Kind: types.CondHealthPercent, Op: ">=", Value: 12.5}},
		{"distance:player <= 3", types.Condition{Kind: types.CondDistance, Op: "<=", Value: 3, Key: "player"}},
		{"distance:species:slime != 1", types.Condition{Kind: types.CondDistance, Op: "!=", Value: 1, Key: "species:slime"}},
		{"sense player", types.Condition{Kind: types.CondSense, Key: "player"}},
		{"hp < 50", types.Condition{Kind: types.CondNever}},
		{"hp =< 50%", types.Condition{Kind: types.CondNever}},
		{"distance:player ~ 3", types.Condition{Kind: types.CondNever}},
		{"sense", types.Condition{Kind: types.CondNever}},
		{"always", types.Condition{Kind: types.CondNever}},
		{"", types.Condition{Kind: types.CondNever}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseCondition(tt.raw)
			tt.want.Raw = tt.raw
			if got != tt.want {
				t.Errorf("ParseCondition(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		op   types.CompareOp
		a, b float64
		want bool
	}{
		{"<", 1, 2, true},
		{"<", 2, 2, false},
		{">", 3, 2, true},
		{"<=", 2, 2, true},
		{">=", 1, 2, false},
		{"==", 2, 2, true},
		{"!=", 2, 2, false},
		{"=~", 2, 2, false},
	}
	for _, tt := range tests {
		if got := Compare(tt.op, tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v %s %v) = %v, want %v", tt.a, tt.op, tt.b, got, tt.want)
		}
	}
}
