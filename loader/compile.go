package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/olympos/types"
)

// rawSpawn holds a Spawn table before compilation.
type rawSpawn struct {
	name  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an integer field and whether it was a number.
func getInt(tbl *lua.LTable, key string) (int, bool) {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n), true
	}
	return 0, false
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStrings converts an array table of strings. Non-strings are
// skipped.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compileScenario converts the collected tables to a Scenario.
func compileScenario(coll *collector, fallbackName string) (types.Scenario, error) {
	if coll.world == nil {
		return types.Scenario{}, fmt.Errorf("no World declared")
	}
	sc := types.Scenario{
		Name:  getString(coll.world, "name"),
		Walls: getBool(coll.world, "walls", false),
	}
	if sc.Name == "" {
		sc.Name = fallbackName
	}
	var ok bool
	if sc.Height, ok = getInt(coll.world, "height"); !ok {
		return types.Scenario{}, fmt.Errorf("World needs a numeric height")
	}
	if sc.Width, ok = getInt(coll.world, "width"); !ok {
		return types.Scenario{}, fmt.Errorf("World needs a numeric width")
	}

	for i, rs := range coll.spawns {
		spec, err := compileSpawn(rs)
		if err != nil {
			return types.Scenario{}, fmt.Errorf("spawn %d (%s): %w", i+1, rs.name, err)
		}
		sc.Entities = append(sc.Entities, spec)
	}
	return sc, nil
}

func compileSpawn(rs rawSpawn) (types.EntitySpec, error) {
	spec := types.EntitySpec{
		Name:     rs.name,
		Traits:   tableToStrings(getTable(rs.table, "traits")),
		Behavior: getString(rs.table, "behavior"),
	}
	y, okY := getInt(rs.table, "y")
	x, okX := getInt(rs.table, "x")
	if !okY || !okX {
		return spec, fmt.Errorf("missing y or x")
	}
	spec.Pos = types.Position{Y: y, X: x}

	if st := getTable(rs.table, "stats"); st != nil {
		stats, err := compileStats(st)
		if err != nil {
			return spec, err
		}
		spec.Stats = stats
	}

	if slots := getTable(rs.table, "slots"); slots != nil {
		for i := 1; i <= slots.MaxN(); i++ {
			st, ok := slots.RawGetInt(i).(*lua.LTable)
			if !ok {
				return spec, fmt.Errorf("slot %d is not a table", i)
			}
			name := getString(st, "name")
			if name == "" {
				return spec, fmt.Errorf("slot %d has no name", i)
			}
			spec.Slots = append(spec.Slots, types.SlotDef{
				Name:    name,
				Accepts: tableToStrings(getTable(st, "accepts")),
			})
		}
	}
	return spec, nil
}

// compileStats reads the base attributes. Current health, mana and stamina
// are filled on spawn and cannot be set here.
func compileStats(tbl *lua.LTable) (*types.Stats, error) {
	s := &types.Stats{}
	fields := map[string]*int{
		"strength":      &s.Strength,
		"dexterity":     &s.Dexterity,
		"vitality":      &s.Vitality,
		"aura":          &s.Aura,
		"domain":        &s.Domain,
		"channel_rate":  &s.ChannelRate,
		"species_level": &s.SpeciesLevel,
	}
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key := k.String()
		dst, ok := fields[key]
		if !ok {
			err = fmt.Errorf("unknown stat %q", key)
			return
		}
		n, ok := v.(lua.LNumber)
		if !ok {
			err = fmt.Errorf("stat %q is not a number", key)
			return
		}
		*dst = int(n)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
