package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// collector accumulates Lua definitions during script execution.
type collector struct {
	world  *lua.LTable
	spawns []rawSpawn
}

// LoadScenario runs a scenario script in a sandboxed VM and compiles what
// it declared. defs is used to check behavior references and may be nil.
// The VM is discarded before returning.
func LoadScenario(path string, defs *state.Defs, log logrus.FieldLogger) (types.Scenario, error) {
	return runScenario(func(L *lua.LState) error { return L.DoFile(path) },
		strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), defs, log)
}

// ParseScenario is LoadScenario on an in-memory script.
func ParseScenario(name, src string, defs *state.Defs, log logrus.FieldLogger) (types.Scenario, error) {
	return runScenario(func(L *lua.LState) error { return L.DoString(src) }, name, defs, log)
}

func runScenario(exec func(*lua.LState) error, name string, defs *state.Defs, log logrus.FieldLogger) (types.Scenario, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	if err := exec(L); err != nil {
		return types.Scenario{}, fmt.Errorf("executing scenario %s: %w", name, err)
	}

	sc, err := compileScenario(coll, name)
	if err != nil {
		return types.Scenario{}, fmt.Errorf("compiling scenario %s: %w", name, err)
	}
	if err := validateScenario(sc, defs, log); err != nil {
		return types.Scenario{}, err
	}

	orDiscard(log).WithFields(logrus.Fields{
		"scenario": sc.Name,
		"height":   sc.Height,
		"width":    sc.Width,
		"spawns":   len(sc.Entities),
	}).Info("scenario loaded")
	return sc, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the script.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring", "require",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// A scenario always lays out the same map.
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("random", lua.LNil)
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
}
