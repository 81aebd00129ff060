package luafilter

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// newSandbox returns a state with only the base, table, string and math
// libraries, and a math.random driven by rng.
func newSandbox(rng *rand.Rand) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:        true,
		RegistrySize:        256,
		RegistryMaxSize:     4096,
		IncludeGoStackTrace: false,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib(lua.BaseLibName, lua.OpenBase)
	openLib(lua.TabLibName, lua.OpenTable)
	openLib(lua.StringLibName, lua.OpenString)
	openLib(lua.MathLibName, lua.OpenMath)
	// Base pulls in loaders that can reach the file system.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	installDeterministicRandom(L, rng)
	return L
}

func recordSeed(id int32) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.FormatInt(int64(id), 10)))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func installDeterministicRandom(L *lua.LState, rng *rand.Rand) {
	mathTbl, ok := L.GetGlobal("math").(*lua.LTable)
	if !ok || mathTbl == nil {
		return
	}
	mathTbl.RawSetString("random", L.NewFunction(func(L *lua.LState) int {
		switch L.GetTop() {
		case 0:
			L.Push(lua.LNumber(rng.Float64()))
			return 1
		case 1:
			max := L.CheckInt(1)
			if max < 1 {
				L.ArgError(1, "interval is empty")
				return 0
			}
			L.Push(lua.LNumber(rng.Intn(max) + 1))
			return 1
		default:
			min := L.CheckInt(1)
			max := L.CheckInt(2)
			if max < min {
				L.ArgError(2, "interval is empty")
				return 0
			}
			L.Push(lua.LNumber(rng.Intn(max-min+1) + min))
			return 1
		}
	}))
	mathTbl.RawSetString("randomseed", L.NewFunction(func(L *lua.LState) int {
		return 0
	}))
}

// wrapPredicate turns a bare expression into a chunk that returns it.
func wrapPredicate(code string) string {
	if strings.TrimSpace(code) == "" {
		return "return true"
	}
	if containsReturn(code) {
		return code
	}
	return "return (" + code + ")"
}

var returnKeyword = regexp.MustCompile(`\breturn\b`)

// containsReturn reports whether code uses return as a word, so names such as
// "returnee" still get wrapped.
func containsReturn(s string) bool {
	return returnKeyword.MatchString(s)
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadline") || strings.Contains(msg, "context canceled")
}
