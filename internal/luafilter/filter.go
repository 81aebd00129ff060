// Package luafilter runs a sandboxed Lua predicate against each customer
// record. The record is exposed as the global table `record`, keyed by CSV
// column name, and the chunk's first return value decides whether the record
// is kept. Only a literal true keeps it.
//
//	record.state == "TX" and record.customer_id > 1000
package luafilter

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/flarebyte/csv2bin/internal/record"
)

// ErrTimeout is returned when a predicate runs past its time limit.
var ErrTimeout = errors.New("lua sandbox timeout")

// Limits bounds each predicate call.
type Limits struct {
	// Timeout caps one call. Zero means no limit.
	Timeout time.Duration
}

// Filter is a compiled predicate. It is safe for concurrent use, though
// calls are serialized.
type Filter struct {
	mu      sync.Mutex
	state   *lua.LState
	fn      *lua.LFunction
	rng     *rand.Rand
	timeout time.Duration
}

// New compiles code. A bare expression is accepted and wrapped in a return.
func New(code string, lim Limits) (*Filter, error) {
	rng := rand.New(rand.NewSource(1))
	L := newSandbox(rng)
	fn, err := L.LoadString(wrapPredicate(code))
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("compile lua filter: %w", err)
	}
	return &Filter{state: L, fn: fn, rng: rng, timeout: lim.Timeout}, nil
}

// Load compiles the predicate stored in path.
func Load(path string, lim Limits) (*Filter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lua filter: %w", err)
	}
	return New(string(b), lim)
}

// Keep runs the predicate for c.
func (f *Filter) Keep(ctx context.Context, c record.Customer) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	f.state.SetContext(ctx)
	defer f.state.RemoveContext()

	f.rng.Seed(recordSeed(c.ID))
	f.state.SetGlobal("record", recordTable(f.state, c))

	top := f.state.GetTop()
	defer f.state.SetTop(top)
	f.state.Push(f.fn)
	if err := f.state.PCall(0, 1, nil); err != nil {
		if isTimeoutError(err) {
			return false, ErrTimeout
		}
		return false, fmt.Errorf("lua filter: %w", err)
	}
	return f.state.Get(-1) == lua.LTrue, nil
}

// Close releases the Lua state.
func (f *Filter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Close()
}

func recordTable(L *lua.LState, c record.Customer) *lua.LTable {
	t := L.CreateTable(0, record.FieldCount)
	for k, v := range c.Map() {
		switch x := v.(type) {
		case int64:
			t.RawSetString(k, lua.LNumber(x))
		case string:
			t.RawSetString(k, lua.LString(x))
		}
	}
	return t
}
