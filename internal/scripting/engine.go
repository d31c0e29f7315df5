package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/entity"
)

// Clock is the frame timing scripts can read through delta_time() and frame().
type Clock interface {
	Frame() uint64
	Delta() time.Duration
}

// Engine wraps a single gopher-lua VM and implements entity.Hooks.
// Single-goroutine access only (simulation loop).
//
// A namespace is a table of hook functions. Each script file is one
// namespace named after the file (player.lua → "player") and must return its
// table; failing that, a global table of the same name is used.
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	clock   Clock
	modules map[string]*lua.LTable
}

var _ entity.Hooks = (*Engine)(nil)

// NewEngine creates a Lua engine and loads every script under scriptsDir.
// A missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, modules: make(map[string]*lua.LTable)}
	e.registerActorType()
	e.registerGlobals()
	return e
}

// SetClock binds the clock behind delta_time() and frame().
func (e *Engine) SetClock(c Clock) { e.clock = c }

// loadDir loads all .lua files in a directory tree, in lexical order.
func (e *Engine) loadDir(dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".lua" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(paths)

	for _, path := range paths {
		fn, err := e.vm.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		ns := strings.TrimSuffix(filepath.Base(path), ".lua")
		if err := e.register(ns, fn); err != nil {
			return fmt.Errorf("run %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path), zap.String("namespace", ns))
	}
	return nil
}

// LoadString compiles src and registers its returned table as namespace ns.
func (e *Engine) LoadString(ns, src string) error {
	fn, err := e.vm.LoadString(src)
	if err != nil {
		return fmt.Errorf("load %s: %w", ns, err)
	}
	return e.register(ns, fn)
}

func (e *Engine) register(ns string, chunk *lua.LFunction) error {
	if err := e.vm.CallByParam(lua.P{
		Fn:      chunk,
		NRet:    1,
		Protect: true,
	}); err != nil {
		return err
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if t, ok := result.(*lua.LTable); ok {
		if _, dup := e.modules[ns]; dup {
			e.log.Warn("lua namespace redefined", zap.String("namespace", ns))
		}
		e.modules[ns] = t
	}
	return nil
}

// Namespaces returns the names of every loaded script module.
func (e *Engine) Namespaces() []string {
	out := make([]string, 0, len(e.modules))
	for ns := range e.modules {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) table(ns string) *lua.LTable {
	if t, ok := e.modules[ns]; ok {
		return t
	}
	t, _ := e.vm.GetGlobal(ns).(*lua.LTable)
	return t
}

func (e *Engine) function(ns, hook string) *lua.LFunction {
	t := e.table(ns)
	if t == nil {
		return nil
	}
	fn, _ := t.RawGetString(hook).(*lua.LFunction)
	return fn
}

// Has implements entity.Hooks.
func (e *Engine) Has(ns, hook string) bool {
	return e.function(ns, hook) != nil
}

// Call implements entity.Hooks. The hook receives (self, other), either of
// which may be nil. Only an explicit false counts as a rejection.
func (e *Engine) Call(ns, hook string, self, other *entity.Actor) (bool, error) {
	fn := e.function(ns, hook)
	if fn == nil {
		return true, nil
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, e.actorValue(self), e.actorValue(other)); err != nil {
		return true, fmt.Errorf("%s.%s: %w", ns, hook, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result != lua.LFalse, nil
}

// DoString runs a chunk in the global environment.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
