package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/swarmsim/server/internal/vmath"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that drives the agent.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
// Missing directories are skipped, so a run without scripts simply keeps the agent still.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	for _, sub := range []string{"core", "agent"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("vec_dist", vm.NewFunction(luaVecDist))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua chunk: %w", err)
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// AgentContext is what agent_step sees each tick.
type AgentContext struct {
	Position vmath.Vec3
	DT       float64 // seconds
	Tick     uint64
	Respawns int
}

// HasAgentStep reports whether a script defined agent_step.
func (e *Engine) HasAgentStep() bool {
	return e.vm.GetGlobal("agent_step") != lua.LNil
}

// AgentStep calls agent_step(ctx) and returns the position it asked for. ok is false when the
// function is missing, fails, or returns nothing usable; the caller then leaves the agent put.
func (e *Engine) AgentStep(ctx AgentContext) (vmath.Vec3, bool) {
	fn := e.vm.GetGlobal("agent_step")
	if fn == lua.LNil {
		return vmath.Vec3{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.Position.X))
	t.RawSetString("y", lua.LNumber(ctx.Position.Y))
	t.RawSetString("z", lua.LNumber(ctx.Position.Z))
	t.RawSetString("dt", lua.LNumber(ctx.DT))
	t.RawSetString("tick", lua.LNumber(ctx.Tick))
	t.RawSetString("respawns", lua.LNumber(ctx.Respawns))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua agent_step error", zap.Error(err))
		return vmath.Vec3{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		if result != lua.LNil {
			e.log.Warn("lua agent_step returned non-table", zap.String("type", result.Type().String()))
		}
		return vmath.Vec3{}, false
	}
	return vmath.Vec3{
		X: float32(lua.LVAsNumber(rt.RawGetString("x"))),
		Y: float32(lua.LVAsNumber(rt.RawGetString("y"))),
		Z: float32(lua.LVAsNumber(rt.RawGetString("z"))),
	}, true
}

// luaVecDist(x1, y1, z1, x2, y2, z2) -> distance
func luaVecDist(L *lua.LState) int {
	dx := float64(L.CheckNumber(1) - L.CheckNumber(4))
	dy := float64(L.CheckNumber(2) - L.CheckNumber(5))
	dz := float64(L.CheckNumber(3) - L.CheckNumber(6))
	L.Push(lua.LNumber(math.Sqrt(dx*dx + dy*dy + dz*dz)))
	return 1
}
