package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/physics"
	"github.com/milk9111/actorkit/prefabs"
)

const scriptDispatch = `
if __phase == "update" {
	update(__engine, __state)
}
`

// ScriptLoader returns the source of a behaviour script.
type ScriptLoader func(path string) ([]byte, error)

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
	// failed marks a script that could not load; it waits for Invalidate.
	failed bool
	// lastErr is the last runtime error logged, so a script failing the same
	// way every step logs once.
	lastErr string
}

// ScriptSystem drives non-player actors from tengo scripts. Each script
// defines update(engine, state); state persists between steps.
type ScriptSystem struct {
	world *physics.World
	load  ScriptLoader
	cache map[ecs.Entity]*scriptRuntime
}

func NewScriptSystem(world *physics.World) *ScriptSystem {
	return &ScriptSystem{world: world, load: prefabs.LoadScript, cache: map[ecs.Entity]*scriptRuntime{}}
}

// SetLoader swaps the script source, mostly for tests.
func (s *ScriptSystem) SetLoader(load ScriptLoader) {
	s.load = load
	s.Invalidate("")
}

// Invalidate drops compiled scripts for path, or all of them when path is
// empty, so the next step recompiles from source.
func (s *ScriptSystem) Invalidate(path string) {
	for e, rt := range s.cache {
		if path == "" || rt.path == path || strings.HasSuffix(path, rt.path) {
			delete(s.cache, e)
		}
	}
}

func (s *ScriptSystem) Update(w *ecs.World, dt float64) {
	for e := range s.cache {
		if !ecs.IsAlive(w, e) {
			delete(s.cache, e)
		}
	}

	ecs.ForEach2(w, component.ScriptComponent.Kind(), component.ActorComponent.Kind(), func(e ecs.Entity, sc *component.Script, a *actor.Actor) {
		if a.Death.IsDead() {
			return
		}
		rt, err := s.runtime(e, sc.Path)
		if err != nil {
			log.Printf("script: entity=%s load %s: %v", e, sc.Path, err)
			return
		}
		if rt.failed {
			return
		}
		engine := s.engine(w, e, a, sc, dt)
		if err := rt.run("update", engine); err != nil {
			if msg := err.Error(); msg != rt.lastErr {
				log.Printf("script: entity=%s update: %v", e, err)
				rt.lastErr = msg
			}
			return
		}
		rt.lastErr = ""
	})
}

func (s *ScriptSystem) runtime(e ecs.Entity, path string) (*scriptRuntime, error) {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt, nil
	}
	if s.load == nil {
		return nil, fmt.Errorf("no script loader")
	}
	// A script that fails to load stays failed until it is invalidated.
	failed := &scriptRuntime{path: path, failed: true}
	src, err := s.load(path)
	if err != nil {
		s.cache[e] = failed
		return nil, err
	}

	script := tengo.NewScript(append(src, []byte("\n"+scriptDispatch)...))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		s.cache[e] = failed
		return nil, err
	}
	rt := &scriptRuntime{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.cache[e] = rt
	return rt, nil
}

func (rt *scriptRuntime) run(phase string, engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (s *ScriptSystem) engine(w *ecs.World, e ecs.Entity, a *actor.Actor, sc *component.Script, dt float64) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"dt": &tengo.Float{Value: dt},
	}
	fn := func(name string, f func(args ...tengo.Object) (tengo.Object, error)) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("run", func(args ...tengo.Object) (tengo.Object, error) {
		a.Runner.Run(floatArg(args, 0, 0))
		return tengo.UndefinedValue, nil
	})
	fn("stop", func(args ...tengo.Object) (tengo.Object, error) {
		a.Runner.StopRun()
		return tengo.UndefinedValue, nil
	})
	fn("run_to", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		a.Runner.RunTo(floatArg(args, 0, 0))
		return tengo.TrueValue, nil
	})
	fn("jump", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(a.Jumper.Jump()), nil
	})
	fn("jump_to", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		target := cp.Vector{X: floatArg(args, 0, 0), Y: floatArg(args, 1, 0)}
		a.Jumper.JumpTo(target, floatArg(args, 2, 0), floatArg(args, 3, 0))
		return tengo.TrueValue, nil
	})
	fn("face", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		a.Facer.FaceObject(cp.Vector{X: floatArg(args, 0, 0)})
		return tengo.UndefinedValue, nil
	})
	fn("flip", func(args ...tengo.Object) (tengo.Object, error) {
		a.Facer.Flip()
		return tengo.UndefinedValue, nil
	})
	fn("facing", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(a.Facer.Facing())}, nil
	})
	fn("grounded", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(a.Grounder.Grounded()), nil
	})
	fn("auto_running", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(a.Runner.AutoRunning()), nil
	})
	fn("health", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: a.Health.CurrentHealth()}, nil
	})
	fn("get_position", func(args ...tengo.Object) (tengo.Object, error) {
		return vectorObject(a.Position()), nil
	})
	fn("get_velocity", func(args ...tengo.Object) (tengo.Object, error) {
		return vectorObject(a.Body.Velocity()), nil
	})
	fn("get_player_position", func(args ...tengo.Object) (tengo.Object, error) {
		player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
		if !ok {
			return tengo.UndefinedValue, nil
		}
		pa, ok := ecs.Get(w, player, component.ActorComponent.Kind())
		if !ok || pa.Death.IsDead() {
			return tengo.UndefinedValue, nil
		}
		return vectorObject(pa.Position()), nil
	})
	fn("wall_ahead", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(s.wallAhead(a, floatArg(args, 0, 0.5))), nil
	})
	fn("ground_ahead", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(s.groundAhead(a, floatArg(args, 0, 0.5))), nil
	})
	fn("param", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		name, _ := tengo.ToString(args[0])
		if v, ok := sc.Params[name]; ok {
			if obj, err := tengo.FromInterface(v); err == nil {
				return obj, nil
			}
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return tengo.UndefinedValue, nil
	})
	fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			str, _ := tengo.ToString(arg)
			parts = append(parts, str)
		}
		log.Printf("script: entity=%s %s", e, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

// wallAhead casts from the body's centre along its facing.
func (s *ScriptSystem) wallAhead(a *actor.Actor, distance float64) bool {
	if s.world == nil || a.Body == nil {
		return false
	}
	b := a.Body.Bounds()
	dir := float64(a.Facer.Facing())
	origin := cp.Vector{X: b.CenterX(), Y: b.CenterY()}
	_, hit := s.world.Raycast(origin, cp.Vector{X: dir}, b.Width/2+distance, physics.LayerTerrain)
	return hit
}

// groundAhead casts down from a point distance past the leading edge.
func (s *ScriptSystem) groundAhead(a *actor.Actor, distance float64) bool {
	if s.world == nil || a.Body == nil {
		return false
	}
	b := a.Body.Bounds()
	dir := float64(a.Facer.Facing())
	origin := cp.Vector{X: b.CenterX() + dir*(b.Width/2+distance), Y: b.Bottom() + 0.1}
	_, hit := s.world.Raycast(origin, cp.Vector{Y: -1}, 0.5, physics.LayerTerrain)
	return hit
}

func floatArg(args []tengo.Object, i int, def float64) float64 {
	if i >= len(args) {
		return def
	}
	if v, ok := tengo.ToFloat64(args[i]); ok {
		return v
	}
	return def
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func vectorObject(v cp.Vector) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}
}
