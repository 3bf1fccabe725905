package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/ecs/system"
	"github.com/milk9111/actorkit/physics"
	"github.com/milk9111/actorkit/prefabs"
)

var (
	ErrNoPhysics = errors.New("build entity: physics world is nil")
	errNoBody    = errors.New("requires physics_body")
	errNoActor   = errors.New("requires actor")
)

// Options places a prefab instance. Position is the bottom centre of the
// entity's body.
type Options struct {
	Position cp.Vector
	// Facing overrides the prefab's facing when non-zero.
	Facing int
	// Params are merged over the prefab's script params.
	Params map[string]any
}

type buildContext struct {
	PrefabPath string
	Physics    *physics.World
	Options    Options
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"physics_body": addPhysicsBody,
	"actor":        addActor,
	"controller":   addController,
	"player":       addPlayerTag,
	"damager":      addDamager,
	"script":       addScript,
	"death":        addDeath,
	"save_spot":    addSaveSpot,
	"ttl":          addTTL,
	"render":       addRender,
}

// Later entries depend on earlier ones.
var componentBuildOrder = []string{
	"physics_body",
	"actor",
	"controller",
	"player",
	"damager",
	"script",
	"death",
	"save_spot",
	"ttl",
	"render",
}

func BuildEntity(w *ecs.World, pw *physics.World, prefabPath string, opts Options) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if pw == nil {
		return 0, ErrNoPhysics
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool { return buildRank(names[i]) < buildRank(names[j]) })

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Physics: pw, Options: opts}
	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			system.RemoveEntity(w, pw, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	prefabName := spec.Name
	if prefabName == "" {
		prefabName = prefabPath
	}
	_ = ecs.Add(w, e, component.PrefabComponent.Kind(), &component.Prefab{Name: prefabName})
	system.AttachDeathEffects(w, e)
	return e, nil
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec := prefabs.PhysicsBodyComponentSpec{Width: 1, Height: 1, Mass: 1, Layer: physics.LayerActor}
	if err := prefabs.DecodeComponentSpecInto(raw, &spec); err != nil {
		return err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("invalid size %vx%v", spec.Width, spec.Height)
	}
	cfg := physics.BodyConfig{
		Position: ctx.Options.Position.Add(cp.Vector{Y: spec.Height / 2}),
		Width:    spec.Width,
		Height:   spec.Height,
		Mass:     spec.Mass,
		Friction: spec.Friction,
		Layer:    spec.Layer,
		Sensor:   spec.Sensor,
		UserData: e,
	}
	body := ctx.Physics.AddBody(cfg)
	if body == nil {
		return fmt.Errorf("physics rejected body")
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body, Config: cfg}); err != nil {
		ctx.Physics.RemoveBody(body)
		return err
	}
	pos := body.Position()
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y, Facing: 1})
}

func addActor(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return errNoBody
	}
	cfg := actor.DefaultConfig()
	if err := prefabs.DecodeComponentSpecInto(raw, &cfg); err != nil {
		return err
	}
	if ctx.Options.Facing != 0 {
		cfg.Facing = ctx.Options.Facing
	}
	a := actor.New(pb.Body, ctx.Physics, cfg)

	adds := []error{
		ecs.Add(w, e, component.ActorComponent.Kind(), a),
		ecs.Add(w, e, component.GrounderComponent.Kind(), a.Grounder),
		ecs.Add(w, e, component.FacerComponent.Kind(), a.Facer),
		ecs.Add(w, e, component.JumperComponent.Kind(), a.Jumper),
		ecs.Add(w, e, component.RunnerComponent.Kind(), a.Runner),
		ecs.Add(w, e, component.HealthComponent.Kind(), a.Health),
		ecs.Add(w, e, component.DeathComponent.Kind(), a.Death),
	}
	return errors.Join(adds...)
}

func addController(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	a, ok := ecs.Get(w, e, component.ActorComponent.Kind())
	if !ok {
		return errNoActor
	}
	cfg := actor.DefaultControllerConfig()
	if err := prefabs.DecodeComponentSpecInto(raw, &cfg); err != nil {
		return err
	}
	in := &actor.InputState{}
	c := actor.NewController(a, in, cfg)
	if err := ecs.Add(w, e, component.ControllerComponent.Kind(), c); err != nil {
		c.Close()
		return err
	}
	return ecs.Add(w, e, component.InputComponent.Kind(), in)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addDamager(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return errNoBody
	}
	spec := prefabs.DamagerComponentSpec{Amount: 1}
	if err := prefabs.DecodeComponentSpecInto(raw, &spec); err != nil {
		return err
	}
	d := actor.NewDamager(pb.Body, spec.Amount)
	if a, ok := ecs.Get(w, e, component.ActorComponent.Kind()); ok {
		d.SetOwner(a)
	}
	return ecs.Add(w, e, component.DamagerComponent.Kind(), d)
}

func addScript(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ScriptComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Path == "" {
		return fmt.Errorf("script path is empty")
	}
	params := make(map[string]any, len(spec.Params)+len(ctx.Options.Params))
	for k, v := range spec.Params {
		params[k] = v
	}
	for k, v := range ctx.Options.Params {
		params[k] = v
	}
	return ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: spec.Path, Params: params})
}

func addDeath(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DeathComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.DeathEffectsComponent.Kind(), &component.DeathEffects{Corpse: spec.Corpse, Remove: spec.Remove})
}

func addSaveSpot(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.SaveSpotComponent.Kind(), &component.SaveSpot{})
}

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TTLComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Seconds <= 0 {
		return fmt.Errorf("ttl must be positive, got %v", spec.Seconds)
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: spec.Seconds})
}

func addRender(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderComponentSpec](raw)
	if err != nil {
		return err
	}
	r := &component.Render{Layer: spec.Layer}
	if spec.Color != nil {
		r.Color = spec.Color.Color
	}
	return ecs.Add(w, e, component.RenderComponent.Kind(), r)
}
