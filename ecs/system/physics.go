package system

import (
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/physics"
)

// PhysicsSystem steps the Chipmunk2D space and copies body state back into
// transforms.
type PhysicsSystem struct {
	world *physics.World
}

func NewPhysicsSystem(world *physics.World) *PhysicsSystem {
	return &PhysicsSystem{world: world}
}

func (s *PhysicsSystem) World() *physics.World {
	return s.world
}

func (s *PhysicsSystem) Update(w *ecs.World, dt float64) {
	if s == nil || s.world == nil {
		return
	}
	s.world.Step(dt)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		t.X, t.Y = pos.X, pos.Y
		if f, ok := ecs.Get(w, e, component.FacerComponent.Kind()); ok {
			t.Facing = f.Facing()
		}
	})
}

// RemoveEntity tears an entity down, taking its body out of the space and
// dropping actor subscriptions first.
func RemoveEntity(w *ecs.World, world *physics.World, e ecs.Entity) bool {
	if !ecs.IsAlive(w, e) {
		return false
	}
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && world != nil {
		world.RemoveBody(pb.Body)
	}
	if c, ok := ecs.Get(w, e, component.ControllerComponent.Kind()); ok {
		c.Close()
	}
	if d, ok := ecs.Get(w, e, component.DeathComponent.Kind()); ok {
		d.Detach()
	}
	return ecs.DestroyEntity(w, e)
}

// ActorAt resolves the actor owning a body, if any.
func ActorAt(w *ecs.World, b *physics.Body) (ecs.Entity, *actor.Actor, bool) {
	if b == nil {
		return 0, nil, false
	}
	e, ok := b.UserData.(ecs.Entity)
	if !ok {
		return 0, nil, false
	}
	a, ok := ecs.Get(w, e, component.ActorComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	return e, a, true
}
