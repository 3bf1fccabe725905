package system

import (
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/physics"
)

// TTLSystem counts TTL components down and removes entities that run out.
type TTLSystem struct {
	world *physics.World
}

func NewTTLSystem(world *physics.World) *TTLSystem {
	return &TTLSystem{world: world}
}

func (s *TTLSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Seconds -= dt
		if ttl.Seconds <= 0 {
			RemoveEntity(w, s.world, e)
		}
	})
}
