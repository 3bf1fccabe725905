package system

import (
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
)

// ControlSystem feeds sampled input to player controllers and then clears the
// per-step edges.
type ControlSystem struct{}

func NewControlSystem() *ControlSystem { return &ControlSystem{} }

func (s *ControlSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.ControllerComponent.Kind(), func(_ ecs.Entity, c *actor.Controller) {
		c.Tick(dt)
	})
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *actor.InputState) {
		in.EndTick()
	})
}
