package system

import (
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
)

// LocomotionSystem picks each jumper's gravity for the coming step and
// advances auto-runs.
type LocomotionSystem struct{}

func NewLocomotionSystem() *LocomotionSystem { return &LocomotionSystem{} }

func (s *LocomotionSystem) Update(w *ecs.World, _ float64) {
	ecs.ForEach(w, component.JumperComponent.Kind(), func(_ ecs.Entity, j *actor.Jumper) {
		j.Tick()
	})
	ecs.ForEach(w, component.RunnerComponent.Kind(), func(_ ecs.Entity, r *actor.Runner) {
		r.Tick()
	})
}
