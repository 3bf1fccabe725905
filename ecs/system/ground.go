package system

import (
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
)

// GroundSystem samples every grounder once per step, before anything reads
// the result.
type GroundSystem struct{}

func NewGroundSystem() *GroundSystem { return &GroundSystem{} }

func (s *GroundSystem) Update(w *ecs.World, _ float64) {
	ecs.ForEach(w, component.GrounderComponent.Kind(), func(_ ecs.Entity, g *actor.Grounder) {
		g.Tick()
	})
}
