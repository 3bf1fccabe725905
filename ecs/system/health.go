package system

import (
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
)

// HealthSystem runs invincibility timers.
type HealthSystem struct{}

func NewHealthSystem() *HealthSystem { return &HealthSystem{} }

func (s *HealthSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.HealthComponent.Kind(), func(_ ecs.Entity, h *actor.HealthManager) {
		h.Tick(dt)
	})
}
