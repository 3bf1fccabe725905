package system

import (
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/physics"
)

// ContactSystem resolves overlaps after the physics step: damagers hurt the
// actors they touch and save spots fire when the player walks in.
type ContactSystem struct {
	world *physics.World
}

func NewContactSystem(world *physics.World) *ContactSystem {
	return &ContactSystem{world: world}
}

func (s *ContactSystem) Update(w *ecs.World, _ float64) {
	if s == nil || s.world == nil {
		return
	}

	ecs.ForEach2(w, component.DamagerComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, d *actor.Damager, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		if death, ok := ecs.Get(w, e, component.DeathComponent.Kind()); ok && death.IsDead() {
			return
		}
		for _, other := range s.world.Overlaps(pb.Body.BB(), physics.LayerActor) {
			target, a, ok := ActorAt(w, other)
			if !ok || target == e {
				continue
			}
			d.Contact(a)
		}
	})

	ecs.ForEach2(w, component.SaveSpotComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, spot *component.SaveSpot, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		var player ecs.Entity
		inside := false
		for _, other := range s.world.Overlaps(pb.Body.BB(), physics.LayerActor) {
			target, a, ok := ActorAt(w, other)
			if !ok || !ecs.Has(w, target, component.PlayerTagComponent.Kind()) || a.Death.IsDead() {
				continue
			}
			player, inside = target, true
			break
		}
		if inside && !spot.Occupied {
			if a, ok := ecs.Get(w, player, component.ActorComponent.Kind()); ok {
				a.Health.FullHeal()
			}
			w.Events().Push(ecs.Event{Type: EventSave, Data: SaveRequest{Player: player, Spot: e}})
		}
		spot.Occupied = inside
	})
}
