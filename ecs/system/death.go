package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/physics"
)

// SpawnFunc builds a prefab at pos facing the given way.
type SpawnFunc func(w *ecs.World, prefab string, pos cp.Vector, facing int) (ecs.Entity, error)

// DeathSystem carries out the deferred side effects of deaths that happened
// earlier in the step.
type DeathSystem struct {
	world *physics.World
	spawn SpawnFunc
}

func NewDeathSystem(world *physics.World, spawn SpawnFunc) *DeathSystem {
	return &DeathSystem{world: world, spawn: spawn}
}

func (s *DeathSystem) Update(w *ecs.World, _ float64) {
	q := w.Events()
	for _, evt := range q.DrainType(EventCorpse) {
		req, ok := evt.Data.(CorpseRequest)
		if !ok || s.spawn == nil {
			continue
		}
		e, err := s.spawn(w, req.Prefab, req.Corpse.Position, req.Corpse.Facing)
		if err != nil {
			log.Printf("death: spawn corpse %q: %v", req.Prefab, err)
			continue
		}
		_ = ecs.Add(w, e, component.CorpseTagComponent.Kind(), &component.CorpseTag{})
	}
	for _, evt := range q.DrainType(EventRemove) {
		if e, ok := evt.Data.(ecs.Entity); ok {
			RemoveEntity(w, s.world, e)
		}
	}
}

// AttachDeathEffects routes an entity's death through the world queue so
// corpses and removal happen in DeathSystem rather than mid-contact.
func AttachDeathEffects(w *ecs.World, e ecs.Entity) {
	death, ok := ecs.Get(w, e, component.DeathComponent.Kind())
	if !ok {
		return
	}
	var fx component.DeathEffects
	if cfg, ok := ecs.Get(w, e, component.DeathEffectsComponent.Kind()); ok {
		fx = *cfg
	}

	death.OnDied(func(evt actor.Died) {
		w.Events().Push(ecs.Event{Type: EventDied, Data: DiedEvent{Entity: e, Died: evt}})
	})
	if fx.Corpse != "" {
		prefab := fx.Corpse
		death.SetCorpseSpawner(func(c actor.Corpse) {
			w.Events().Push(ecs.Event{Type: EventCorpse, Data: CorpseRequest{Prefab: prefab, Corpse: c}})
		})
	}
	if fx.Remove {
		death.SetRemover(func() {
			w.Events().Push(ecs.Event{Type: EventRemove, Data: e})
		})
	}
}
