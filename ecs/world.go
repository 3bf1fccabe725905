package ecs

import "github.com/milk9111/actorkit/ecs/component"

// World owns entities, their component stores and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue
}

func NewWorld() *World {
	return &World{stores: map[component.ComponentID]store{}}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and frees its slot. It reports
// false for handles that are already dead.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities lists every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if w.stores == nil {
		w.stores = map[component.ComponentID]store{}
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	s := newSparseSet[T]()
	w.stores[kind.ID()] = s
	return s
}
