package ecs

import "github.com/milk9111/actorkit/ecs/component"

// Add attaches value to e, replacing any component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	if value == nil {
		return component.ErrNilComponent
	}
	s := storeFor(w, kind, true)
	if s == nil {
		return component.ErrInvalidComponentKind
	}
	s.set(e.id(), value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	s := storeFor(w, kind, false)
	if s == nil {
		return nil, false
	}
	return s.get(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s := storeFor(w, kind, false)
	return s != nil && s.remove(e.id())
}

// First returns the lowest-slot live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := storeFor(w, kind, false)
	if s == nil || s.size() == 0 {
		return 0, false
	}
	var best entityID
	for _, id := range s.dense {
		if best == 0 || id < best {
			best = id
		}
	}
	return w.entities.current(best)
}

// ForEach visits every entity carrying kind. Iteration works on a snapshot,
// so fn may add, remove or destroy freely.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	if s == nil || fn == nil {
		return
	}
	for _, id := range s.ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		if v, ok := s.get(id); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, sb := storeFor(w, ka, false), storeFor(w, kb, false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	for _, id := range smallest(sa, sb).ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := storeFor(w, ka, false), storeFor(w, kb, false), storeFor(w, kc, false)
	if sa == nil || sb == nil || sc == nil || fn == nil {
		return
	}
	for _, id := range smallest(sa, sb, sc).ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sa, sb, sc, sd := storeFor(w, ka, false), storeFor(w, kb, false), storeFor(w, kc, false), storeFor(w, kd, false)
	if sa == nil || sb == nil || sc == nil || sd == nil || fn == nil {
		return
	}
	for _, id := range smallest(sa, sb, sc, sd).ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		d, okD := sd.get(id)
		if okA && okB && okC && okD {
			fn(e, a, b, c, d)
		}
	}
}

func smallest(stores ...store) store {
	best := stores[0]
	for _, s := range stores[1:] {
		if s.size() < best.size() {
			best = s
		}
	}
	return best
}
