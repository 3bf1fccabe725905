// Package component declares the data attached to entities and the typed
// handles the ecs package stores it under.
package component

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID keys a component store inside a world. Zero is never issued.
type ComponentID uint32

var lastID atomic.Uint32

// ComponentKind names one store of T values. Two kinds of the same T are
// distinct stores.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{
		id:   ComponentID(lastID.Add(1)),
		name: reflect.TypeFor[T]().String(),
	}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

// Valid reports whether k came from NewComponentKind; the zero kind has no
// store.
func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// Name is the Go type stored under k, e.g. "actor.Jumper".
func (k ComponentKind[T]) Name() string { return k.name }

func (k ComponentKind[T]) String() string {
	if !k.Valid() {
		return "component(invalid)"
	}
	return fmt.Sprintf("component(%s#%d)", k.name, k.id)
}

// ComponentHandle is the package-level value each component file exports.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
