package system

import (
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/ecs"
)

// Event types pushed onto the world queue.
const (
	EventCorpse = "corpse"
	EventRemove = "remove"
	EventDied   = "died"
	EventSave   = "save"
)

// CorpseRequest asks the death system to spawn a corpse prefab.
type CorpseRequest struct {
	Prefab string
	Corpse actor.Corpse
}

// DiedEvent reports an entity's death to whoever drives the simulation.
type DiedEvent struct {
	Entity ecs.Entity
	Died   actor.Died
}

// SaveRequest is pushed when the player steps onto a save spot.
type SaveRequest struct {
	Player ecs.Entity
	Spot   ecs.Entity
}
