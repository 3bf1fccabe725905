package component

import "github.com/milk9111/actorkit/actor"

// The actor parts are stored by pointer and shared with the owning
// actor.Actor, so a system working on one part sees the others' changes.
var (
	ActorComponent      = NewComponent[actor.Actor]()
	GrounderComponent   = NewComponent[actor.Grounder]()
	FacerComponent      = NewComponent[actor.Facer]()
	JumperComponent     = NewComponent[actor.Jumper]()
	RunnerComponent     = NewComponent[actor.Runner]()
	HealthComponent     = NewComponent[actor.HealthManager]()
	DeathComponent      = NewComponent[actor.DeathManager]()
	ControllerComponent = NewComponent[actor.Controller]()
	DamagerComponent    = NewComponent[actor.Damager]()
	InputComponent      = NewComponent[actor.InputState]()
)
