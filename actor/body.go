package actor

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/common"
	"github.com/milk9111/actorkit/physics"
)

// Body is the physical state an actor reads and writes. *physics.Body
// implements it.
type Body interface {
	Position() cp.Vector
	SetPosition(p cp.Vector)
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	Mass() float64
	GravityScale() float64
	SetGravityScale(scale float64)
	Bounds() common.Rect
}

// Raycaster answers downward ground probes. *physics.World implements it.
type Raycaster interface {
	Raycast(origin, dir cp.Vector, length float64, mask physics.Layer) (physics.Hit, bool)
}

// Source is anything that can cause damage. Only its position is visible to
// the receiver.
type Source interface {
	Position() cp.Vector
}

// Hurtable receives damage.
type Hurtable interface {
	Hurt(amount float64, source Source) bool
}

// GroundSensor exposes the cached ground state for the current and previous tick.
type GroundSensor interface {
	Grounded() bool
	WasGrounded() bool
}

var (
	_ Body      = (*physics.Body)(nil)
	_ Raycaster = (*physics.World)(nil)
)
