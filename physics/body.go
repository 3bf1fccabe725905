package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/common"
)

// BodyConfig describes a box collider added to a World.
type BodyConfig struct {
	Position cp.Vector
	Width    float64
	Height   float64
	Mass     float64
	Friction float64
	Layer    Layer
	// Sensor bodies are kinematic, never collide and only show up in
	// overlap queries.
	Sensor   bool
	UserData any
}

// Body is a single-shape Chipmunk body with its own gravity scale.
type Body struct {
	world        *World
	body         *cp.Body
	shape        *cp.Shape
	width        float64
	height       float64
	mass         float64
	gravityScale float64
	layer        Layer
	sensor       bool

	UserData any
}

func newBody(w *World, cfg BodyConfig) *Body {
	b := &Body{
		world:        w,
		width:        cfg.Width,
		height:       cfg.Height,
		mass:         cfg.Mass,
		gravityScale: 1,
		layer:        cfg.Layer,
		sensor:       cfg.Sensor,
		UserData:     cfg.UserData,
	}
	if b.width <= 0 {
		b.width = 1
	}
	if b.height <= 0 {
		b.height = 1
	}
	if b.mass <= 0 {
		b.mass = 1
	}
	if b.layer == 0 {
		b.layer = LayerActor
	}

	if cfg.Sensor {
		b.body = cp.NewKinematicBody()
	} else {
		// Infinite moment keeps actors upright.
		b.body = cp.NewBody(b.mass, math.Inf(1))
		b.body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, gravity.Mult(b.gravityScale*b.mass), damping, dt)
		})
	}
	b.body.SetPosition(cfg.Position)

	b.shape = cp.NewBox(b.body, b.width, b.height, 0)
	b.shape.SetFriction(cfg.Friction)
	b.shape.SetSensor(cfg.Sensor)
	b.shape.SetCollisionType(collisionTypeFor(b.layer))
	b.shape.SetFilter(filterFor(b.layer))
	return b
}

// Position returns the body's centre.
func (b *Body) Position() cp.Vector {
	if b == nil || b.body == nil {
		return cp.Vector{}
	}
	return b.body.Position()
}

func (b *Body) SetPosition(p cp.Vector) {
	if b == nil || b.body == nil {
		return
	}
	// Shape bounds are refreshed on the next Step.
	b.body.SetPosition(p)
}

func (b *Body) Velocity() cp.Vector {
	if b == nil || b.body == nil {
		return cp.Vector{}
	}
	return b.body.Velocity()
}

func (b *Body) SetVelocity(v cp.Vector) {
	if b == nil || b.body == nil {
		return
	}
	b.body.SetVelocityVector(v)
}

func (b *Body) Mass() float64 {
	if b == nil {
		return 0
	}
	return b.mass
}

func (b *Body) GravityScale() float64 {
	if b == nil {
		return 0
	}
	return b.gravityScale
}

// SetGravityScale changes how strongly world gravity pulls this body.
// 0 suspends gravity.
func (b *Body) SetGravityScale(scale float64) {
	if b == nil {
		return
	}
	b.gravityScale = scale
}

// Bounds returns the collider box.
func (b *Body) Bounds() common.Rect {
	if b == nil {
		return common.Rect{}
	}
	p := b.Position()
	return common.Rect{X: p.X - b.width/2, Y: p.Y - b.height/2, Width: b.width, Height: b.height}
}

// BB returns the collider box in Chipmunk form.
func (b *Body) BB() cp.BB {
	r := b.Bounds()
	return cp.BB{L: r.Left(), B: r.Bottom(), R: r.Right(), T: r.Top()}
}

func (b *Body) Layer() Layer {
	if b == nil {
		return 0
	}
	return b.layer
}

func (b *Body) Sensor() bool {
	return b != nil && b.sensor
}

func (b *Body) Width() float64 {
	if b == nil {
		return 0
	}
	return b.width
}

func (b *Body) Height() float64 {
	if b == nil {
		return 0
	}
	return b.height
}

// Shape exposes the Chipmunk shape for debug drawing.
func (b *Body) Shape() *cp.Shape {
	if b == nil {
		return nil
	}
	return b.shape
}
