package actor

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/common"
	"github.com/milk9111/actorkit/physics"
)

type fakeBody struct {
	pos          cp.Vector
	vel          cp.Vector
	mass         float64
	gravityScale float64
	width        float64
	height       float64
}

func newFakeBody(x, bottom float64) *fakeBody {
	return &fakeBody{
		pos:          cp.Vector{X: x, Y: bottom + 0.5},
		mass:         1,
		gravityScale: 1,
		width:        1,
		height:       1,
	}
}

func (b *fakeBody) Position() cp.Vector           { return b.pos }
func (b *fakeBody) SetPosition(p cp.Vector)       { b.pos = p }
func (b *fakeBody) Velocity() cp.Vector           { return b.vel }
func (b *fakeBody) SetVelocity(v cp.Vector)       { b.vel = v }
func (b *fakeBody) Mass() float64                 { return b.mass }
func (b *fakeBody) GravityScale() float64         { return b.gravityScale }
func (b *fakeBody) SetGravityScale(scale float64) { b.gravityScale = scale }
func (b *fakeBody) Bounds() common.Rect {
	return common.Rect{X: b.pos.X - b.width/2, Y: b.pos.Y - b.height/2, Width: b.width, Height: b.height}
}

func (b *fakeBody) bottom() float64 { return b.pos.Y - b.height/2 }

// floor is a horizontal terrain surface at Y spanning [MinX, MaxX].
type floor struct {
	Y          float64
	MinX, MaxX float64
	casts      int
}

func flatFloor(y float64) *floor {
	return &floor{Y: y, MinX: math.Inf(-1), MaxX: math.Inf(1)}
}

func (f *floor) Raycast(origin, dir cp.Vector, length float64, mask physics.Layer) (physics.Hit, bool) {
	f.casts++
	if !mask.Has(physics.LayerTerrain) || dir.Y >= 0 {
		return physics.Hit{}, false
	}
	if origin.X < f.MinX || origin.X > f.MaxX {
		return physics.Hit{}, false
	}
	if origin.Y < f.Y || origin.Y-length > f.Y {
		return physics.Hit{}, false
	}
	return physics.Hit{
		Point:    cp.Vector{X: origin.X, Y: f.Y},
		Normal:   cp.Vector{X: 0, Y: 1},
		Distance: origin.Y - f.Y,
	}, true
}

// terrain is several floors probed together; the nearest hit wins.
type terrain []*floor

func (ts terrain) Raycast(origin, dir cp.Vector, length float64, mask physics.Layer) (physics.Hit, bool) {
	var best physics.Hit
	found := false
	for _, f := range ts {
		hit, ok := f.Raycast(origin, dir, length, mask)
		if ok && (!found || hit.Distance < best.Distance) {
			best, found = hit, true
		}
	}
	return best, found
}

type fakeGround struct {
	grounded, was bool
}

func (g *fakeGround) Grounded() bool    { return g.grounded }
func (g *fakeGround) WasGrounded() bool { return g.was }

type pointSource cp.Vector

func (p pointSource) Position() cp.Vector { return cp.Vector(p) }

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
