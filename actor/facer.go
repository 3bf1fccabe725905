package actor

import (
	"math"

	"github.com/jakecoffman/cp"
)

// velocityEpsilon filters solver noise out of direction checks.
const velocityEpsilon = 1e-6

// Facer tracks which way an actor looks: +1 is right, -1 is left.
type Facer struct {
	body    Body
	facing  int
	flipped Notifier[Flipped]
}

func NewFacer(body Body, facing int) *Facer {
	return &Facer{body: body, facing: normalizeFacing(facing)}
}

func normalizeFacing(f int) int {
	if f < 0 {
		return -1
	}
	return 1
}

func (f *Facer) Facing() int {
	if f == nil {
		return 1
	}
	return f.facing
}

func (f *Facer) FacingLeft() bool {
	return f.Facing() < 0
}

// Flip inverts the facing and notifies subscribers.
func (f *Facer) Flip() {
	if f == nil {
		return
	}
	f.facing = -f.facing
	f.flipped.Emit(Flipped{Facing: f.facing})
}

// SetFacing turns to the given side, flipping only when it differs.
func (f *Facer) SetFacing(facing int) {
	if f == nil {
		return
	}
	if normalizeFacing(facing) != f.facing {
		f.Flip()
	}
}

// FaceObject turns toward target. A target straight above or below changes nothing.
func (f *Facer) FaceObject(target cp.Vector) {
	if f == nil || f.body == nil {
		return
	}
	dx := target.X - f.body.Position().X
	if dx == 0 {
		return
	}
	if (dx > 0) != (f.facing > 0) {
		f.Flip()
	}
}

// CheckFlip turns to match the current horizontal velocity.
func (f *Facer) CheckFlip() {
	if f == nil || f.body == nil {
		return
	}
	vx := f.body.Velocity().X
	if math.Abs(vx) < velocityEpsilon {
		return
	}
	if (vx > 0) != (f.facing > 0) {
		f.Flip()
	}
}

func (f *Facer) OnFlipped(fn func(Flipped)) func() {
	if f == nil {
		return func() {}
	}
	return f.flipped.Subscribe(fn)
}
