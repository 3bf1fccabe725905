package actor

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestFacerFlip(t *testing.T) {
	for _, start := range []int{1, -1, 0, 7, -3} {
		f := NewFacer(newFakeBody(0, 0), start)
		orig := f.Facing()
		if orig != 1 && orig != -1 {
			t.Fatalf("facing must be +1 or -1, got %d", orig)
		}
		f.Flip()
		if f.Facing() != -orig {
			t.Fatalf("flip: expected %d, got %d", -orig, f.Facing())
		}
		f.Flip()
		if f.Facing() != orig {
			t.Fatalf("two flips should restore %d, got %d", orig, f.Facing())
		}
	}
}

func TestFacerFaceObject(t *testing.T) {
	cases := []struct {
		name    string
		facing  int
		targetX float64
		want    int
		flips   int
	}{
		{"target_behind", 1, -3, -1, 1},
		{"target_ahead", 1, 3, 1, 0},
		{"target_behind_left", -1, 3, 1, 1},
		{"target_above", -1, 0, -1, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := NewFacer(newFakeBody(0, 0), c.facing)
			flips := 0
			f.OnFlipped(func(Flipped) { flips++ })
			f.FaceObject(cp.Vector{X: c.targetX, Y: 4})
			if f.Facing() != c.want || flips != c.flips {
				t.Fatalf("facing=%d flips=%d, want %d and %d", f.Facing(), flips, c.want, c.flips)
			}
		})
	}
}

func TestFacerCheckFlip(t *testing.T) {
	body := newFakeBody(0, 0)
	f := NewFacer(body, 1)

	body.vel = cp.Vector{X: -2}
	f.CheckFlip()
	if !f.FacingLeft() {
		t.Fatalf("moving left should face left")
	}

	body.vel = cp.Vector{}
	f.CheckFlip()
	if !f.FacingLeft() {
		t.Fatalf("standing still keeps facing")
	}
}
