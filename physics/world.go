package physics

import (
	"log"

	"github.com/jakecoffman/cp"
)

const (
	collisionTypeTerrain cp.CollisionType = iota + 1
	collisionTypeActor
	collisionTypeHazard
	collisionTypeTrigger
)

const terrainFriction = 0.8

// Hit is the result of a successful Raycast.
type Hit struct {
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
	// Body is nil for terrain.
	Body *Body
}

// World owns the Chipmunk space, terrain shapes and actor bodies.
type World struct {
	space   *cp.Space
	gravity cp.Vector
	bodies  map[*cp.Shape]*Body
	terrain []*cp.Shape
}

// NewWorld creates an empty space with the given gravity.
func NewWorld(gravity cp.Vector) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)
	return &World{
		space:   space,
		gravity: gravity,
		bodies:  make(map[*cp.Shape]*Body),
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Gravity() cp.Vector {
	if w == nil {
		return cp.Vector{}
	}
	return w.gravity
}

// AddTerrain adds a solid static box.
func (w *World) AddTerrain(bb cp.BB) *cp.Shape {
	if w == nil || w.space == nil || bb.R <= bb.L || bb.T <= bb.B {
		return nil
	}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	w.addTerrainShape(shape)
	return shape
}

// AddBounds closes the rectangle bb with static segments so nothing can leave it.
func (w *World) AddBounds(bb cp.BB) {
	if w == nil || w.space == nil {
		return
	}
	thickness := 0.1
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: bb.L, Y: bb.B}, b: cp.Vector{X: bb.R, Y: bb.B}},
		{a: cp.Vector{X: bb.L, Y: bb.T}, b: cp.Vector{X: bb.R, Y: bb.T}},
		{a: cp.Vector{X: bb.L, Y: bb.B}, b: cp.Vector{X: bb.L, Y: bb.T}},
		{a: cp.Vector{X: bb.R, Y: bb.B}, b: cp.Vector{X: bb.R, Y: bb.T}},
	}
	for _, seg := range segments {
		w.addTerrainShape(cp.NewSegment(w.space.StaticBody, seg.a, seg.b, thickness))
	}
}

func (w *World) addTerrainShape(shape *cp.Shape) {
	shape.SetFriction(terrainFriction)
	shape.SetCollisionType(collisionTypeTerrain)
	shape.SetFilter(filterFor(LayerTerrain))
	w.space.AddShape(shape)
	w.terrain = append(w.terrain, shape)
}

// AddTerrainTiles merges solid cells of a row-major tile grid into as few
// boxes as it can and adds them as terrain. Row 0 is the top row; the grid's
// bottom-left corner sits at origin. It returns the number of boxes added.
func (w *World) AddTerrainTiles(tiles []int, width, height int, tileSize float64, origin cp.Vector) int {
	if w == nil || width <= 0 || height <= 0 || len(tiles) != width*height || tileSize <= 0 {
		return 0
	}
	solid := func(idx int) bool { return tiles[idx] != 0 }

	added := 0
	processed := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if processed[idx] {
				continue
			}
			if !solid(idx) {
				processed[idx] = true
				continue
			}

			cols := 1
			for x+cols < width {
				idx2 := y*width + (x + cols)
				if processed[idx2] || !solid(idx2) {
					break
				}
				cols++
			}

			rows := 1
		heightLoop:
			for y+rows < height {
				for xi := x; xi < x+cols; xi++ {
					idx2 := (y+rows)*width + xi
					if processed[idx2] || !solid(idx2) {
						break heightLoop
					}
				}
				rows++
			}

			// Flip rows so the world is y-up.
			left := origin.X + float64(x)*tileSize
			top := origin.Y + float64(height-y)*tileSize
			bb := cp.BB{L: left, B: top - float64(rows)*tileSize, R: left + float64(cols)*tileSize, T: top}
			if w.AddTerrain(bb) != nil {
				added++
			}

			for yy := y; yy < y+rows; yy++ {
				for xx := x; xx < x+cols; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}
	log.Printf("physics: merged %d tiles into %d terrain boxes", countSolid(tiles), added)
	return added
}

func countSolid(tiles []int) int {
	n := 0
	for _, t := range tiles {
		if t != 0 {
			n++
		}
	}
	return n
}

// Terrain returns the static terrain shapes.
func (w *World) Terrain() []*cp.Shape {
	if w == nil {
		return nil
	}
	return w.terrain
}

// AddBody creates a body from cfg and inserts it into the space.
func (w *World) AddBody(cfg BodyConfig) *Body {
	if w == nil || w.space == nil {
		return nil
	}
	b := newBody(w, cfg)
	w.space.AddBody(b.body)
	w.space.AddShape(b.shape)
	w.bodies[b.shape] = b
	return b
}

// RemoveBody takes b out of the space. It must not be called during Step.
func (w *World) RemoveBody(b *Body) {
	if w == nil || w.space == nil || b == nil || b.shape == nil {
		return
	}
	if _, ok := w.bodies[b.shape]; !ok {
		return
	}
	delete(w.bodies, b.shape)
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	b.world = nil
}

// Bodies returns every live body in no particular order.
func (w *World) Bodies() []*Body {
	if w == nil {
		return nil
	}
	out := make([]*Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		out = append(out, b)
	}
	return out
}

// Raycast casts a segment of the given length from origin along dir and
// returns the first solid shape in mask that it touches. Sensors are never hit.
func (w *World) Raycast(origin, dir cp.Vector, length float64, mask Layer) (Hit, bool) {
	if w == nil || w.space == nil || length <= 0 || mask == 0 {
		return Hit{}, false
	}
	if dir.Length() == 0 {
		return Hit{}, false
	}
	end := origin.Add(dir.Normalize().Mult(length))
	info := w.space.SegmentQueryFirst(origin, end, 0, queryFilter(mask))
	if info.Shape == nil {
		return Hit{}, false
	}
	return Hit{
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Alpha * length,
		Body:     w.bodies[info.Shape],
	}, true
}

// Overlaps returns the bodies in mask whose boxes intersect bb, sensors included.
func (w *World) Overlaps(bb cp.BB, mask Layer) []*Body {
	if w == nil || w.space == nil || mask == 0 {
		return nil
	}
	var out []*Body
	w.space.BBQuery(bb, queryFilter(mask), func(shape *cp.Shape, _ interface{}) {
		if b := w.bodies[shape]; b != nil {
			out = append(out, b)
		}
	}, nil)
	return out
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
}

func collisionTypeFor(l Layer) cp.CollisionType {
	switch {
	case l.Has(LayerTerrain):
		return collisionTypeTerrain
	case l.Has(LayerHazard):
		return collisionTypeHazard
	case l.Has(LayerTrigger):
		return collisionTypeTrigger
	default:
		return collisionTypeActor
	}
}

// filterFor gives a shape its category. Actors only push against terrain;
// terrain, hazards and triggers accept every category.
func filterFor(l Layer) cp.ShapeFilter {
	mask := uint(cp.ALL_CATEGORIES)
	if l.Has(LayerActor) {
		mask = uint(LayerTerrain)
	}
	return cp.NewShapeFilter(cp.NO_GROUP, uint(l), mask)
}

func queryFilter(mask Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(cp.ALL_CATEGORIES), uint(mask))
}
