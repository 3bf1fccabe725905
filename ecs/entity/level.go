package entity

import (
	"errors"
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/levels"
	"github.com/milk9111/actorkit/physics"
)

// LoadLevelToWorld builds a level's terrain into pw and spawns its
// entities into w. Entities that fail to build are reported together; the
// rest of the level still loads.
func LoadLevelToWorld(w *ecs.World, pw *physics.World, lvl *levels.Level) ([]ecs.Entity, error) {
	if lvl == nil {
		return nil, fmt.Errorf("load level: level is nil")
	}
	if pw == nil {
		return nil, ErrNoPhysics
	}

	width, height := lvl.Size()
	ts := width / float64(lvl.Width)
	boxes := 0
	for _, layer := range lvl.PhysicsLayers() {
		boxes += pw.AddTerrainTiles(layer, lvl.Width, lvl.Height, ts, cp.Vector{})
	}
	pw.AddBounds(cp.BB{L: 0, B: 0, R: width, T: height})
	log.Printf("level: %dx%d tiles, %d terrain boxes", lvl.Width, lvl.Height, boxes)

	var (
		spawned []ecs.Entity
		errs    []error
	)
	for i, spec := range lvl.Entities {
		x, y := lvl.Feet(spec.X, spec.Y)
		opts := Options{Position: cp.Vector{X: x, Y: y}, Params: spec.Props}
		if f, ok := spec.Props["facing"].(float64); ok {
			opts.Facing = int(f)
		}
		e, err := BuildEntity(w, pw, spec.Type, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("entity %d (%s): %w", i, spec.Type, err))
			continue
		}
		spawned = append(spawned, e)
	}
	return spawned, errors.Join(errs...)
}
