package actor

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/physics"
)

// probeEdgeInset keeps the outer probes off the collider's vertical faces
// so a wall the actor leans against is not read as floor.
const probeEdgeInset = 0.01

var down = cp.Vector{X: 0, Y: -1}

type GrounderConfig struct {
	Probes      int           `yaml:"probes"`
	ProbeLength float64       `yaml:"probe_length"`
	// Skin lifts the probe origins above the bottom edge so a body the solver
	// left slightly inside the floor still finds it. The reach below the
	// edge stays ProbeLength.
	Skin  float64       `yaml:"skin"`
	Layer physics.Layer `yaml:"layer"`
}

func DefaultGrounderConfig() GrounderConfig {
	return GrounderConfig{
		Probes:      3,
		ProbeLength: 0.05,
		Skin:        0.15,
		Layer:       physics.LayerTerrain,
	}
}

// GroundContact is the ground probe result sampled once per tick.
type GroundContact struct {
	Grounded bool
	Probes   int
}

// Grounder answers whether an actor stands on terrain.
type Grounder struct {
	body  Body
	probe Raycaster
	cfg   GrounderConfig

	contact     GroundContact
	wasGrounded bool
}

func NewGrounder(body Body, probe Raycaster, cfg GrounderConfig) *Grounder {
	if cfg.Skin < 0 {
		cfg.Skin = 0
	}
	return &Grounder{body: body, probe: probe, cfg: cfg}
}

func (g *Grounder) Config() GrounderConfig {
	if g == nil {
		return GrounderConfig{}
	}
	return g.cfg
}

// IsGrounded probes the terrain now, without touching the cached state.
func (g *Grounder) IsGrounded() bool {
	if g == nil || g.body == nil || g.probe == nil {
		return false
	}
	if g.cfg.ProbeLength <= 0 || g.cfg.Layer == 0 {
		return false
	}
	bounds := g.body.Bounds()
	originY := bounds.Bottom() + g.cfg.Skin
	reach := g.cfg.Skin + g.cfg.ProbeLength
	for _, x := range g.probeXs() {
		if _, ok := g.probe.Raycast(cp.Vector{X: x, Y: originY}, down, reach, g.cfg.Layer); ok {
			return true
		}
	}
	return false
}

// probeXs spreads the probes evenly across the bottom edge.
func (g *Grounder) probeXs() []float64 {
	n := g.cfg.Probes
	if n <= 0 {
		return nil
	}
	bounds := g.body.Bounds()
	if n == 1 {
		return []float64{bounds.CenterX()}
	}
	left, width := bounds.Left(), bounds.Width
	if width > 2*probeEdgeInset {
		left += probeEdgeInset
		width -= 2 * probeEdgeInset
	}
	step := width / float64(n-1)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = left + float64(i)*step
	}
	return xs
}

// Tick samples the ground once and keeps the previous sample.
func (g *Grounder) Tick() {
	if g == nil {
		return
	}
	g.wasGrounded = g.contact.Grounded
	g.contact = GroundContact{Grounded: g.IsGrounded(), Probes: max(g.cfg.Probes, 0)}
}

// Grounded is the sample taken by the last Tick.
func (g *Grounder) Grounded() bool {
	return g != nil && g.contact.Grounded
}

// WasGrounded is the sample taken by the Tick before that.
func (g *Grounder) WasGrounded() bool {
	return g != nil && g.wasGrounded
}

func (g *Grounder) Contact() GroundContact {
	if g == nil {
		return GroundContact{}
	}
	return g.contact
}

// ForceGround snaps the body down onto the highest terrain surface found by
// the ground probes, within the same reach IsGrounded uses. The body's x is
// left alone. It reports false, without moving, when no probe hits.
func (g *Grounder) ForceGround() bool {
	if g == nil || g.body == nil || g.probe == nil || g.cfg.Layer == 0 || g.cfg.ProbeLength <= 0 {
		return false
	}
	bounds := g.body.Bounds()
	originY := bounds.Bottom() + g.cfg.Skin
	reach := g.cfg.Skin + g.cfg.ProbeLength

	var top float64
	found := false
	for _, x := range g.probeXs() {
		hit, ok := g.probe.Raycast(cp.Vector{X: x, Y: originY}, down, reach, g.cfg.Layer)
		if !ok {
			continue
		}
		if !found || hit.Point.Y > top {
			top = hit.Point.Y
		}
		found = true
	}
	if !found {
		return false
	}
	pos := g.body.Position()
	pos.Y = top + (pos.Y - bounds.Bottom())
	g.body.SetPosition(pos)
	return true
}
