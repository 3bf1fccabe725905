package actor

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/common"
)

type JumpState int

const (
	JumpGrounded JumpState = iota
	JumpRising
	JumpFalling
	JumpGravityFrozen
)

func (s JumpState) String() string {
	switch s {
	case JumpGrounded:
		return "grounded"
	case JumpRising:
		return "rising"
	case JumpFalling:
		return "falling"
	case JumpGravityFrozen:
		return "gravity_frozen"
	default:
		return "unknown"
	}
}

type JumperConfig struct {
	// Gravity is the world's vertical gravity, negative in a y-up world.
	Gravity             float64 `yaml:"-"`
	RisingGravityScale  float64 `yaml:"rising_gravity_scale"`
	FallingGravityScale float64 `yaml:"falling_gravity_scale"`
	MaxJumpHeight       float64 `yaml:"max_jump_height"`
}

func DefaultJumperConfig() JumperConfig {
	return JumperConfig{
		Gravity:             common.Gravity,
		RisingGravityScale:  2,
		FallingGravityScale: 5,
		MaxJumpHeight:       2,
	}
}

// Jumper launches an actor and picks its gravity scale each tick: a gentle
// one while rising and a heavy one while falling.
type Jumper struct {
	body   Body
	ground GroundSensor
	cfg    JumperConfig

	launchSpeed float64
	state       JumpState
	stopGravity bool
	grace       func() bool

	jumped Notifier[Jumped]
	landed Notifier[Landed]
}

func NewJumper(body Body, ground GroundSensor, cfg JumperConfig) *Jumper {
	j := &Jumper{body: body, ground: ground, state: JumpFalling}
	j.Configure(cfg)
	return j
}

// Configure replaces the tuning and recomputes the launch speed.
func (j *Jumper) Configure(cfg JumperConfig) {
	if j == nil {
		return
	}
	if cfg.Gravity == 0 {
		cfg.Gravity = common.Gravity
	}
	j.cfg = cfg
	j.launchSpeed = j.speedForApex(cfg.MaxJumpHeight)
}

func (j *Jumper) Config() JumperConfig {
	if j == nil {
		return JumperConfig{}
	}
	return j.cfg
}

func (j *Jumper) mass() float64 {
	if j.body == nil {
		return 1
	}
	return j.body.Mass()
}

// RisingAcceleration is the vertical acceleration applied while rising.
func (j *Jumper) RisingAcceleration() float64 {
	if j == nil {
		return 0
	}
	return j.cfg.Gravity * j.mass() * j.cfg.RisingGravityScale
}

// FallingAcceleration is the vertical acceleration applied while falling.
func (j *Jumper) FallingAcceleration() float64 {
	if j == nil {
		return 0
	}
	return j.cfg.Gravity * j.mass() * j.cfg.FallingGravityScale
}

// LaunchSpeed is the vertical speed that peaks exactly at MaxJumpHeight.
func (j *Jumper) LaunchSpeed() float64 {
	if j == nil {
		return 0
	}
	return j.launchSpeed
}

func (j *Jumper) speedForApex(apex float64) float64 {
	if apex <= 0 {
		return 0
	}
	return math.Sqrt(2 * apex * math.Abs(j.RisingAcceleration()))
}

// FlightTime is how long a jump that peaks apex above the start takes to come
// down drop below the start.
func (j *Jumper) FlightTime(apex, drop float64) float64 {
	if j == nil || apex <= 0 {
		return 0
	}
	rise := math.Abs(j.RisingAcceleration())
	fall := math.Abs(j.FallingAcceleration())
	if rise == 0 || fall == 0 {
		return 0
	}
	t := math.Sqrt(2 * apex / rise)
	if h := apex + drop; h > 0 {
		t += math.Sqrt(2 * h / fall)
	}
	return t
}

func (j *Jumper) State() JumpState {
	if j == nil {
		return JumpGrounded
	}
	return j.state
}

// SetGrace installs a gate that allows Jump while not grounded.
func (j *Jumper) SetGrace(fn func() bool) {
	if j == nil {
		return
	}
	j.grace = fn
}

func (j *Jumper) SetStopGravity(stop bool) {
	if j == nil {
		return
	}
	j.stopGravity = stop
	if stop && j.body != nil {
		j.body.SetGravityScale(0)
		j.state = JumpGravityFrozen
	}
}

func (j *Jumper) StopGravity() bool {
	return j != nil && j.stopGravity
}

// Tick detects landings and selects the gravity scale for the coming step.
// The ground sensor must have been ticked first.
func (j *Jumper) Tick() {
	if j == nil || j.body == nil {
		return
	}
	grounded := j.ground != nil && j.ground.Grounded()
	wasGrounded := j.ground != nil && j.ground.WasGrounded()

	if j.body.Velocity().Y <= 0 && !wasGrounded && grounded {
		j.state = JumpGrounded
		j.landed.Emit(Landed{Position: j.body.Position()})
	}

	// Landing subscribers may have launched again.
	vy := j.body.Velocity().Y
	if vy > 0 {
		j.body.SetGravityScale(j.cfg.RisingGravityScale)
		j.state = JumpRising
	} else {
		j.body.SetGravityScale(j.cfg.FallingGravityScale)
		if grounded {
			j.state = JumpGrounded
		} else {
			j.state = JumpFalling
		}
	}

	if j.stopGravity {
		j.body.SetGravityScale(0)
		j.state = JumpGravityFrozen
	}
}

// Jump launches vertically with LaunchSpeed, keeping horizontal velocity.
// It does nothing while airborne unless the grace gate allows it.
func (j *Jumper) Jump() bool {
	if j == nil || j.body == nil {
		return false
	}
	if !j.canJump() {
		return false
	}
	v := j.body.Velocity()
	j.launch(cp.Vector{X: v.X, Y: j.launchSpeed})
	return true
}

func (j *Jumper) canJump() bool {
	if j.ground != nil && j.ground.Grounded() {
		return true
	}
	return j.grace != nil && j.grace()
}

// CancelJump ends the rise early. It leaves falling and horizontal motion alone.
func (j *Jumper) CancelJump() {
	if j == nil || j.body == nil {
		return
	}
	v := j.body.Velocity()
	if v.Y <= 0 {
		return
	}
	j.body.SetVelocity(cp.Vector{X: v.X, Y: 0})
}

// JumpWith launches with an explicit velocity, ignoring the ground check.
func (j *Jumper) JumpWith(force cp.Vector) {
	if j == nil || j.body == nil {
		return
	}
	j.launch(force)
}

// JumpTo launches toward target so the arc peaks apex above the start. A
// positive duration fixes the horizontal speed; otherwise the speed is chosen
// so the actor comes down at target's height over target.X. A non-positive
// apex uses MaxJumpHeight.
func (j *Jumper) JumpTo(target cp.Vector, duration, apex float64) {
	if j == nil || j.body == nil {
		return
	}
	if apex <= 0 {
		apex = j.cfg.MaxJumpHeight
	}
	pos := j.body.Position()
	dx := target.X - pos.X
	if duration <= 0 {
		duration = j.FlightTime(apex, pos.Y-target.Y)
	}
	vx := 0.0
	if duration > 0 {
		vx = dx / duration
	}
	j.launch(cp.Vector{X: vx, Y: j.speedForApex(apex)})
}

func (j *Jumper) launch(v cp.Vector) {
	j.stopGravity = false
	j.body.SetVelocity(v)
	if v.Y > 0 {
		j.body.SetGravityScale(j.cfg.RisingGravityScale)
		j.state = JumpRising
	} else {
		j.body.SetGravityScale(j.cfg.FallingGravityScale)
		j.state = JumpFalling
	}
	j.jumped.Emit(Jumped{Velocity: v})
}

func (j *Jumper) OnJumped(fn func(Jumped)) func() {
	if j == nil {
		return func() {}
	}
	return j.jumped.Subscribe(fn)
}

func (j *Jumper) OnLanded(fn func(Landed)) func() {
	if j == nil {
		return func() {}
	}
	return j.landed.Subscribe(fn)
}
