package actor

import "github.com/milk9111/actorkit/common"

type ControllerConfig struct {
	// CoyoteTime is how long after walking off a ledge a jump is still allowed.
	CoyoteTime float64 `yaml:"coyote_time"`
	// JumpBuffer is how long before landing a jump press is remembered.
	JumpBuffer float64 `yaml:"jump_buffer"`
}

func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{CoyoteTime: 0.1, JumpBuffer: 0.15}
}

// Controller drives an Actor from Input, adding coyote time, jump buffering
// and variable jump height.
type Controller struct {
	actor *Actor
	input Input
	cfg   ControllerConfig

	coyoteActive  bool
	coyoteElapsed float64
	jumpBuffer    *BufferedAction
	inputEnabled  bool

	unsubscribe []func()
}

func NewController(a *Actor, input Input, cfg ControllerConfig) *Controller {
	c := &Controller{
		actor:        a,
		input:        input,
		cfg:          cfg,
		jumpBuffer:   NewBufferedAction(cfg.JumpBuffer),
		inputEnabled: true,
	}
	if a != nil {
		a.Jumper.SetGrace(c.InCoyoteTime)
		c.unsubscribe = append(c.unsubscribe, a.Jumper.OnLanded(c.onLanded))
	}
	return c
}

func (c *Controller) Actor() *Actor {
	if c == nil {
		return nil
	}
	return c.actor
}

func (c *Controller) Config() ControllerConfig {
	if c == nil {
		return ControllerConfig{}
	}
	return c.cfg
}

func (c *Controller) SetInput(input Input) {
	if c == nil {
		return
	}
	c.input = input
}

func (c *Controller) SetInputEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.inputEnabled = enabled
}

func (c *Controller) InputEnabled() bool {
	return c != nil && c.inputEnabled
}

// InCoyoteTime reports whether a ledge grace window is open.
func (c *Controller) InCoyoteTime() bool {
	return c != nil && c.coyoteActive && c.coyoteElapsed < c.cfg.CoyoteTime-common.Epsilon
}

// JumpBuffered reports whether a recent jump press is waiting for a landing.
func (c *Controller) JumpBuffered() bool {
	return c != nil && c.jumpBuffer.IsBuffered()
}

// Tick reads input and updates grace timers. It runs after the Grounder has
// sampled and before the Jumper picks gravity for the step.
func (c *Controller) Tick(dt float64) {
	if c == nil || c.actor == nil {
		return
	}
	a := c.actor
	c.jumpBuffer.Tick(dt)

	if c.coyoteActive && c.coyoteElapsed >= c.cfg.CoyoteTime-common.Epsilon {
		c.endCoyote()
	}

	a.Facer.CheckFlip()
	c.checkLedge()

	if c.acceptsInput() {
		if c.input.JumpPressed() {
			c.jumpBuffer.Press()
			c.Jump()
		}
		if move := c.input.Move(); move != 0 {
			a.Runner.Run(move)
		} else {
			a.Runner.StopRun()
		}
		if !c.input.JumpHeld() {
			a.Jumper.CancelJump()
		}
	}

	if c.coyoteActive {
		c.coyoteElapsed += dt
	}
}

func (c *Controller) acceptsInput() bool {
	if !c.inputEnabled || c.input == nil {
		return false
	}
	if c.actor.Death.IsDead() || c.actor.Runner.AutoRunning() {
		return false
	}
	return true
}

// checkLedge opens the coyote window the tick the actor leaves the ground
// without jumping, holding gravity off until it closes.
func (c *Controller) checkLedge() {
	a := c.actor
	if c.coyoteActive || a.Body == nil {
		return
	}
	if a.Body.Velocity().Y <= 0 && a.Grounder.WasGrounded() && !a.Grounder.Grounded() {
		c.coyoteActive = true
		c.coyoteElapsed = 0
		a.Jumper.SetStopGravity(true)
	}
}

func (c *Controller) endCoyote() {
	c.coyoteActive = false
	c.coyoteElapsed = c.cfg.CoyoteTime
	c.actor.Jumper.SetStopGravity(false)
}

// Jump jumps when grounded or inside the coyote window. A successful jump
// closes the window and consumes the buffered press.
func (c *Controller) Jump() bool {
	if c == nil || c.actor == nil {
		return false
	}
	if !c.actor.Jumper.Jump() {
		return false
	}
	if c.coyoteActive {
		c.endCoyote()
	}
	c.jumpBuffer.Clear()
	return true
}

func (c *Controller) onLanded(Landed) {
	if c.coyoteActive {
		c.endCoyote()
	}
	c.actor.Grounder.ForceGround()
	if c.jumpBuffer.IsBuffered() && c.acceptsInput() {
		c.Jump()
	}
}

// StopMovement halts both axes of player-driven motion.
func (c *Controller) StopMovement() {
	if c == nil || c.actor == nil {
		return
	}
	c.actor.Jumper.CancelJump()
	c.actor.Runner.StopRun()
}

// Close drops the controller's subscriptions.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	for _, fn := range c.unsubscribe {
		fn()
	}
	c.unsubscribe = nil
	if c.actor != nil {
		c.actor.Jumper.SetGrace(nil)
	}
}
