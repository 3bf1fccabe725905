package actor

import "github.com/jakecoffman/cp"

// Snapshot is the persisted part of an actor.
type Snapshot struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	VX        float64 `yaml:"vx"`
	VY        float64 `yaml:"vy"`
	Facing    int     `yaml:"facing"`
	Health    float64 `yaml:"health"`
	MaxHealth float64 `yaml:"max_health"`
	Dead      bool    `yaml:"dead"`
}

func (a *Actor) Snapshot() Snapshot {
	if a == nil {
		return Snapshot{}
	}
	var s Snapshot
	if a.Body != nil {
		p, v := a.Body.Position(), a.Body.Velocity()
		s.X, s.Y, s.VX, s.VY = p.X, p.Y, v.X, v.Y
	}
	s.Facing = a.Facer.Facing()
	s.Health = a.Health.CurrentHealth()
	s.MaxHealth = a.Health.MaxHealth()
	s.Dead = a.Death.IsDead()
	return s
}

// Restore puts the actor back into the state s describes. A dead snapshot
// kills a living actor once and leaves a dead one dead; only a living
// snapshot revives. A MaxHealth of zero or less keeps the current max.
func (a *Actor) Restore(s Snapshot) {
	if a == nil {
		return
	}
	if a.Body != nil {
		a.Body.SetPosition(cp.Vector{X: s.X, Y: s.Y})
		a.Body.SetVelocity(cp.Vector{X: s.VX, Y: s.VY})
	}
	a.Facer.SetFacing(s.Facing)

	maxHealth := s.MaxHealth
	if maxHealth <= 0 {
		maxHealth = a.Health.MaxHealth()
	}
	if s.Dead {
		if a.Death.IsDead() {
			return
		}
		a.Health.Resume()
		a.Health.SetMaxHealth(maxHealth)
		a.Health.InstantKill()
		return
	}

	a.Death.Revive()
	a.Health.Resume()
	a.Health.SetMaxHealth(maxHealth)
	a.Health.SetCurrentHealth(s.Health)
	if s.Health <= 0 {
		a.Health.InstantKill()
	}
}

func (c *Controller) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return c.actor.Snapshot()
}

// Restore also clears grace timers so a restored actor starts clean.
func (c *Controller) Restore(s Snapshot) {
	if c == nil || c.actor == nil {
		return
	}
	if c.coyoteActive {
		c.endCoyote()
	}
	c.jumpBuffer.Clear()
	c.actor.Restore(s)
}
