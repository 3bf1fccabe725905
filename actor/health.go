package actor

import (
	"github.com/milk9111/actorkit/common"
)

type HealthState int

const (
	HealthVulnerable HealthState = iota
	HealthInvincible
)

func (s HealthState) String() string {
	if s == HealthInvincible {
		return "invincible"
	}
	return "vulnerable"
}

type HealthConfig struct {
	Max float64 `yaml:"max"`
	// Current starts at Max when zero.
	Current       float64 `yaml:"current"`
	Invincibility float64 `yaml:"invincibility"`
}

func DefaultHealthConfig() HealthConfig {
	return HealthConfig{Max: 5, Current: 5, Invincibility: 0.5}
}

// HealthManager owns current and max health plus the invincibility window
// that follows every accepted hit.
type HealthManager struct {
	facer *Facer

	current  float64
	max      float64
	duration float64
	elapsed  float64
	state    HealthState
	// suspended rejects hurt and heal until Resume.
	suspended bool

	harmed  Notifier[Harmed]
	changed Notifier[HealthChanged]
}

func NewHealthManager(facer *Facer, cfg HealthConfig) *HealthManager {
	h := &HealthManager{facer: facer}
	h.max = max(cfg.Max, 0)
	h.current = cfg.Current
	if h.current <= 0 {
		h.current = h.max
	}
	h.current = common.Clamp(h.current, 0, h.max)
	h.duration = max(cfg.Invincibility, 0)
	h.elapsed = h.duration
	return h
}

func (h *HealthManager) CurrentHealth() float64 {
	if h == nil {
		return 0
	}
	return h.current
}

func (h *HealthManager) MaxHealth() float64 {
	if h == nil {
		return 0
	}
	return h.max
}

// SetCurrentHealth clamps v to [0, max] and emits HealthChanged if the value moved.
func (h *HealthManager) SetCurrentHealth(v float64) {
	if h == nil {
		return
	}
	h.set(v, h.max)
}

// SetMaxHealth clamps v to be non-negative and pulls current health down to it.
func (h *HealthManager) SetMaxHealth(v float64) {
	if h == nil {
		return
	}
	m := max(v, 0)
	h.set(min(h.current, m), m)
}

func (h *HealthManager) set(current, maxHealth float64) {
	current = common.Clamp(current, 0, maxHealth)
	if current == h.current && maxHealth == h.max {
		return
	}
	h.current = current
	h.max = maxHealth
	h.changed.Emit(HealthChanged{Current: h.current, Max: h.max})
}

func (h *HealthManager) InvincibilityDuration() float64 {
	if h == nil {
		return 0
	}
	return h.duration
}

func (h *HealthManager) SetInvincibilityDuration(d float64) {
	if h == nil {
		return
	}
	h.duration = max(d, 0)
	h.elapsed = min(h.elapsed, h.duration)
}

func (h *HealthManager) State() HealthState {
	if h == nil {
		return HealthVulnerable
	}
	return h.state
}

func (h *HealthManager) Invincible() bool {
	return h != nil && h.state == HealthInvincible
}

// CanHurt reports whether Hurt would currently be accepted.
func (h *HealthManager) CanHurt() bool {
	return h != nil && !h.suspended && h.state == HealthVulnerable
}

// Hurt applies damage unless the actor is invincible or suspended. The actor
// turns toward source when there is one. Non-positive amounts subtract
// nothing but still count as a hit.
func (h *HealthManager) Hurt(amount float64, source Source) bool {
	if !h.CanHurt() {
		return false
	}
	if source != nil && h.facer != nil {
		h.facer.FaceObject(source.Position())
	}
	applied := common.Clamp(amount, 0, h.current)
	h.SetCurrentHealth(h.current - applied)

	if h.duration > 0 {
		h.state = HealthInvincible
		h.elapsed = 0
	}
	h.harmed.Emit(Harmed{Amount: amount, Applied: applied, Source: source})
	return true
}

// Tick advances the invincibility timer by dt seconds.
func (h *HealthManager) Tick(dt float64) {
	if h == nil || h.state != HealthInvincible || dt <= 0 {
		return
	}
	h.elapsed = min(h.elapsed+dt, h.duration)
	if h.elapsed >= h.duration-common.Epsilon {
		h.elapsed = h.duration
		h.state = HealthVulnerable
	}
}

// InvincibilityRemaining is how long the current window still lasts.
func (h *HealthManager) InvincibilityRemaining() float64 {
	if h == nil || h.state != HealthInvincible {
		return 0
	}
	return h.duration - h.elapsed
}

// Heal adds a positive amount, bounded by max health.
func (h *HealthManager) Heal(amount float64) {
	if h == nil || h.suspended || amount <= 0 {
		return
	}
	h.SetCurrentHealth(h.current + amount)
}

func (h *HealthManager) FullHeal() {
	if h == nil || h.suspended {
		return
	}
	h.SetCurrentHealth(h.max)
}

// InstantKill takes all remaining health with no source.
func (h *HealthManager) InstantKill() bool {
	if h == nil {
		return false
	}
	return h.Hurt(h.current, nil)
}

// Suspend locks health against hurt and heal.
func (h *HealthManager) Suspend() {
	if h == nil {
		return
	}
	h.suspended = true
}

// Resume lifts Suspend and ends any invincibility window.
func (h *HealthManager) Resume() {
	if h == nil {
		return
	}
	h.suspended = false
	h.state = HealthVulnerable
	h.elapsed = h.duration
}

func (h *HealthManager) Suspended() bool {
	return h != nil && h.suspended
}

func (h *HealthManager) OnHarmed(fn func(Harmed)) func() {
	if h == nil {
		return func() {}
	}
	return h.harmed.Subscribe(fn)
}

func (h *HealthManager) OnHealthChanged(fn func(HealthChanged)) func() {
	if h == nil {
		return func() {}
	}
	return h.changed.Subscribe(fn)
}
