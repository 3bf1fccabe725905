package actor

import "github.com/jakecoffman/cp"

// Corpse describes the remains left behind by a death.
type Corpse struct {
	Position cp.Vector
	Facing   int
	Source   Source
}

// DeathManager turns the first hit that empties health into a one-way death.
// Revive is the only way back.
type DeathManager struct {
	health *HealthManager
	facer  *Facer
	body   Body

	dead        bool
	spawnCorpse func(Corpse)
	remove      func()
	unsubscribe func()

	died    Notifier[Died]
	revived Notifier[Revived]
}

func NewDeathManager(health *HealthManager, facer *Facer, body Body) *DeathManager {
	d := &DeathManager{health: health, facer: facer, body: body}
	if health != nil {
		d.unsubscribe = health.OnHarmed(d.onHarmed)
	}
	return d
}

// SetCorpseSpawner installs the callback that leaves remains behind.
func (d *DeathManager) SetCorpseSpawner(fn func(Corpse)) {
	if d == nil {
		return
	}
	d.spawnCorpse = fn
}

// SetRemover installs the callback that takes the dead actor out of play.
func (d *DeathManager) SetRemover(fn func()) {
	if d == nil {
		return
	}
	d.remove = fn
}

func (d *DeathManager) IsDead() bool {
	return d != nil && d.dead
}

func (d *DeathManager) onHarmed(evt Harmed) {
	if d.dead || d.health.CurrentHealth() > 0 {
		return
	}
	d.dead = true
	d.health.Suspend()

	var pos cp.Vector
	if d.body != nil {
		pos = d.body.Position()
	}
	d.died.Emit(Died{Position: pos, Source: evt.Source})

	if d.spawnCorpse != nil {
		d.spawnCorpse(Corpse{Position: pos, Facing: d.corpseFacing(pos, evt.Source), Source: evt.Source})
	}
	if d.remove != nil {
		d.remove()
	}
}

// corpseFacing points the remains at the killer, or keeps the actor's facing
// when there was none.
func (d *DeathManager) corpseFacing(pos cp.Vector, source Source) int {
	facing := d.facer.Facing()
	if source == nil {
		return facing
	}
	dx := source.Position().X - pos.X
	switch {
	case dx > 0:
		return 1
	case dx < 0:
		return -1
	default:
		return facing
	}
}

// Revive clears death and restores full health. It reports false when the
// actor was not dead.
func (d *DeathManager) Revive() bool {
	if d == nil || !d.dead {
		return false
	}
	d.dead = false
	d.health.Resume()
	d.health.FullHeal()
	d.revived.Emit(Revived{Health: d.health.CurrentHealth()})
	return true
}

// Detach stops listening to the health manager.
func (d *DeathManager) Detach() {
	if d == nil || d.unsubscribe == nil {
		return
	}
	d.unsubscribe()
	d.unsubscribe = nil
}

func (d *DeathManager) OnDied(fn func(Died)) func() {
	if d == nil {
		return func() {}
	}
	return d.died.Subscribe(fn)
}

func (d *DeathManager) OnRevived(fn func(Revived)) func() {
	if d == nil {
		return func() {}
	}
	return d.revived.Subscribe(fn)
}
