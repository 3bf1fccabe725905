package actor

import "github.com/jakecoffman/cp"

// Damager hurts whatever it overlaps, every tick it overlaps. The target's
// invincibility window is the only rate limit.
type Damager struct {
	body   Body
	amount float64
	owner  Hurtable
}

func NewDamager(body Body, amount float64) *Damager {
	return &Damager{body: body, amount: amount}
}

// Position makes a Damager usable as a damage Source.
func (d *Damager) Position() cp.Vector {
	if d == nil || d.body == nil {
		return cp.Vector{}
	}
	return d.body.Position()
}

func (d *Damager) Amount() float64 {
	if d == nil {
		return 0
	}
	return d.amount
}

func (d *Damager) SetAmount(amount float64) {
	if d == nil {
		return
	}
	d.amount = amount
}

// SetOwner excludes the actor carrying this damager from its own hits.
func (d *Damager) SetOwner(owner Hurtable) {
	if d == nil {
		return
	}
	d.owner = owner
}

// Contact hurts target once. It reports whether the hit was accepted.
func (d *Damager) Contact(target Hurtable) bool {
	if d == nil || target == nil {
		return false
	}
	if d.owner != nil && target == d.owner {
		return false
	}
	return target.Hurt(d.amount, d)
}
