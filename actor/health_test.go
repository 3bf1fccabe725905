package actor

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestHealthHurtClamps(t *testing.T) {
	cases := []struct {
		name    string
		amount  float64
		want    float64
		applied float64
	}{
		{"partial", 2, 3, 2},
		{"exact", 5, 0, 5},
		{"overkill", 12, 0, 5},
		{"zero", 0, 5, 0},
		{"negative", -4, 5, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewHealthManager(nil, DefaultHealthConfig())
			var got Harmed
			h.OnHarmed(func(e Harmed) { got = e })
			if !h.Hurt(c.amount, nil) {
				t.Fatalf("vulnerable actor rejected the hit")
			}
			if h.CurrentHealth() != c.want {
				t.Fatalf("health = %v, want %v", h.CurrentHealth(), c.want)
			}
			if got.Amount != c.amount || got.Applied != c.applied {
				t.Fatalf("harmed = %+v", got)
			}
			if !h.Invincible() {
				t.Fatalf("a hit must open the invincibility window")
			}
		})
	}
}

func TestHealthInvincibilityWindow(t *testing.T) {
	h := NewHealthManager(nil, DefaultHealthConfig())
	h.Hurt(1, nil)
	for i := 0; i < 4; i++ {
		h.Tick(0.1)
		if h.Hurt(1, nil) {
			t.Fatalf("hit accepted at tick %d inside the window", i)
		}
		if h.CurrentHealth() != 4 {
			t.Fatalf("health changed while invincible: %v", h.CurrentHealth())
		}
	}
	h.Tick(0.1)
	if h.Invincible() || !h.CanHurt() {
		t.Fatalf("vulnerability must return on the boundary tick")
	}
	if h.InvincibilityRemaining() != 0 {
		t.Fatalf("remaining = %v", h.InvincibilityRemaining())
	}
	if !h.Hurt(1, nil) || h.CurrentHealth() != 3 {
		t.Fatalf("expected second hit to land, health=%v", h.CurrentHealth())
	}
}

func TestHealthTimerClampsAtDuration(t *testing.T) {
	h := NewHealthManager(nil, DefaultHealthConfig())
	h.Hurt(1, nil)
	h.Tick(10)
	if h.Invincible() || h.InvincibilityRemaining() != 0 {
		t.Fatalf("long tick must end the window cleanly")
	}
}

func TestHealthHeal(t *testing.T) {
	cases := []struct {
		name   string
		start  float64
		amount float64
		want   float64
	}{
		{"partial", 2, 1, 3},
		{"capped", 4, 10, 5},
		{"negative_ignored", 2, -1, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewHealthManager(nil, HealthConfig{Max: 5, Current: c.start, Invincibility: 0.5})
			h.Heal(c.amount)
			if h.CurrentHealth() != c.want {
				t.Fatalf("health = %v, want %v", h.CurrentHealth(), c.want)
			}
		})
	}

	h := NewHealthManager(nil, HealthConfig{Max: 5, Current: 1, Invincibility: 0.5})
	h.Hurt(0.5, nil)
	h.FullHeal()
	if h.CurrentHealth() != 5 || !h.Invincible() {
		t.Fatalf("full heal: health=%v invincible=%v", h.CurrentHealth(), h.Invincible())
	}
}

func TestHealthChangedNotifications(t *testing.T) {
	h := NewHealthManager(nil, DefaultHealthConfig())
	var got []HealthChanged
	h.OnHealthChanged(func(e HealthChanged) { got = append(got, e) })

	h.SetCurrentHealth(5)
	h.SetCurrentHealth(9)
	if len(got) != 0 {
		t.Fatalf("unchanged value must not notify: %v", got)
	}
	h.SetCurrentHealth(-1)
	h.SetMaxHealth(-3)
	h.SetMaxHealth(4)
	h.SetCurrentHealth(2)
	want := []HealthChanged{{0, 5}, {0, 0}, {0, 4}, {2, 4}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHealthMaxHealthPullsCurrentDown(t *testing.T) {
	h := NewHealthManager(nil, DefaultHealthConfig())
	h.SetMaxHealth(3)
	if h.CurrentHealth() != 3 || h.MaxHealth() != 3 {
		t.Fatalf("health %v/%v", h.CurrentHealth(), h.MaxHealth())
	}
	h.SetMaxHealth(8)
	if h.CurrentHealth() != 3 {
		t.Fatalf("raising max must not heal, got %v", h.CurrentHealth())
	}
}

func TestHealthHurtFacesSource(t *testing.T) {
	body := newFakeBody(0, 0)
	f := NewFacer(body, 1)
	h := NewHealthManager(f, DefaultHealthConfig())
	h.Hurt(1, pointSource(cp.Vector{X: -2}))
	if !f.FacingLeft() {
		t.Fatalf("hurt actor should face the source on its left")
	}
	h.Resume()
	h.InstantKill()
	if !f.FacingLeft() || h.CurrentHealth() != 0 {
		t.Fatalf("instant kill: facing=%d health=%v", f.Facing(), h.CurrentHealth())
	}
}

func TestHealthScenarioDeath(t *testing.T) {
	body := newFakeBody(0, 0)
	a := New(body, flatFloor(0), DefaultConfig())
	src := pointSource(cp.Vector{X: 3})

	var changes []HealthChanged
	var harms []Harmed
	deaths := 0
	var corpses []Corpse
	removed := 0
	a.Health.OnHealthChanged(func(e HealthChanged) { changes = append(changes, e) })
	a.Health.OnHarmed(func(e Harmed) { harms = append(harms, e) })
	a.Death.OnDied(func(Died) { deaths++ })
	a.Death.SetCorpseSpawner(func(c Corpse) { corpses = append(corpses, c) })
	a.Death.SetRemover(func() { removed++ })

	a.Hurt(2, src)
	if a.Health.CurrentHealth() != 3 {
		t.Fatalf("health = %v, want 3", a.Health.CurrentHealth())
	}
	if len(changes) != 1 || changes[0] != (HealthChanged{3, 5}) {
		t.Fatalf("changes = %v", changes)
	}
	if len(harms) != 1 || harms[0].Amount != 2 || harms[0].Source != Source(src) {
		t.Fatalf("harms = %v", harms)
	}

	a.Health.Tick(0.1)
	a.Hurt(10, src)
	if a.Health.CurrentHealth() != 3 {
		t.Fatalf("hit inside window changed health to %v", a.Health.CurrentHealth())
	}

	a.Health.Tick(0.5)
	a.Hurt(10, src)
	if a.Health.CurrentHealth() != 0 || !a.Death.IsDead() {
		t.Fatalf("expected death, health=%v dead=%v", a.Health.CurrentHealth(), a.Death.IsDead())
	}
	if deaths != 1 || removed != 1 || len(corpses) != 1 {
		t.Fatalf("deaths=%d removed=%d corpses=%d", deaths, removed, len(corpses))
	}
	if corpses[0].Facing != 1 {
		t.Fatalf("corpse should face the source on the right, got %d", corpses[0].Facing)
	}

	a.Health.Tick(1)
	a.Hurt(10, src)
	a.Health.InstantKill()
	if deaths != 1 {
		t.Fatalf("death must happen exactly once, got %d", deaths)
	}

	revived := 0
	a.Death.OnRevived(func(Revived) { revived++ })
	if !a.Death.Revive() || a.Death.Revive() {
		t.Fatalf("revive must succeed exactly once")
	}
	if revived != 1 || a.Health.CurrentHealth() != 5 || !a.Health.CanHurt() {
		t.Fatalf("after revive: revived=%d health=%v canHurt=%v", revived, a.Health.CurrentHealth(), a.Health.CanHurt())
	}
}

func TestDeathWithoutSource(t *testing.T) {
	body := newFakeBody(0, 0)
	a := New(body, flatFloor(0), DefaultConfig())
	a.Facer.SetFacing(-1)
	var corpse Corpse
	a.Death.SetCorpseSpawner(func(c Corpse) { corpse = c })
	a.Health.InstantKill()
	if !a.Death.IsDead() || corpse.Facing != -1 || corpse.Source != nil {
		t.Fatalf("dead=%v corpse=%+v", a.Death.IsDead(), corpse)
	}
	a.Health.Heal(3)
	if a.Health.CurrentHealth() != 0 {
		t.Fatalf("dead actors cannot be healed")
	}
}
