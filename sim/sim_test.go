package sim_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/config"
	"github.com/milk9111/actorkit/ecs/system"
	"github.com/milk9111/actorkit/physics"
	"github.com/milk9111/actorkit/save"
	"github.com/milk9111/actorkit/sim"
)

func newSim(t *testing.T, level string) *sim.Simulation {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg := config.Default()
	cfg.Sim.PrefabDir = ""
	s := sim.New(cfg, save.NewStore(nil))
	if err := s.LoadLevel(level); err != nil {
		t.Fatalf("load %s: %v", level, err)
	}
	return s
}

func player(t *testing.T, s *sim.Simulation) *actor.Actor {
	t.Helper()
	_, a, ok := s.Player()
	if !ok {
		t.Fatal("no player")
	}
	return a
}

func steps(s *sim.Simulation, n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

func TestGrounderOnTerrain(t *testing.T) {
	cases := []struct {
		name     string
		gap      float64
		grounded bool
	}{
		{"just_above", 0.03, true},
		{"too_far", 0.10, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pw := physics.NewWorld(cp.Vector{Y: -9.81})
			pw.AddTerrain(cp.BB{L: -5, B: -1, R: 5, T: 0})
			body := pw.AddBody(physics.BodyConfig{Position: cp.Vector{Y: 0.5 + c.gap}, Width: 1, Height: 1, Mass: 1})
			cfg := actor.DefaultGrounderConfig()
			cfg.Probes, cfg.ProbeLength, cfg.Skin = 3, 0.05, 0
			g := actor.NewGrounder(body, pw, cfg)
			if got := g.IsGrounded(); got != c.grounded {
				t.Fatalf("IsGrounded() = %v, want %v", got, c.grounded)
			}
		})
	}
}

func TestLoadLevel(t *testing.T) {
	s := newSim(t, "flat")
	if s.LevelName() != "flat" || s.Level() == nil {
		t.Fatalf("level = %q", s.LevelName())
	}
	steps(s, 30)
	a := player(t, s)
	if !a.Grounder.Grounded() {
		t.Fatalf("player should settle on the floor, pos=%v", a.Position())
	}
	if math.Abs(a.Body.Bounds().Bottom()-1) > 0.1 {
		t.Fatalf("player feet at %v, want about 1", a.Body.Bounds().Bottom())
	}
	if s.Ticks() != 30 {
		t.Fatalf("ticks = %d", s.Ticks())
	}

	if err := s.LoadLevel("missing"); err == nil {
		t.Fatal("loading a missing level should fail")
	}
}

func TestInputDrivesPlayer(t *testing.T) {
	s := newSim(t, "flat")
	steps(s, 10)
	a := player(t, s)
	start := a.Position().X

	s.Input().MoveX = 1
	steps(s, 10)
	if a.Position().X <= start {
		t.Fatalf("player did not move right: %v -> %v", start, a.Position().X)
	}

	s.Input().MoveX = 0
	s.Input().PressJump()
	s.Step()
	if a.Body.Velocity().Y <= 0 {
		t.Fatalf("jump press should launch, vy=%v", a.Body.Velocity().Y)
	}
}

func TestSaveSpotSavesAndLoadRestores(t *testing.T) {
	s := newSim(t, "level1")
	steps(s, 5)
	a := player(t, s)
	a.Health.Hurt(2, nil)

	var saves []save.SaveData
	s.OnSaved(func(d save.SaveData) { saves = append(saves, d) })

	a.Body.SetPosition(cp.Vector{X: 6.5, Y: 2.5})
	a.Body.SetVelocity(cp.Vector{})
	s.Step()

	if len(saves) != 1 || s.Profile() == "" {
		t.Fatalf("entering the save spot should save once, saves=%d profile=%q", len(saves), s.Profile())
	}
	got := saves[0]
	if got.Scene != "level1" || got.Player.Health != got.Player.MaxHealth {
		t.Fatalf("saved %+v", got)
	}
	if math.Abs(got.Player.X-6.5) > 0.2 {
		t.Fatalf("saved x = %v", got.Player.X)
	}

	a.Body.SetPosition(cp.Vector{X: 12, Y: 5})
	a.Health.Hurt(1, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if math.Abs(a.Position().X-got.Player.X) > 1e-9 || a.Health.CurrentHealth() != got.Player.Health {
		t.Fatalf("load restored pos=%v health=%v", a.Position(), a.Health.CurrentHealth())
	}
}

func TestLoadWithoutProfile(t *testing.T) {
	s := newSim(t, "flat")
	if err := s.Load(); !errors.Is(err, save.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestManualSaveCreatesProfile(t *testing.T) {
	s := newSim(t, "flat")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	profiles, err := s.Store().Profiles()
	if err != nil || len(profiles) != 1 || profiles[0].ID != s.Profile() {
		t.Fatalf("profiles = %v, err = %v", profiles, err)
	}
}

func TestDeathAndRevive(t *testing.T) {
	t.Run("at_spawn", func(t *testing.T) {
		s := newSim(t, "flat")
		var died []system.DiedEvent
		s.OnDied(func(evt system.DiedEvent) { died = append(died, evt) })
		steps(s, 5)
		a := player(t, s)
		e, _, _ := s.Player()

		a.Body.SetPosition(cp.Vector{X: 4.5, Y: 1.5})
		a.Health.InstantKill()
		s.Step()
		if len(died) != 1 || died[0].Entity != e || !a.Death.IsDead() {
			t.Fatalf("died = %v dead = %v", died, a.Death.IsDead())
		}

		if err := s.Revive(); err != nil {
			t.Fatal(err)
		}
		if a.Death.IsDead() || a.Health.CurrentHealth() != a.Health.MaxHealth() {
			t.Fatalf("revive failed: dead=%v health=%v", a.Death.IsDead(), a.Health.CurrentHealth())
		}
		if math.Abs(a.Position().X-2.5) > 1e-9 {
			t.Fatalf("revive should return to spawn, x=%v", a.Position().X)
		}
	})

	t.Run("from_save", func(t *testing.T) {
		s := newSim(t, "flat")
		steps(s, 5)
		a := player(t, s)
		a.Body.SetPosition(cp.Vector{X: 4, Y: 1.5})
		if err := s.Save(); err != nil {
			t.Fatal(err)
		}
		a.Health.InstantKill()
		s.Step()
		if err := s.Revive(); err != nil {
			t.Fatal(err)
		}
		if a.Death.IsDead() || math.Abs(a.Position().X-4) > 1e-9 {
			t.Fatalf("revive from save: dead=%v x=%v", a.Death.IsDead(), a.Position().X)
		}
	})
}

func TestReload(t *testing.T) {
	s := newSim(t, "level1")
	steps(s, 5)
	if err := s.Reload("prefabs/scripts/patrol.tengo"); err != nil {
		t.Fatalf("script reload: %v", err)
	}
	steps(s, 2)

	a := player(t, s)
	a.Body.SetPosition(cp.Vector{X: 5, Y: 2.5})
	a.Health.Hurt(1, nil)
	if err := s.Reload("prefabs/walker.yaml"); err != nil {
		t.Fatalf("prefab reload: %v", err)
	}
	b := player(t, s)
	if b == a {
		t.Fatal("prefab reload should rebuild the level")
	}
	if math.Abs(b.Position().X-5) > 1e-9 || b.Health.CurrentHealth() != 4 {
		t.Fatalf("player not carried over: x=%v health=%v", b.Position().X, b.Health.CurrentHealth())
	}
	if s.Ticks() != 0 {
		t.Fatalf("rebuilt level should restart the tick count, got %d", s.Ticks())
	}
}

func TestReloadBrokenPrefabKeepsPlayer(t *testing.T) {
	cases := []struct {
		name   string
		prefab string
	}{
		{"bad_yaml", "name: player\ncomponents: [\n"},
		{"unknown_component", "name: player\ncomponents:\n  wings: {}\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			dir := t.TempDir()
			cfg := config.Default()
			cfg.Sim.PrefabDir = dir
			s := sim.New(cfg, save.NewStore(nil))
			if err := s.LoadLevel("level1"); err != nil {
				t.Fatal(err)
			}
			steps(s, 3)

			a := player(t, s)
			a.Body.SetPosition(cp.Vector{X: 5, Y: 2.5})
			a.Health.Hurt(1, nil)
			world, ticks := s.World(), s.Ticks()

			path := filepath.Join(dir, "player.yaml")
			if err := os.WriteFile(path, []byte(c.prefab), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := s.Reload(path); !errors.Is(err, sim.ErrNoPlayer) {
				t.Fatalf("reload err = %v, want ErrNoPlayer", err)
			}
			if s.World() != world || s.Ticks() != ticks {
				t.Fatal("a failed reload must keep the running level")
			}
			if b := player(t, s); b != a || b.Health.CurrentHealth() != 4 {
				t.Fatalf("player lost by failed reload: health=%v", b.Health.CurrentHealth())
			}

			if err := os.Remove(path); err != nil {
				t.Fatal(err)
			}
			if err := s.Reload(path); err != nil {
				t.Fatalf("reload after fix: %v", err)
			}
			b := player(t, s)
			if b == a || math.Abs(b.Position().X-5) > 1e-9 || b.Health.CurrentHealth() != 4 {
				t.Fatalf("player not carried over: x=%v health=%v", b.Position().X, b.Health.CurrentHealth())
			}
		})
	}
}
