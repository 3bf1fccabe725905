package entity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorkit/common"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/levels"
	"github.com/milk9111/actorkit/physics"
	"github.com/milk9111/actorkit/prefabs"
)

func newWorlds() (*ecs.World, *physics.World) {
	pw := physics.NewWorld(cp.Vector{Y: common.Gravity})
	pw.AddTerrain(cp.BB{L: -20, B: -1, R: 20, T: 0})
	return ecs.NewWorld(), pw
}

func TestBuildEmbeddedPrefabs(t *testing.T) {
	for _, name := range prefabs.Names() {
		t.Run(name, func(t *testing.T) {
			w, pw := newWorlds()
			e, err := BuildEntity(w, pw, name, Options{Position: cp.Vector{X: 1}})
			if err != nil {
				t.Fatalf("build %s: %v", name, err)
			}
			pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
			if !ok {
				t.Fatalf("%s has no body", name)
			}
			if got := pb.Body.Bounds().Bottom(); got > 1e-9 || got < -1e-9 {
				t.Fatalf("%s should stand on y=0, bottom=%v", name, got)
			}
			if owner, ok := pb.Body.UserData.(ecs.Entity); !ok || owner != e {
				t.Fatalf("%s body does not point back at its entity", name)
			}
			if p, ok := ecs.Get(w, e, component.PrefabComponent.Kind()); !ok || p.Name != name {
				t.Fatalf("prefab name = %v", p)
			}
		})
	}
}

func TestBuildPlayer(t *testing.T) {
	w, pw := newWorlds()
	e, err := BuildEntity(w, pw, "player", Options{})
	if err != nil {
		t.Fatal(err)
	}
	a, ok := ecs.Get(w, e, component.ActorComponent.Kind())
	if !ok {
		t.Fatal("player has no actor")
	}
	c, ok := ecs.Get(w, e, component.ControllerComponent.Kind())
	if !ok || c.Actor() != a {
		t.Fatal("controller is not bound to the actor")
	}
	if g, _ := ecs.Get(w, e, component.GrounderComponent.Kind()); g != a.Grounder {
		t.Fatal("grounder component is not shared with the actor")
	}
	if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) || !ecs.Has(w, e, component.InputComponent.Kind()) {
		t.Fatal("player is missing tag or input")
	}
	if a.Health.MaxHealth() != 5 || a.Runner.Config().Speed != 5 {
		t.Fatalf("player tuning not applied: max=%v speed=%v", a.Health.MaxHealth(), a.Runner.Config().Speed)
	}
	if a.Grounder.Config().Layer != physics.LayerTerrain {
		t.Fatalf("grounder layer = %v", a.Grounder.Config().Layer)
	}
	fx, ok := ecs.Get(w, e, component.DeathEffectsComponent.Kind())
	if !ok || fx.Remove || fx.Corpse != "corpse" {
		t.Fatalf("death effects = %+v", fx)
	}
}

func TestBuildOptions(t *testing.T) {
	w, pw := newWorlds()
	e, err := BuildEntity(w, pw, "walker", Options{Facing: 1, Params: map[string]any{"lookahead": 1.5, "extra": "x"}})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := ecs.Get(w, e, component.ActorComponent.Kind())
	if a.Facer.Facing() != 1 {
		t.Fatalf("facing override ignored: %d", a.Facer.Facing())
	}
	sc, _ := ecs.Get(w, e, component.ScriptComponent.Kind())
	if sc.Params["lookahead"] != 1.5 || sc.Params["extra"] != "x" {
		t.Fatalf("params = %v", sc.Params)
	}
	d, _ := ecs.Get(w, e, component.DamagerComponent.Kind())
	if d.Contact(a) {
		t.Fatal("a walker should not hurt itself")
	}
}

func TestBuildEntityErrors(t *testing.T) {
	dir := t.TempDir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir("prefabs") })

	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("unknown", "name: unknown\ncomponents:\n  jetpack: {}\n")
	write("empty", "name: empty\n")
	write("orphan", "name: orphan\ncomponents:\n  actor: {}\n")
	write("badsize", "name: badsize\ncomponents:\n  physics_body:\n    width: -1\n")

	cases := []struct {
		prefab string
		want   string
	}{
		{"unknown", "no builder"},
		{"empty", "does not define components"},
		{"orphan", "requires physics_body"},
		{"badsize", "invalid size"},
		{"missing", "load"},
	}
	for _, c := range cases {
		t.Run(c.prefab, func(t *testing.T) {
			w, pw := newWorlds()
			_, err := BuildEntity(w, pw, c.prefab, Options{})
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err = %v, want %q", err, c.want)
			}
			if len(ecs.Entities(w)) != 0 || len(pw.Bodies()) != 0 {
				t.Fatalf("failed build left %d entities and %d bodies", len(ecs.Entities(w)), len(pw.Bodies()))
			}
		})
	}

	if _, err := BuildEntity(ecs.NewWorld(), nil, "player", Options{}); err != ErrNoPhysics {
		t.Fatalf("expected ErrNoPhysics, got %v", err)
	}
}

func TestDiskPrefabOverride(t *testing.T) {
	dir := t.TempDir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir("prefabs") })

	body := "name: spike\ncomponents:\n  physics_body:\n    width: 3\n    height: 0.5\n    layer: hazard\n    sensor: true\n  damager:\n    amount: 4\n"
	if err := os.WriteFile(filepath.Join(dir, "spike.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	w, pw := newWorlds()
	e, err := BuildEntity(w, pw, "spike", Options{})
	if err != nil {
		t.Fatal(err)
	}
	d, _ := ecs.Get(w, e, component.DamagerComponent.Kind())
	if d.Amount() != 4 {
		t.Fatalf("disk override ignored, amount=%v", d.Amount())
	}
}

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("level1")
	if err != nil {
		t.Fatal(err)
	}
	w := ecs.NewWorld()
	pw := physics.NewWorld(cp.Vector{Y: common.Gravity})
	spawned, err := LoadLevelToWorld(w, pw, lvl)
	if err != nil {
		t.Fatal(err)
	}
	if len(spawned) != len(lvl.Entities) {
		t.Fatalf("spawned %d of %d entities", len(spawned), len(lvl.Entities))
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		t.Fatal("level has no player")
	}
	a, _ := ecs.Get(w, player, component.ActorComponent.Kind())
	if !a.Grounder.IsGrounded() {
		t.Fatalf("player should spawn on the ground at %v", a.Position())
	}
}
