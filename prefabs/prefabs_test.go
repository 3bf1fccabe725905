package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/actorkit/physics"
	"gopkg.in/yaml.v3"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir()
	SetDir(dir)
	t.Cleanup(func() { SetDir(prev) })
}

func TestNames(t *testing.T) {
	got := strings.Join(Names(), ",")
	if got != "corpse,hopper,player,savespot,spike,walker" {
		t.Fatalf("Names() = %s", got)
	}
}

func TestEmbeddedPrefabsDecode(t *testing.T) {
	useDir(t, "")
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(name)
			if err != nil {
				t.Fatal(err)
			}
			if spec.Name != name || len(spec.Components) == 0 {
				t.Fatalf("spec = %+v", spec)
			}
		})
	}

	spec, err := LoadEntityBuildSpec("spike")
	if err != nil {
		t.Fatal(err)
	}
	body := PhysicsBodyComponentSpec{Mass: 1}
	if err := DecodeComponentSpecInto(spec.Components["physics_body"], &body); err != nil {
		t.Fatal(err)
	}
	if body.Layer != physics.LayerHazard || !body.Sensor || body.Mass != 1 {
		t.Fatalf("spike body = %+v", body)
	}
}

func TestDiskOverrides(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "player.yaml"), []byte("name: override\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scripts", "patrol.tengo"), []byte("// disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		load    func(string) ([]byte, error)
		path    string
		prefix  string
		wantErr bool
	}{
		{"prefab_from_disk", Load, "player", "name: override", false},
		{"prefab_with_dir_prefix", Load, "prefabs/player.yaml", "name: override", false},
		{"prefab_embedded_fallback", Load, "walker", "name: walker", false},
		{"prefab_missing", Load, "ghost", "", true},
		{"script_from_disk", LoadScript, "patrol.tengo", "// disk", false},
		{"script_embedded_fallback", LoadScript, "scripts/hopper.tengo", "", false},
		{"script_missing", LoadScript, "nope.tengo", "", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := c.load(c.path)
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if !strings.HasPrefix(string(data), c.prefix) {
				t.Fatalf("got %q, want prefix %q", data, c.prefix)
			}
		})
	}

	if _, ok := ModTime("player"); !ok {
		t.Fatal("ModTime should see the disk copy")
	}
	if _, ok := ModTime("walker"); ok {
		t.Fatal("ModTime should not report embedded-only prefabs")
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{`"#ff0000"`, color.NRGBA{R: 0xff, A: 0xff}, false},
		{`"#00ff0080"`, color.NRGBA{G: 0xff, A: 0x80}, false},
		{`"3a7bd5"`, color.NRGBA{R: 0x3a, G: 0x7b, B: 0xd5, A: 0xff}, false},
		{`red`, color.NRGBA{}, true},
		{`"#zzzzzz"`, color.NRGBA{}, true},
		{`[1, 2, 3]`, color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if err == nil && got.Color != c.want {
				t.Fatalf("got %v, want %v", got.Color, c.want)
			}
		})
	}

	out, err := yaml.Marshal(YAMLColor{Color: color.NRGBA{R: 1, G: 2, B: 3, A: 4}})
	if err != nil || strings.TrimSpace(string(out)) != `'#01020304'` {
		t.Fatalf("marshal = %q, %v", out, err)
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "walker.yaml")
	if err := os.WriteFile(target, []byte("name: walker\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != target {
			t.Fatalf("event for %s, want %s", got, target)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event for the edited prefab")
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Events not closed after Close")
		}
	}
}
