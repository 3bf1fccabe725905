package save

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/actorkit/actor"
	"github.com/quasilyte/gdata/v2"
)

func gdataStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	m, err := gdata.Open(gdata.Config{AppName: "actorkit_test"})
	if err != nil {
		t.Fatalf("open gdata: %v", err)
	}
	return NewStore(m)
}

func backends(t *testing.T) map[string]func(*testing.T) *Store {
	return map[string]func(*testing.T) *Store{
		"memory": func(*testing.T) *Store { return NewStore(nil) },
		"gdata":  gdataStore,
	}
}

func TestProfileLifecycle(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			s.now = func() time.Time { clock = clock.Add(time.Second); return clock }

			a, err := s.NewProfile("first")
			if err != nil {
				t.Fatalf("new profile: %v", err)
			}
			b, err := s.NewProfile("")
			if err != nil {
				t.Fatalf("new profile: %v", err)
			}
			if a.ID == b.ID || b.Name == "" {
				t.Fatalf("profiles not distinct: %+v %+v", a, b)
			}

			profiles, err := s.Profiles()
			if err != nil || len(profiles) != 2 || profiles[0].ID != a.ID {
				t.Fatalf("profiles = %+v, err %v", profiles, err)
			}

			data, err := s.Load(a.ID)
			if err != nil {
				t.Fatalf("load fresh profile: %v", err)
			}
			if data.Scene != "level1" || data.Language != "en" {
				t.Fatalf("fresh profile should hold defaults, got %+v", data)
			}

			data.Player = actor.Snapshot{X: 3, Y: 2, Facing: -1, Health: 4, MaxHealth: 5}
			data.BindingOverrides = map[string]string{"jump": "W"}
			if err := s.Save(a.ID, data); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := s.Load(a.ID)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.Player != data.Player || got.BindingOverrides["jump"] != "W" {
				t.Fatalf("loaded %+v, want %+v", got, data)
			}
			if !got.SavedAt.After(a.CreatedAt) {
				t.Fatalf("SavedAt not stamped: %v", got.SavedAt)
			}

			if err := s.Delete(a.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if s.Exists(a.ID) {
				t.Fatal("deleted profile still exists")
			}
			if _, err := s.Load(a.ID); !errors.Is(err, ErrProfileNotFound) {
				t.Fatalf("expected ErrProfileNotFound, got %v", err)
			}
			if err := s.Delete(a.ID); !errors.Is(err, ErrProfileNotFound) {
				t.Fatalf("double delete: %v", err)
			}
			if profiles, _ := s.Profiles(); len(profiles) != 1 || profiles[0].ID != b.ID {
				t.Fatalf("profiles after delete = %+v", profiles)
			}
		})
	}
}

func TestSaveUnknownProfileRegistersIt(t *testing.T) {
	s := NewStore(nil)
	if err := s.Save("slot1", DefaultSaveData()); err != nil {
		t.Fatal(err)
	}
	profiles, err := s.Profiles()
	if err != nil || len(profiles) != 1 || profiles[0].ID != "slot1" {
		t.Fatalf("profiles = %+v, err %v", profiles, err)
	}
	if err := s.Save("slot1", DefaultSaveData()); err != nil {
		t.Fatal(err)
	}
	if profiles, _ := s.Profiles(); len(profiles) != 1 {
		t.Fatalf("saving twice duplicated the profile: %+v", profiles)
	}
}

func TestInvalidProfileIDs(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"", "../etc", "a/b", `a\b`, "c:"} {
		if err := s.Save(id, DefaultSaveData()); !errors.Is(err, ErrInvalidProfile) {
			t.Fatalf("Save(%q) = %v", id, err)
		}
		if _, err := s.Load(id); !errors.Is(err, ErrInvalidProfile) {
			t.Fatalf("Load(%q) = %v", id, err)
		}
		if s.Exists(id) {
			t.Fatalf("Exists(%q) = true", id)
		}
	}
}

func TestCorruptSave(t *testing.T) {
	mem := newMemStorage()
	s := NewStore(mem)
	_ = mem.SaveObjectProp(profileObject("bad"), saveProperty, []byte("player: [not, a, snapshot"))
	if _, err := s.Load("bad"); err == nil || errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected an unmarshal error, got %v", err)
	}
}
