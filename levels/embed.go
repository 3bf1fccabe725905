package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a tile grid plus the prefabs placed on it. Row 0 of each layer is
// the top row. Entity coordinates are tile cells; an entity stands on the
// bottom edge of its cell.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Name    string `json:"name,omitempty"`
	Physics bool   `json:"physics"`
}

type Entity struct {
	Type  string         `json:"type"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

func (l *Level) tileSize() float64 {
	if l == nil || l.TileSize <= 0 {
		return 1
	}
	return l.TileSize
}

// Feet returns the world position of the bottom centre of cell (x, y).
func (l *Level) Feet(x, y int) (float64, float64) {
	ts := l.tileSize()
	return (float64(x) + 0.5) * ts, float64(l.Height-1-y) * ts
}

// Size returns the level's extent in world units.
func (l *Level) Size() (float64, float64) {
	ts := l.tileSize()
	return float64(l.Width) * ts, float64(l.Height) * ts
}

// PhysicsLayers returns the layers that collide.
func (l *Level) PhysicsLayers() [][]int {
	var out [][]int
	for i, layer := range l.Layers {
		if i < len(l.LayerMeta) && l.LayerMeta[i].Physics {
			out = append(out, layer)
		}
	}
	return out
}

func (l *Level) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height)
		}
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	return &lvl, nil
}

// Names lists the embedded levels.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
