package physics

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layer is a collision category bit set. Shapes carry exactly one category;
// queries take a mask of several.
type Layer uint

const (
	LayerTerrain Layer = 1 << iota
	LayerActor
	LayerHazard
	LayerTrigger
)

const LayerAll = LayerTerrain | LayerActor | LayerHazard | LayerTrigger

var layerNames = []struct {
	name  string
	layer Layer
}{
	{"terrain", LayerTerrain},
	{"actor", LayerActor},
	{"hazard", LayerHazard},
	{"trigger", LayerTrigger},
}

// ParseLayer builds a mask from layer names. Names may also be joined with "|".
func ParseLayer(names ...string) (Layer, error) {
	var out Layer
	for _, n := range names {
		for _, part := range strings.Split(n, "|") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if part == "all" {
				out |= LayerAll
				continue
			}
			found := false
			for _, ln := range layerNames {
				if ln.name == part {
					out |= ln.layer
					found = true
					break
				}
			}
			if !found {
				return 0, fmt.Errorf("physics: unknown layer %q", part)
			}
		}
	}
	return out, nil
}

func (l Layer) Has(other Layer) bool {
	return l&other != 0
}

func (l Layer) String() string {
	if l == 0 {
		return "none"
	}
	var parts []string
	for _, ln := range layerNames {
		if l&ln.layer != 0 {
			parts = append(parts, ln.name)
		}
	}
	return strings.Join(parts, "|")
}

// UnmarshalYAML accepts either a single "a|b" scalar or a sequence of names.
func (l *Layer) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseLayer(value.Value)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		parsed, err := ParseLayer(names...)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	default:
		return fmt.Errorf("physics: layer must be a string or list")
	}
}

func (l Layer) MarshalYAML() (any, error) {
	return l.String(), nil
}
