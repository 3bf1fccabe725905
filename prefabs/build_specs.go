package prefabs

import (
	"github.com/milk9111/actorkit/physics"
	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is a prefab file: a name plus one raw entry per component.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var out T
	err := DecodeComponentSpecInto(raw, &out)
	return out, err
}

// DecodeComponentSpecInto decodes raw over out, so fields the prefab leaves
// out keep whatever defaults out already holds.
func DecodeComponentSpecInto[T any](raw any, out *T) error {
	if raw == nil {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

type PhysicsBodyComponentSpec struct {
	Width    float64       `yaml:"width"`
	Height   float64       `yaml:"height"`
	Mass     float64       `yaml:"mass"`
	Friction float64       `yaml:"friction"`
	Layer    physics.Layer `yaml:"layer"`
	Sensor   bool          `yaml:"sensor"`
}

type DamagerComponentSpec struct {
	Amount float64 `yaml:"amount"`
}

type ScriptComponentSpec struct {
	Path   string         `yaml:"path"`
	Params map[string]any `yaml:"params"`
}

type DeathComponentSpec struct {
	Corpse string `yaml:"corpse"`
	Remove bool   `yaml:"remove"`
}

type TTLComponentSpec struct {
	Seconds float64 `yaml:"seconds"`
}

type RenderComponentSpec struct {
	Color *YAMLColor `yaml:"color"`
	Layer int        `yaml:"layer"`
}
