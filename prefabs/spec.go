package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// YAMLColor reads "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i*2 < len(s); i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return fmt.Errorf("invalid color format: %s", value.Value)
		}
		rgba[i] = uint8(v)
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return "", nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}
