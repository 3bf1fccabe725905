package component

import "image/color"

// Render is the flat colour an entity is drawn with. Higher layers draw on
// top.
type Render struct {
	Color color.Color
	Layer int
}

var RenderComponent = NewComponent[Render]()
