package component

// Transform mirrors a body's position each step for rendering and scripts.
// Facing is +1 for right and -1 for left.
type Transform struct {
	X      float64
	Y      float64
	Facing int
}

var TransformComponent = NewComponent[Transform]()
