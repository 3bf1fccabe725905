package actor

import "github.com/jakecoffman/cp"

type Jumped struct {
	Velocity cp.Vector
}

type Landed struct {
	Position cp.Vector
}

type Flipped struct {
	Facing int
}

// Harmed reports an accepted hit. Amount is what was asked for, Applied what
// was actually subtracted.
type Harmed struct {
	Amount  float64
	Applied float64
	Source  Source
}

type HealthChanged struct {
	Current float64
	Max     float64
}

type Died struct {
	Position cp.Vector
	Source   Source
}

type Revived struct {
	Health float64
}

type AutoRunFinished struct {
	TargetX float64
}
