package component

// SaveSpot heals and saves the player while they stand inside it.
type SaveSpot struct {
	Occupied bool
}

var SaveSpotComponent = NewComponent[SaveSpot]()
