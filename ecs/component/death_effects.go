package component

// DeathEffects says what happens to an entity's remains when it dies.
type DeathEffects struct {
	// Corpse is the prefab spawned where the entity died. Empty spawns nothing.
	Corpse string
	// Remove destroys the entity once it has died.
	Remove bool
}

var DeathEffectsComponent = NewComponent[DeathEffects]()
