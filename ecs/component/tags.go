package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CorpseTag struct{}

var CorpseTagComponent = NewComponent[CorpseTag]()

// Prefab records which prefab an entity was built from.
type Prefab struct {
	Name string
}

var PrefabComponent = NewComponent[Prefab]()
