package component

// Script attaches a tengo behaviour script to an actor.
type Script struct {
	Path   string
	Params map[string]any
}

var ScriptComponent = NewComponent[Script]()
