package component

import "github.com/milk9111/actorkit/physics"

// PhysicsBody links an entity to its Chipmunk2D body.
type PhysicsBody struct {
	Body   *physics.Body
	Config physics.BodyConfig
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
