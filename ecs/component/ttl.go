package component

// TTL destroys its entity once Seconds has run out.
type TTL struct {
	Seconds float64
}

var TTLComponent = NewComponent[TTL]()
