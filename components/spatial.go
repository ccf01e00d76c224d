package components

// Position represents an entity's world position in metres.
type Position struct {
	X, Y float64
}

// Velocity represents an entity's velocity in metres per second.
type Velocity struct {
	X, Y float64
}
