package components

// Body holds physical properties of an entity.
type Body struct {
	Radius float64
}

// Bounce reflects the velocity when the body's center leaves the bounds
// inset by its radius. Only the offending axis flips.
func Bounce(pos *Position, vel *Velocity, body Body, minX, minY, maxX, maxY float64) bool {
	bounced := false
	if (pos.X <= minX+body.Radius && vel.X < 0) || (pos.X >= maxX-body.Radius && vel.X > 0) {
		vel.X = -vel.X
		bounced = true
	}
	if (pos.Y <= minY+body.Radius && vel.Y < 0) || (pos.Y >= maxY-body.Radius && vel.Y > 0) {
		vel.Y = -vel.Y
		bounced = true
	}
	return bounced
}
