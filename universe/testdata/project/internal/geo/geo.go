package geo

// Point is a position
type Point struct {
	X, Y float64
}

// Dist returns the distance to the origin
func (p Point) Dist() float64 {
	return p.X*p.X + p.Y*p.Y
}
