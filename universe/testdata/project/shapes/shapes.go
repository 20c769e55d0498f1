package shapes

import "example.com/project/internal/geo"

// Pi is the ratio used by Area
const Pi = 3.14

// Default is the unit circle
var Default = NewCircle(1)

// Circle is a circle
type Circle struct {
	geo.Point
	Radius float64
	label  string
}

// NewCircle creates a circle
func NewCircle(r float64) *Circle {
	return &Circle{Radius: r}
}

// Area returns the area
func (c *Circle) Area() float64 {
	return Pi * c.Radius * c.Radius
}

func (c *Circle) scale(f float64) {
	c.Radius *= f
}

// Shape is anything with an area
type Shape interface {
	Area() float64 // Area returns the area
}

// Box holds a value
type Box[T any] struct {
	Value T
}

// Get returns the value
func (b Box[T]) Get() T {
	return b.Value
}
