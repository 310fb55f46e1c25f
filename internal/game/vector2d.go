package game

import "gonum.org/v1/gonum/spatial/r2"

// Coord is a 2D point or vector on the table surface.
type Coord struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (c Coord) vec() r2.Vec {
	return r2.Vec{X: c.X, Y: c.Y}
}

func fromVec(v r2.Vec) Coord {
	return Coord{X: v.X, Y: v.Y}
}

// Sub returns a - b component-wise.
func Sub(a, b Coord) Coord {
	return fromVec(r2.Sub(a.vec(), b.vec()))
}

// Length returns the Euclidean norm of v.
func Length(v Coord) float64 {
	return r2.Norm(v.vec())
}

// Dot returns the dot product of a and b.
func Dot(a, b Coord) float64 {
	return r2.Dot(a.vec(), b.vec())
}

func (c Coord) Sub(o Coord) Coord {
	return Sub(c, o)
}

func (c Coord) Add(o Coord) Coord {
	return fromVec(r2.Add(c.vec(), o.vec()))
}

func (c Coord) Scale(s float64) Coord {
	return fromVec(r2.Scale(s, c.vec()))
}

func (c Coord) Dot(o Coord) float64 {
	return Dot(c, o)
}

func (c Coord) Length() float64 {
	return Length(c)
}

func (c Coord) IsZero() bool {
	return c.X == 0 && c.Y == 0
}
