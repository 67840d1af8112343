package game

import "math"

// Vec is a position or velocity in world units (tile-relative, not pixels).
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Len returns the vector magnitude.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Vec) float64 {
	return a.Sub(b).Len()
}

// Body is the kinematic state owned by every dynamic object.
type Body struct {
	Pos    Vec
	Vel    Vec
	Radius float64 // Hit circle radius used for contact tests
}

// Kinematics exposes the body to the combat resolver.
func (b *Body) Kinematics() *Body {
	return b
}

// Integrate advances the position by one tick of velocity.
func (b *Body) Integrate() {
	b.Pos = b.Pos.Add(b.Vel)
}

// Touching reports whether the hit circles of two bodies overlap.
func Touching(a, b *Body) bool {
	return Distance(a.Pos, b.Pos) < a.Radius+b.Radius
}
