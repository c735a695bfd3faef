package valueobjects

import "fmt"

// Point is a sheet-local coordinate or offset
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by the delta d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the delta from o to p
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Size is a width/height pair
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a size, rejecting negative dimensions
func NewSize(width, height float64) (Size, error) {
	if width < 0 || height < 0 {
		return Size{}, fmt.Errorf("size cannot be negative: %vx%v", width, height)
	}
	return Size{Width: width, Height: height}, nil
}

// Viewport is the per-sheet pan/zoom state. It is never restored by undo/redo.
type Viewport struct {
	Pan   Point   `json:"pan"`
	Scale float64 `json:"scale"`
}

// DefaultViewport returns an unpanned viewport at 100% zoom
func DefaultViewport() Viewport {
	return Viewport{Scale: 1}
}

// NormalizeRotation folds degrees into [0, 360)
func NormalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
