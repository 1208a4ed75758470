// Package geometry implements the redaction-box engine: computing box
// placement from face detections, hit-testing against axis-aligned and
// rotated rectangles, and keeping boxes inside the canvas while they are
// dragged.
package geometry

import "math"

// Point is a position in surface pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Box is one redaction region. Two variants exist: StandardBox is
// axis-aligned and anchored at its top-left corner; RotatedBox follows the
// eye line and is anchored at its center. The anchor is the only mutable
// part of a box - size, angle, and variant are fixed at creation.
type Box interface {
	// Anchor returns the box position: top-left for StandardBox, center
	// for RotatedBox.
	Anchor() Point

	// SetAnchor moves the box. Callers are expected to follow up with
	// ClampTo before the next repaint.
	SetAnchor(p Point)

	// Size returns the box extents in pixels.
	Size() (width, height float64)

	// Contains reports whether p lies inside the box.
	Contains(p Point) bool

	// ClampTo constrains the anchor so the box stays within the canvas.
	ClampTo(canvasWidth, canvasHeight float64)
}

// StandardBox is an axis-aligned redaction rectangle. X, Y is the top-left
// corner.
type StandardBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Anchor returns the top-left corner.
func (b *StandardBox) Anchor() Point { return Point{b.X, b.Y} }

// SetAnchor moves the top-left corner.
func (b *StandardBox) SetAnchor(p Point) { b.X, b.Y = p.X, p.Y }

// Size returns the box extents.
func (b *StandardBox) Size() (float64, float64) { return b.Width, b.Height }

// Contains reports whether p lies inside the rectangle, edges included.
func (b *StandardBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// ClampTo keeps the full rectangle within [0,canvasWidth] x [0,canvasHeight].
func (b *StandardBox) ClampTo(canvasWidth, canvasHeight float64) {
	b.X = clamp(b.X, 0, canvasWidth-b.Width)
	b.Y = clamp(b.Y, 0, canvasHeight-b.Height)
}

// RotatedBox is a redaction rectangle rotated about its center. CenterX,
// CenterY is the center point; Angle is in radians, positive
// counter-clockwise in screen convention (matching math.Atan2 on screen
// deltas).
type RotatedBox struct {
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
	Angle   float64
}

// Anchor returns the center point.
func (b *RotatedBox) Anchor() Point { return Point{b.CenterX, b.CenterY} }

// SetAnchor moves the center point.
func (b *RotatedBox) SetAnchor(p Point) { b.CenterX, b.CenterY = p.X, p.Y }

// Size returns the box extents.
func (b *RotatedBox) Size() (float64, float64) { return b.Width, b.Height }

// Contains transforms p into the box's local frame (translate by -center,
// rotate by -Angle) and tests against the unrotated extents.
func (b *RotatedBox) Contains(p Point) bool {
	lx, ly := b.toLocal(p)
	return math.Abs(lx) <= b.Width/2 && math.Abs(ly) <= b.Height/2
}

// ClampTo keeps the center at least half a diagonal away from every canvas
// edge. This is a conservative bound: no rotation of the rectangle can
// exceed the canvas, but the center cannot approach the edge as closely as
// a rotation-aware bound would allow.
func (b *RotatedBox) ClampTo(canvasWidth, canvasHeight float64) {
	half := b.HalfDiagonal()
	b.CenterX = clamp(b.CenterX, half, canvasWidth-half)
	b.CenterY = clamp(b.CenterY, half, canvasHeight-half)
}

// HalfDiagonal returns half the length of the rectangle's diagonal.
func (b *RotatedBox) HalfDiagonal() float64 {
	return math.Hypot(b.Width, b.Height) / 2
}

// Corners returns the four corners of the rotated rectangle in screen
// coordinates, in local-frame order: top-left, top-right, bottom-right,
// bottom-left.
func (b *RotatedBox) Corners() [4]Point {
	hw, hh := b.Width/2, b.Height/2
	sin, cos := math.Sincos(b.Angle)
	local := [4]Point{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}

	var out [4]Point
	for i, p := range local {
		out[i] = Point{
			X: b.CenterX + p.X*cos - p.Y*sin,
			Y: b.CenterY + p.X*sin + p.Y*cos,
		}
	}
	return out
}

func (b *RotatedBox) toLocal(p Point) (float64, float64) {
	dx := p.X - b.CenterX
	dy := p.Y - b.CenterY
	sin, cos := math.Sincos(-b.Angle)
	return dx*cos - dy*sin, dx*sin + dy*cos
}

// clamp restricts v to [lo, hi]. When the box is larger than the canvas
// the range degenerates (hi < lo); the low bound wins so repeated clamping
// stays a fixed point instead of oscillating between the two bounds.
func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
