// Package session tracks the interactive editing state of a redaction
// session: the current box set and the pointer/touch drag in progress. All
// methods are synchronous and expected to run on a single logical thread of
// control (gesture event handlers); the package does no locking.
package session

import (
	"face-redactor/pkg/geometry"
)

// Gesture is one pointer or touch event in client coordinates. Contacts is
// the number of simultaneously active contact points; pointer events carry
// 1, multi-finger touch events more.
type Gesture struct {
	X        float64
	Y        float64
	Contacts int
}

// Controller is the per-session drag state machine. It is either idle (no
// box held) or dragging exactly one box; additional concurrent touches are
// ignored. Positions are clamped to the canvas after every move, and a
// repaint callback fires after each applied movement.
type Controller struct {
	canvasWidth  float64
	canvasHeight float64
	scaleX       float64
	scaleY       float64

	boxes      []geometry.Box
	dragged    geometry.Box
	dragOffset geometry.Point

	repaint func()
}

// NewController creates an idle controller for a canvas of the given pixel
// dimensions. The view scale defaults to 1:1 (client coordinates are
// surface coordinates).
func NewController(canvasWidth, canvasHeight float64) *Controller {
	return &Controller{
		canvasWidth:  canvasWidth,
		canvasHeight: canvasHeight,
		scaleX:       1,
		scaleY:       1,
	}
}

// SetViewScale sets the client-to-surface conversion factors: surface pixel
// dimensions divided by the displayed dimensions. Both must be positive.
func (c *Controller) SetViewScale(scaleX, scaleY float64) {
	if scaleX > 0 {
		c.scaleX = scaleX
	}
	if scaleY > 0 {
		c.scaleY = scaleY
	}
}

// OnRepaint registers the callback fired after every applied drag movement.
func (c *Controller) OnRepaint(fn func()) { c.repaint = fn }

// ReplaceBoxes atomically swaps in the result of a new detection pass. Any
// drag in progress is canceled: the held reference belongs to the previous
// box set and must not survive the replacement.
func (c *Controller) ReplaceBoxes(boxes []geometry.Box) {
	c.boxes = boxes
	c.dragged = nil
}

// Boxes returns the current box set in z-order (last on top).
func (c *Controller) Boxes() []geometry.Box { return c.boxes }

// Dragging reports whether a box is currently held.
func (c *Controller) Dragging() bool { return c.dragged != nil }

// Start begins a gesture. If a box lies under the start point, the
// controller enters the dragging state and records the offset between the
// point and the box anchor, so the box does not jump to the cursor. With no
// boxes present the event is ignored entirely.
func (c *Controller) Start(g Gesture) {
	if len(c.boxes) == 0 {
		return
	}
	p := c.toSurface(g)
	box := geometry.BoxAt(p, c.boxes)
	if box == nil {
		return
	}
	c.dragged = box
	a := box.Anchor()
	c.dragOffset = geometry.Point{X: p.X - a.X, Y: p.Y - a.Y}
}

// Move applies a gesture movement to the held box: reposition by the
// recorded offset, clamp to the canvas, repaint. No-op when idle, when no
// boxes exist, or when more than one contact point is active.
func (c *Controller) Move(g Gesture) {
	if len(c.boxes) == 0 || c.dragged == nil {
		return
	}
	if g.Contacts > 1 {
		return
	}
	p := c.toSurface(g)
	c.dragged.SetAnchor(geometry.Point{X: p.X - c.dragOffset.X, Y: p.Y - c.dragOffset.Y})
	c.dragged.ClampTo(c.canvasWidth, c.canvasHeight)
	if c.repaint != nil {
		c.repaint()
	}
}

// End finishes the gesture and releases the held box. Also used for
// gesture-cancel and for the pointer leaving the interactive surface.
func (c *Controller) End() { c.dragged = nil }

func (c *Controller) toSurface(g Gesture) geometry.Point {
	return geometry.Point{X: g.X * c.scaleX, Y: g.Y * c.scaleY}
}
