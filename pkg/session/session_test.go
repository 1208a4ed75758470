package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"face-redactor/pkg/geometry"
)

func newTestController(boxes ...geometry.Box) *Controller {
	c := NewController(640, 480)
	c.ReplaceBoxes(boxes)
	return c
}

func TestDragMovesBox(t *testing.T) {
	b := &geometry.StandardBox{X: 100, Y: 100, Width: 50, Height: 30}
	c := newTestController(b)

	repaints := 0
	c.OnRepaint(func() { repaints++ })

	c.Start(Gesture{X: 110, Y: 105, Contacts: 1})
	require.True(t, c.Dragging())

	c.Move(Gesture{X: 130, Y: 125, Contacts: 1})
	assert.Equal(t, geometry.Point{X: 120, Y: 120}, b.Anchor(), "box should move by the pointer delta")
	assert.Equal(t, 1, repaints)

	c.End()
	assert.False(t, c.Dragging())
}

func TestDragRoundTrip(t *testing.T) {
	// Moving by a delta and back returns the anchor exactly, as long as
	// clamping never engages.
	b := &geometry.RotatedBox{CenterX: 300, CenterY: 200, Width: 80, Height: 20, Angle: 0.5}
	c := newTestController(b)

	start := b.Anchor()
	c.Start(Gesture{X: 300, Y: 200, Contacts: 1})
	c.Move(Gesture{X: 340, Y: 230, Contacts: 1})
	c.Move(Gesture{X: 300, Y: 200, Contacts: 1})
	c.End()

	assert.Equal(t, start, b.Anchor())
}

func TestDragOffsetPreserved(t *testing.T) {
	// Grabbing a box away from its anchor must not snap the anchor to the
	// pointer.
	b := &geometry.StandardBox{X: 100, Y: 100, Width: 50, Height: 30}
	c := newTestController(b)

	c.Start(Gesture{X: 140, Y: 120, Contacts: 1}) // near the right edge of the box
	c.Move(Gesture{X: 141, Y: 121, Contacts: 1})

	assert.Equal(t, geometry.Point{X: 101, Y: 101}, b.Anchor())
}

func TestStartOnEmptySpaceStaysIdle(t *testing.T) {
	b := &geometry.StandardBox{X: 100, Y: 100, Width: 50, Height: 30}
	c := newTestController(b)

	c.Start(Gesture{X: 10, Y: 10, Contacts: 1})
	assert.False(t, c.Dragging())

	// Moves while idle leave the box alone.
	c.Move(Gesture{X: 300, Y: 300, Contacts: 1})
	assert.Equal(t, geometry.Point{X: 100, Y: 100}, b.Anchor())
}

func TestEmptyBoxSetIgnoresGestures(t *testing.T) {
	c := newTestController()
	repaints := 0
	c.OnRepaint(func() { repaints++ })

	c.Start(Gesture{X: 10, Y: 10, Contacts: 1})
	c.Move(Gesture{X: 20, Y: 20, Contacts: 1})
	c.End()

	assert.False(t, c.Dragging())
	assert.Zero(t, repaints)
}

func TestMultiTouchMoveIgnored(t *testing.T) {
	b := &geometry.StandardBox{X: 100, Y: 100, Width: 50, Height: 30}
	c := newTestController(b)

	c.Start(Gesture{X: 110, Y: 110, Contacts: 1})
	c.Move(Gesture{X: 200, Y: 200, Contacts: 2})

	assert.Equal(t, geometry.Point{X: 100, Y: 100}, b.Anchor(), "second finger must not drag")

	// The drag itself stays alive; a single-contact move still applies.
	c.Move(Gesture{X: 120, Y: 115, Contacts: 1})
	assert.Equal(t, geometry.Point{X: 110, Y: 105}, b.Anchor())
}

func TestDragClampsToCanvas(t *testing.T) {
	b := &geometry.StandardBox{X: 10, Y: 10, Width: 50, Height: 30}
	c := newTestController(b)

	c.Start(Gesture{X: 20, Y: 20, Contacts: 1})
	c.Move(Gesture{X: -500, Y: 5000, Contacts: 1})

	assert.Equal(t, geometry.Point{X: 0, Y: 450}, b.Anchor())
}

func TestRotatedDragClampsCenterByHalfDiagonal(t *testing.T) {
	b := &geometry.RotatedBox{CenterX: 300, CenterY: 200, Width: 60, Height: 80, Angle: 1.0}
	c := newTestController(b)
	half := b.HalfDiagonal()

	c.Start(Gesture{X: 300, Y: 200, Contacts: 1})
	c.Move(Gesture{X: 0, Y: 0, Contacts: 1})

	assert.Equal(t, geometry.Point{X: half, Y: half}, b.Anchor())
}

func TestTopmostBoxGrabbed(t *testing.T) {
	bottom := &geometry.StandardBox{X: 50, Y: 50, Width: 100, Height: 100}
	top := &geometry.StandardBox{X: 100, Y: 100, Width: 100, Height: 100}
	c := newTestController(bottom, top)

	c.Start(Gesture{X: 120, Y: 120, Contacts: 1})
	c.Move(Gesture{X: 125, Y: 125, Contacts: 1})

	assert.Equal(t, geometry.Point{X: 105, Y: 105}, top.Anchor(), "topmost box should move")
	assert.Equal(t, geometry.Point{X: 50, Y: 50}, bottom.Anchor(), "bottom box should stay")
}

func TestReplaceBoxesCancelsDrag(t *testing.T) {
	b := &geometry.StandardBox{X: 100, Y: 100, Width: 50, Height: 30}
	c := newTestController(b)

	c.Start(Gesture{X: 110, Y: 110, Contacts: 1})
	require.True(t, c.Dragging())

	replacement := &geometry.StandardBox{X: 0, Y: 0, Width: 10, Height: 10}
	c.ReplaceBoxes([]geometry.Box{replacement})

	assert.False(t, c.Dragging(), "a new detection pass invalidates the held box")
	c.Move(Gesture{X: 300, Y: 300, Contacts: 1})
	assert.Equal(t, geometry.Point{X: 100, Y: 100}, b.Anchor(), "stale box must not move")
}

func TestViewScaleConversion(t *testing.T) {
	// Surface is 640x480 shown at 320x240: scale factor 2 on both axes.
	b := &geometry.StandardBox{X: 200, Y: 200, Width: 50, Height: 30}
	c := newTestController(b)
	c.SetViewScale(2, 2)

	c.Start(Gesture{X: 110, Y: 105, Contacts: 1}) // surface point (220, 210)
	require.True(t, c.Dragging())

	c.Move(Gesture{X: 115, Y: 110, Contacts: 1}) // surface point (230, 220)
	assert.Equal(t, geometry.Point{X: 210, Y: 210}, b.Anchor())
}
