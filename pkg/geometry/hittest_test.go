package geometry

import (
	"math"
	"testing"
)

func TestBoxAtTopmostWins(t *testing.T) {
	bottom := &StandardBox{X: 0, Y: 0, Width: 100, Height: 100}
	top := &StandardBox{X: 50, Y: 50, Width: 100, Height: 100}
	boxes := []Box{bottom, top}

	if got := BoxAt(Point{75, 75}, boxes); got != Box(top) {
		t.Errorf("overlap hit = %v, want the later (topmost) box", got)
	}
	if got := BoxAt(Point{10, 10}, boxes); got != Box(bottom) {
		t.Errorf("non-overlap hit = %v, want the bottom box", got)
	}
}

func TestBoxAtMiss(t *testing.T) {
	boxes := []Box{&StandardBox{X: 0, Y: 0, Width: 10, Height: 10}}
	if got := BoxAt(Point{500, 500}, boxes); got != nil {
		t.Errorf("expected nil for a miss, got %v", got)
	}
	if got := BoxAt(Point{5, 5}, nil); got != nil {
		t.Errorf("expected nil for an empty box set, got %v", got)
	}
}

func TestBoxAtRotated(t *testing.T) {
	// A thin strip rotated 45 degrees: a point on the strip's axis hits,
	// a point at the same distance off-axis (inside the axis-aligned
	// bounding box of the strip) misses.
	b := &RotatedBox{CenterX: 100, CenterY: 100, Width: 100, Height: 10, Angle: math.Pi / 4}
	boxes := []Box{b}

	onAxis := Point{100 + 30*math.Cos(math.Pi/4), 100 + 30*math.Sin(math.Pi/4)}
	if BoxAt(onAxis, boxes) == nil {
		t.Errorf("point on the rotated axis should hit")
	}

	offAxis := Point{100 + 30, 100 - 30}
	if BoxAt(offAxis, boxes) != nil {
		t.Errorf("point off the rotated axis should miss")
	}
}

func TestBoxAtMixedVariants(t *testing.T) {
	standard := &StandardBox{X: 60, Y: 60, Width: 80, Height: 80}
	rotated := &RotatedBox{CenterX: 100, CenterY: 100, Width: 60, Height: 20, Angle: 0.4}
	boxes := []Box{standard, rotated}

	// The rotated box sits on top where they overlap.
	if got := BoxAt(Point{100, 100}, boxes); got != Box(rotated) {
		t.Errorf("hit = %T, want the rotated box on top", got)
	}
	// Inside the standard box but outside the rotated strip.
	if got := BoxAt(Point{65, 130}, boxes); got != Box(standard) {
		t.Errorf("hit = %T, want the standard box", got)
	}
}
