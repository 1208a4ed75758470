package saliency

import (
	"context"
	"image"
	"image/color"
	"testing"
)

// subjectImage paints a bright high-contrast block on a dark background.
func subjectImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{30, 30, 30, 255})
			}
		}
	}
	return img
}

func TestDetectFacesFindsSalientRegion(t *testing.T) {
	d := NewDetector()
	detections, err := d.DetectFaces(context.Background(), subjectImage(160, 160))
	if err != nil {
		t.Fatal(err)
	}
	if len(detections) == 0 {
		t.Fatal("expected at least one region on a high-contrast image")
	}
	for i, det := range detections {
		if det.BoundingBox == nil {
			t.Errorf("detection %d has no bounding box", i)
		}
		if det.Keypoints != nil {
			t.Errorf("detection %d should not invent keypoints", i)
		}
	}
	if len(detections) > DefaultConfig().MaxRegions {
		t.Errorf("emitted %d regions, cap is %d", len(detections), DefaultConfig().MaxRegions)
	}
}

func TestDetectFacesDeterministic(t *testing.T) {
	d := NewDetector()
	img := subjectImage(128, 96)

	first, err := d.DetectFaces(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.DetectFaces(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("non-deterministic region count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if *first[i].BoundingBox != *second[i].BoundingBox {
			t.Errorf("region %d differs between runs", i)
		}
	}
}

func TestDetectFacesCanceledContext(t *testing.T) {
	d := NewDetector()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.DetectFaces(ctx, subjectImage(64, 64)); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestOverlapSuppression(t *testing.T) {
	a := region{x: 0, y: 0, width: 100, height: 100}
	b := region{x: 10, y: 10, width: 100, height: 100}
	c := region{x: 200, y: 200, width: 50, height: 50}

	if got := a.overlapRatio(b); got < 0.5 {
		t.Errorf("heavily overlapping regions scored %v", got)
	}
	if got := a.overlapRatio(c); got != 0 {
		t.Errorf("disjoint regions scored %v, want 0", got)
	}
}
