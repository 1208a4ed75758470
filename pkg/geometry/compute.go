package geometry

import (
	"math"

	"face-redactor/pkg/detect"
)

// Placement multipliers, chosen empirically so the strip covers the eye
// region across head rotations.
const (
	eyeWidthFactor  = 2.5 // box width as a multiple of the eye distance
	eyeHeightFactor = 0.5 // box height as a multiple of the eye distance

	faceEyeLine     = 0.3 // eye line sits at 30% of the face height
	faceStripWidth  = 0.8 // strip spans 80% of the face width
	faceSideMargin  = 0.1 // centered, so 10% margin each side
	faceStripHeight = 0.2 // strip height is 20% of the face height
)

// Keypoint coordinates below this magnitude are assumed to be normalized to
// [0,1] rather than pixel units. This is a heuristic, not a format flag
// from the detector: a pixel coordinate < 2 (a face touching the left or
// top edge of a large image) would be misread as normalized. Kept as-is
// until the detection contract states the coordinate space explicitly.
const normalizedCoordMax = 2.0

// Compute derives one redaction box per usable detection, in detection
// order. Detections with eye keypoints yield a RotatedBox aligned to the
// eye line; detections with only a bounding box yield a StandardBox over an
// estimated eye strip; detections with neither are dropped. Pure function:
// identical input always yields an identical box list.
func Compute(detections []detect.Detection, canvasWidth, canvasHeight float64) []Box {
	boxes := make([]Box, 0, len(detections))
	for _, d := range detections {
		if b, ok := eyeLineBox(d, canvasWidth, canvasHeight); ok {
			boxes = append(boxes, b)
			continue
		}
		if b, ok := faceStripBox(d); ok {
			boxes = append(boxes, b)
		}
	}
	return boxes
}

// eyeLineBox builds a rotated box from the two eye keypoints. It requires
// both eye entries to carry an x coordinate; otherwise the caller falls
// back to the bounding box.
func eyeLineBox(d detect.Detection, canvasWidth, canvasHeight float64) (Box, bool) {
	if !d.HasKeypoints() {
		return nil, false
	}
	right := d.Keypoints[detect.IndexRightEye]
	left := d.Keypoints[detect.IndexLeftEye]

	rx := toPixels(*right.X, canvasWidth)
	ry := toPixels(deref(right.Y), canvasHeight)
	lx := toPixels(*left.X, canvasWidth)
	ly := toPixels(deref(left.Y), canvasHeight)

	dx := lx - rx
	dy := ly - ry
	distance := math.Hypot(dx, dy)

	return &RotatedBox{
		CenterX: (rx + lx) / 2,
		CenterY: (ry + ly) / 2,
		Width:   distance * eyeWidthFactor,
		Height:  distance * eyeHeightFactor,
		Angle:   math.Atan2(dy, dx),
	}, true
}

// faceStripBox estimates the eye strip from a face bounding box alone: the
// eye line sits at 30% of the face height, and the strip spans 80% of the
// face width.
func faceStripBox(d detect.Detection) (Box, bool) {
	bb := d.BoundingBox
	if bb == nil {
		return nil, false
	}
	stripHeight := bb.Height * faceStripHeight
	eyeY := bb.OriginY + bb.Height*faceEyeLine

	return &StandardBox{
		X:      bb.OriginX + bb.Width*faceSideMargin,
		Y:      eyeY - stripHeight/2,
		Width:  bb.Width * faceStripWidth,
		Height: stripHeight,
	}, true
}

// toPixels resolves the normalized-vs-pixel ambiguity of a keypoint
// coordinate against the canvas extent. See normalizedCoordMax.
func toPixels(v, extent float64) float64 {
	if v < normalizedCoordMax {
		return v * extent
	}
	return v
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
