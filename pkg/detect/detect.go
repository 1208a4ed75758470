// Package detect defines the face detection contract consumed by the
// redaction pipeline. Detector implementations live in their own packages
// (pkg/ollama, pkg/cascade, pkg/saliency); this package only carries the
// shared data model and interface.
package detect

import (
	"context"
	"image"
)

// Keypoint indices in a detection's keypoint list, viewer's perspective.
const (
	IndexRightEye = 0
	IndexLeftEye  = 1
)

// BoundingBox is an axis-aligned face rectangle in surface pixel coordinates.
type BoundingBox struct {
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Keypoint is a facial landmark. Coordinates are pointers because detector
// backends may omit either axis; values are either normalized to [0,1] or
// already in pixel units depending on the backend.
type Keypoint struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// Detection is one located face. Both fields are optional: a backend may
// supply a bounding box, eye keypoints, or both. A detection carrying
// neither yields no redaction box.
type Detection struct {
	BoundingBox *BoundingBox `json:"boundingBox,omitempty"`
	Keypoints   []Keypoint   `json:"keypoints,omitempty"`
}

// HasKeypoints reports whether the detection carries usable eye keypoints
// (both eye entries present with an x coordinate).
func (d Detection) HasKeypoints() bool {
	if len(d.Keypoints) < 2 {
		return false
	}
	return d.Keypoints[IndexRightEye].X != nil && d.Keypoints[IndexLeftEye].X != nil
}

// Detector locates faces in an image.
type Detector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]Detection, error)
}
