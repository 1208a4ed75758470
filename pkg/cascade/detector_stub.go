//go:build !gocv
// +build !gocv

// Package cascade implements a fully local face detector using an OpenCV
// Haar cascade. Builds without the gocv tag get a stub that reports the
// backend as unavailable.
package cascade

import (
	"context"
	"errors"
	"image"

	"face-redactor/pkg/detect"
)

// Detector is the stub used when the binary is built without the gocv tag.
type Detector struct {
	cascadeFile string
}

// NewDetector creates the stub detector.
func NewDetector(cascadeFile string) *Detector {
	return &Detector{cascadeFile: cascadeFile}
}

// DetectFaces always fails: the backend is not compiled in.
func (d *Detector) DetectFaces(ctx context.Context, img image.Image) ([]detect.Detection, error) {
	_ = ctx
	_ = img
	return nil, errors.New("cascade backend requires a build with the gocv tag")
}
