//go:build gocv
// +build gocv

// Package cascade implements a fully local face detector using an OpenCV
// Haar cascade. Builds without the gocv tag get a stub that reports the
// backend as unavailable.
package cascade

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"gocv.io/x/gocv"

	"face-redactor/pkg/detect"
)

// Detector locates faces with an OpenCV Haar cascade classifier. It emits
// bounding-box-only detections; eye keypoints are not part of the cascade
// output, so downstream box placement uses the face-strip estimate.
type Detector struct {
	cascadeFile string
}

// NewDetector creates a detector reading the cascade description from the
// given XML file (e.g. haarcascade_frontalface_default.xml).
func NewDetector(cascadeFile string) *Detector {
	return &Detector{cascadeFile: cascadeFile}
}

// DetectFaces runs the cascade over the image and returns one detection per
// face rectangle, in classifier order.
func (d *Detector) DetectFaces(ctx context.Context, img image.Image) ([]detect.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	classifier := gocv.NewCascadeClassifier()
	defer classifier.Close()
	if !classifier.Load(d.cascadeFile) {
		return nil, fmt.Errorf("failed to load cascade file %q", d.cascadeFile)
	}

	rects := classifier.DetectMultiScale(mat)
	detections := make([]detect.Detection, 0, len(rects))
	for _, r := range rects {
		detections = append(detections, detect.Detection{
			BoundingBox: &detect.BoundingBox{
				OriginX: float64(r.Min.X),
				OriginY: float64(r.Min.Y),
				Width:   float64(r.Dx()),
				Height:  float64(r.Dy()),
			},
		})
	}
	return detections, nil
}

func toMat(img image.Image) (gocv.Mat, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to encode image: %w", err)
	}
	mat, err := gocv.IMDecode(buf.Bytes(), gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to decode image into mat: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("empty image")
	}
	return mat, nil
}
