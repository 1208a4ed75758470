// Package redactor anonymizes images by covering detected eye regions with
// opaque boxes.
//
// A face detector (pkg/ollama, pkg/cascade, pkg/saliency, or any
// detect.Detector) locates faces; the geometry engine places one redaction
// box per usable detection, aligned to the eye line when keypoints are
// available; the renderer composites the boxes over the original pixels;
// and the drag session lets the user reposition boxes before export. All
// pixel processing is local.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		redactor "face-redactor"
//		"face-redactor/pkg/processing"
//		"face-redactor/pkg/saliency"
//	)
//
//	func main() {
//		p := processing.NewProcessor()
//		img, err := p.LoadImage("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		r := redactor.New(saliency.NewDetector())
//		r.LoadImage(img)
//
//		status, err := r.Redact(context.Background())
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("%s", status)
//
//		if err := p.SaveImage(r.Snapshot(), "photo_redacted.jpg", "jpg", 90, false); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The Redactor owns all mutable state (detector handle, base image, box
// set, drag session) as one explicit struct; components stay pure or
// state-free and are testable in isolation.
package redactor

import (
	"context"
	"errors"
	"fmt"
	"image"

	"face-redactor/pkg/detect"
	"face-redactor/pkg/geometry"
	"face-redactor/pkg/render"
	"face-redactor/pkg/session"
)

// Version of the face redactor library
const Version = "1.0.0"

var (
	// ErrDetectorUnavailable means a detection pass was requested before
	// a detector was configured.
	ErrDetectorUnavailable = errors.New("face detector is not available")

	// ErrNoImage means a detection pass was requested before an image was
	// loaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrNoBoxes means the detector returned detections but none of them
	// carried keypoints or a bounding box, so no redaction boxes could be
	// placed. Distinct from the zero-detections case: it indicates
	// malformed detection data rather than "no faces".
	ErrNoBoxes = errors.New("detections yielded no redaction boxes")

	// ErrDetectionRunning means a gesture or detection request arrived
	// while a detection pass was still outstanding.
	ErrDetectionRunning = errors.New("detection pass in progress")
)

// Status is the user-facing outcome of a detection pass.
type Status int

const (
	// StatusRedacted means at least one box was placed and rendered.
	StatusRedacted Status = iota
	// StatusNoFaces means the detector found nothing; the box set is
	// cleared. Informational, not an error.
	StatusNoFaces
)

// String returns a short user-facing message.
func (s Status) String() string {
	switch s {
	case StatusRedacted:
		return "faces redacted"
	case StatusNoFaces:
		return "no faces found"
	default:
		return "unknown status"
	}
}

// Options controls optional redactor behavior.
type Options struct {
	// DebugOutlines strokes every box in a contrasting color. Render-only
	// aid; never affects hit-testing or the redaction fill.
	DebugOutlines bool
}

// Redactor is the application state for one image being redacted. Not safe
// for concurrent use: all methods are expected to run on a single logical
// thread of control (UI event handlers).
type Redactor struct {
	detector detect.Detector
	opts     Options

	base       image.Image
	surface    *render.Surface
	controller *session.Controller
	detections []detect.Detection

	detecting bool
}

// New creates a Redactor using the given detector. A nil detector is
// allowed; Redact then fails with ErrDetectorUnavailable.
func New(detector detect.Detector) *Redactor {
	return NewWithOptions(detector, Options{})
}

// NewWithOptions creates a Redactor with explicit options.
func NewWithOptions(detector detect.Detector, opts Options) *Redactor {
	return &Redactor{detector: detector, opts: opts}
}

// SetDebugOutlines toggles outline rendering and repaints immediately so
// the change is visible without another gesture.
func (r *Redactor) SetDebugOutlines(on bool) {
	r.opts.DebugOutlines = on
	r.repaint()
}

// LoadImage installs a new base image. Any previous boxes, detections, and
// drag state are discarded; the surface shows the unredacted image.
func (r *Redactor) LoadImage(img image.Image) {
	r.base = img
	r.surface = render.NewSurfaceFor(img)
	r.controller = session.NewController(float64(r.surface.Width()), float64(r.surface.Height()))
	r.controller.OnRepaint(r.repaint)
	r.detections = nil
	r.repaint()
}

// SetViewScale sets the client-to-surface coordinate conversion for gesture
// events: surface pixel dimensions divided by displayed dimensions.
func (r *Redactor) SetViewScale(scaleX, scaleY float64) {
	if r.controller != nil {
		r.controller.SetViewScale(scaleX, scaleY)
	}
}

// Redact runs one detection pass: detect faces, compute redaction boxes,
// replace the box set, repaint. On any failure the previous boxes and
// render are left intact. The box-set replacement is atomic from the
// caller's perspective and cancels any drag in progress.
func (r *Redactor) Redact(ctx context.Context) (Status, error) {
	if r.detecting {
		return 0, ErrDetectionRunning
	}
	if r.detector == nil {
		return 0, ErrDetectorUnavailable
	}
	if r.base == nil || r.surface == nil {
		return 0, ErrNoImage
	}

	r.detecting = true
	defer func() { r.detecting = false }()

	detections, err := r.detector.DetectFaces(ctx, r.base)
	if err != nil {
		return 0, fmt.Errorf("face detection failed: %w", err)
	}

	if len(detections) == 0 {
		r.detections = nil
		r.controller.ReplaceBoxes(nil)
		r.repaint()
		return StatusNoFaces, nil
	}

	boxes := geometry.Compute(detections, float64(r.surface.Width()), float64(r.surface.Height()))
	if len(boxes) == 0 {
		return 0, fmt.Errorf("%d detection(s): %w", len(detections), ErrNoBoxes)
	}

	r.detections = detections
	r.controller.ReplaceBoxes(boxes)
	r.repaint()
	return StatusRedacted, nil
}

// Boxes returns the current redaction boxes in z-order.
func (r *Redactor) Boxes() []geometry.Box {
	if r.controller == nil {
		return nil
	}
	return r.controller.Boxes()
}

// Detections returns the detections from the last successful pass.
func (r *Redactor) Detections() []detect.Detection { return r.detections }

// GestureStart begins a drag at a client-space point. Ignored while a
// detection pass is outstanding.
func (r *Redactor) GestureStart(x, y float64) {
	if r.detecting || r.controller == nil {
		return
	}
	r.controller.Start(session.Gesture{X: x, Y: y, Contacts: 1})
}

// GestureMove applies a drag movement. contacts is the number of active
// contact points; more than one is ignored.
func (r *Redactor) GestureMove(x, y float64, contacts int) {
	if r.detecting || r.controller == nil {
		return
	}
	r.controller.Move(session.Gesture{X: x, Y: y, Contacts: contacts})
}

// GestureEnd finishes a drag. Also used for cancel and pointer-leave.
func (r *Redactor) GestureEnd() {
	if r.controller == nil {
		return
	}
	r.controller.End()
}

// Dragging reports whether a box is currently held.
func (r *Redactor) Dragging() bool {
	return r.controller != nil && r.controller.Dragging()
}

// Snapshot returns a copy of the current surface pixels: the base image
// with every box composited at its current position. Safe input for any
// export path.
func (r *Redactor) Snapshot() *image.NRGBA {
	if r.surface == nil {
		return nil
	}
	return r.surface.Snapshot()
}

func (r *Redactor) repaint() {
	if r.surface == nil || r.base == nil {
		return
	}
	render.Render(r.surface, r.base, r.controller.Boxes(), render.Options{DebugOutlines: r.opts.DebugOutlines})
}
