// Package render draws the base image and the current redaction boxes onto
// a pixel surface. The surface after a render is the exportable result: the
// original pixels with every box composited on top in z-order.
package render

import (
	"image"

	"github.com/disintegration/imaging"
)

// Surface is a 2D drawable pixel buffer with known integer dimensions. It
// supports full-buffer snapshot and restore, so external export can read a
// consistent copy at any time after a render.
type Surface struct {
	img *image.NRGBA
}

// NewSurface creates an empty surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// NewSurfaceFor creates a surface matching the dimensions of img.
func NewSurfaceFor(img image.Image) *Surface {
	b := img.Bounds()
	return NewSurface(b.Dx(), b.Dy())
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Image exposes the backing buffer. The buffer is mutated by Render; callers
// that need a stable copy should use Snapshot.
func (s *Surface) Image() *image.NRGBA { return s.img }

// Snapshot returns a copy of the current pixel contents.
func (s *Surface) Snapshot() *image.NRGBA {
	return imaging.Clone(s.img)
}

// Restore overwrites the surface with a previously taken snapshot.
func (s *Surface) Restore(snapshot image.Image) {
	s.img = imaging.Clone(snapshot)
}
