package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"face-redactor/pkg/geometry"
)

// Options controls optional render behavior. DebugOutlines strokes every
// box in a contrasting color as a visual aid; it never affects hit-testing
// or the opaque fill itself.
type Options struct {
	DebugOutlines bool
}

var (
	fillColor    = color.NRGBA{0, 0, 0, 255}   // opaque black, the point of the exercise
	outlineColor = color.NRGBA{0, 255, 0, 255} // debug outlines
)

// Render repaints the full base image onto the surface, then composites the
// boxes in slice order so later boxes draw on top of earlier ones, matching
// hit-test priority.
func Render(s *Surface, base image.Image, boxes []geometry.Box, opts Options) {
	dst := s.Image()
	draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)

	for _, box := range boxes {
		switch b := box.(type) {
		case *geometry.StandardBox:
			fillRect(dst, b)
			if opts.DebugOutlines {
				strokeRect(dst, b)
			}
		case *geometry.RotatedBox:
			fillRotated(dst, b)
			if opts.DebugOutlines {
				strokeRotated(dst, b)
			}
		}
	}
}

// fillRect fills an axis-aligned box scanline by scanline.
func fillRect(img *image.NRGBA, b *geometry.StandardBox) {
	x0 := int(math.Floor(b.X))
	y0 := int(math.Floor(b.Y))
	x1 := int(math.Ceil(b.X + b.Width))
	y1 := int(math.Ceil(b.Y + b.Height))
	for y := y0; y < y1; y++ {
		drawHLine(img, y, x0, x1, fillColor)
	}
}

func strokeRect(img *image.NRGBA, b *geometry.StandardBox) {
	x0 := int(math.Floor(b.X))
	y0 := int(math.Floor(b.Y))
	x1 := int(math.Ceil(b.X + b.Width))
	y1 := int(math.Ceil(b.Y + b.Height))
	drawHLine(img, y0, x0, x1, outlineColor)
	drawHLine(img, y1-1, x0, x1, outlineColor)
	drawVLine(img, x0, y0, y1, outlineColor)
	drawVLine(img, x1-1, y0, y1, outlineColor)
}

// fillRotated rasterizes the rotated rectangle by walking its axis-aligned
// screen bounds and testing each pixel against the box's local frame - the
// same inverse transform hit-testing uses, so fill and hit area agree.
func fillRotated(img *image.NRGBA, b *geometry.RotatedBox) {
	corners := b.Corners()
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}

	bounds := img.Bounds()
	x0 := maxInt(int(math.Floor(minX)), bounds.Min.X)
	y0 := maxInt(int(math.Floor(minY)), bounds.Min.Y)
	x1 := minInt(int(math.Ceil(maxX))+1, bounds.Max.X)
	y1 := minInt(int(math.Ceil(maxY))+1, bounds.Max.Y)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if b.Contains(geometry.Point{X: float64(x), Y: float64(y)}) {
				setPixel(img, x, y, fillColor)
			}
		}
	}
}

func strokeRotated(img *image.NRGBA, b *geometry.RotatedBox) {
	corners := b.Corners()
	for i := range corners {
		next := corners[(i+1)%len(corners)]
		drawLine(img, corners[i], next, outlineColor)
	}
}

// drawLine draws a straight segment by uniform stepping, one sample per
// pixel of the longer axis.
func drawLine(img *image.NRGBA, from, to geometry.Point, c color.NRGBA) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		setPixel(img, int(math.Round(from.X)), int(math.Round(from.Y)), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		setPixel(img, int(math.Round(from.X+dx*t)), int(math.Round(from.Y+dy*t)), c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < img.Bounds().Min.Y || y >= img.Bounds().Max.Y {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = maxInt(x0, img.Bounds().Min.X)
	x1 = minInt(x1, img.Bounds().Max.X)
	if x0 >= x1 {
		return
	}
	i := img.PixOffset(x0, y)
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < img.Bounds().Min.X || x >= img.Bounds().Max.X {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = maxInt(y0, img.Bounds().Min.Y)
	y1 = minInt(y1, img.Bounds().Max.Y)
	if y0 >= y1 {
		return
	}
	i := img.PixOffset(x, y0)
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}

func setPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{x, y}).In(img.Bounds()) {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
