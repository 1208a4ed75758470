// Package saliency implements a dependency-free fallback detector. It has
// no notion of faces: it proposes high-contrast regions as candidate
// subjects and emits them as bounding-box-only detections. Useful offline
// when neither a vision model nor OpenCV is available, and as a
// deterministic backend for exercising the pipeline.
package saliency

import (
	"context"
	"image"
	"math"

	"face-redactor/pkg/detect"
)

// Config tunes region proposal.
type Config struct {
	EdgeThreshold  float64 // minimum mean saliency for a window to qualify
	ContrastWeight float64
	ColorWeight    float64
	MinRegionRatio float64 // minimum region area relative to the image
	MaxRegions     int     // cap on emitted detections
	OverlapLimit   float64 // proposals overlapping an accepted region more than this are dropped
}

// DefaultConfig returns the tuning used by the CLI.
func DefaultConfig() Config {
	return Config{
		EdgeThreshold:  0.01,
		ContrastWeight: 0.3,
		ColorWeight:    0.2,
		MinRegionRatio: 0.01,
		MaxRegions:     8,
		OverlapLimit:   0.3,
	}
}

// Detector proposes salient regions. Implements detect.Detector.
type Detector struct {
	config Config
}

// NewDetector creates a detector with default tuning.
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// NewDetectorWithConfig creates a detector with custom tuning.
func NewDetectorWithConfig(config Config) *Detector {
	return &Detector{config: config}
}

// region is a scored rectangular proposal in pixel coordinates.
type region struct {
	x, y, width, height int
	score               float64
}

func (r region) area() int { return r.width * r.height }

// overlapRatio returns the intersection area relative to the smaller of the
// two regions.
func (r region) overlapRatio(o region) float64 {
	x0 := maxInt(r.x, o.x)
	y0 := maxInt(r.y, o.y)
	x1 := minInt(r.x+r.width, o.x+o.width)
	y1 := minInt(r.y+r.height, o.y+o.height)
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	smaller := minInt(r.area(), o.area())
	if smaller == 0 {
		return 0
	}
	return float64((x1-x0)*(y1-y0)) / float64(smaller)
}

// DetectFaces proposes salient regions as detections, highest score first.
func (d *Detector) DetectFaces(ctx context.Context, img image.Image) ([]detect.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	saliencyMap := d.saliencyMap(img)
	proposals := d.proposeRegions(saliencyMap, width, height)
	regions := d.selectRegions(proposals, width, height)

	detections := make([]detect.Detection, 0, len(regions))
	for _, r := range regions {
		detections = append(detections, detect.Detection{
			BoundingBox: &detect.BoundingBox{
				OriginX: float64(r.x),
				OriginY: float64(r.y),
				Width:   float64(r.width),
				Height:  float64(r.height),
			},
		})
	}
	return detections, nil
}

// saliencyMap combines edge strength and brightness per pixel.
func (d *Detector) saliencyMap(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	saliency := make([][]float64, height)
	for i := range saliency {
		saliency[i] = make([]float64, width)
	}

	neighbors := [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			r1, g1, b1, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()

			var edgeStrength float64
			for _, offset := range neighbors {
				nx, ny := x+offset[0], y+offset[1]
				r2, g2, b2, _ := img.At(nx+bounds.Min.X, ny+bounds.Min.Y).RGBA()

				dr := float64(r1) - float64(r2)
				dg := float64(g1) - float64(g2)
				db := float64(b1) - float64(b2)
				edgeStrength += math.Sqrt(dr*dr + dg*dg + db*db)
			}
			edgeStrength /= 8.0 * 65535.0

			brightness := (float64(r1) + float64(g1) + float64(b1)) / (3.0 * 65535.0)
			saliency[y][x] = d.config.ContrastWeight*edgeStrength + d.config.ColorWeight*brightness
		}
	}
	return saliency
}

// proposeRegions slides square windows of several sizes over the saliency
// map and keeps every window scoring above the threshold.
func (d *Detector) proposeRegions(saliency [][]float64, width, height int) []region {
	var proposals []region

	windowSizes := []int{width / 16, width / 8, width / 4}
	for _, size := range windowSizes {
		if size < 8 {
			continue
		}
		step := size / 4
		if step < 1 {
			step = 1
		}
		for y := 0; y <= height-size; y += step {
			for x := 0; x <= width-size; x += step {
				score := windowScore(saliency, x, y, size)
				if score > d.config.EdgeThreshold {
					proposals = append(proposals, region{x: x, y: y, width: size, height: size, score: score})
				}
			}
		}
	}
	return proposals
}

func windowScore(saliency [][]float64, x, y, size int) float64 {
	var total float64
	count := 0
	for ry := y; ry < y+size && ry < len(saliency); ry++ {
		for rx := x; rx < x+size && rx < len(saliency[0]); rx++ {
			total += saliency[ry][rx]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// selectRegions filters proposals by minimum area, sorts by score, and
// greedily keeps the best non-overlapping ones up to MaxRegions.
func (d *Detector) selectRegions(proposals []region, width, height int) []region {
	minArea := int(float64(width*height) * d.config.MinRegionRatio)

	var candidates []region
	for _, r := range proposals {
		if r.area() >= minArea {
			candidates = append(candidates, r)
		}
	}

	for i := 0; i < len(candidates)-1; i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[i].score < candidates[j].score {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}

	var selected []region
	for _, c := range candidates {
		if len(selected) >= d.config.MaxRegions {
			break
		}
		conflict := false
		for _, s := range selected {
			if c.overlapRatio(s) > d.config.OverlapLimit {
				conflict = true
				break
			}
		}
		if !conflict {
			selected = append(selected, c)
		}
	}
	return selected
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
