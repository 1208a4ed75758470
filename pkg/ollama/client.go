// Package ollama implements a face detector backed by an Ollama vision
// model. The model is prompted for JSON face detections (bounding boxes and
// eye keypoints); the response is sanitized and parsed into the shared
// detection type.
package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"face-redactor/pkg/detect"
	"face-redactor/pkg/processing"
)

// FacePrompt asks the vision model for face locations in strict JSON.
const FacePrompt = `You are a face locator for an image anonymization tool.

Return JSON only:
{
  "detections": [
    {
      "boundingBox": {"originX": 0.0, "originY": 0.0, "width": 0.0, "height": 0.0},
      "keypoints": [{"x": 0.0, "y": 0.0}, {"x": 0.0, "y": 0.0}]
    }
  ]
}

HARD RULES
- One entry per visible human face, in reading order.
- All coordinates are normalized to [0,1] (NOT pixels).
- keypoints[0] is the right eye (viewer's perspective), keypoints[1] the left eye.
- If you cannot place the eyes, omit "keypoints" and give only "boundingBox".
- If there are no faces, return {"detections": []}.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// Config controls the detector backend.
type Config struct {
	Model       string
	SendFormat  string // payload format: jpg or png
	SendMaxDim  int    // max long side of the payload, 0 = original
	SendQuality int    // JPEG quality of the payload
}

// DefaultConfig returns sensible defaults for local Ollama.
func DefaultConfig() Config {
	return Config{
		Model:       "openbmb/minicpm-v4.5",
		SendFormat:  "jpg",
		SendMaxDim:  1536,
		SendQuality: 85,
	}
}

// Detector locates faces via an Ollama vision model. Implements
// detect.Detector.
type Detector struct {
	client    *api.Client
	processor *processing.Processor
	config    Config
}

// NewDetector creates a detector talking to the given Ollama URL.
func NewDetector(ollamaURL string, config Config) (*Detector, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Base URL only; the SDK appends its own paths.
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &Detector{
		client:    api.NewClient(baseURL, http.DefaultClient),
		processor: processing.NewProcessor(),
		config:    config,
	}, nil
}

// DetectFaces sends the image to the vision model and parses the returned
// detections. Keypoint and box coordinates come back normalized; the
// geometry layer resolves them against the canvas.
func (d *Detector) DetectFaces(ctx context.Context, img image.Image) ([]detect.Detection, error) {
	// Add a timeout if the context doesn't carry one; vision models on
	// CPU can be slow.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	imgB64, err := d.processor.PrepareImageForModel(img, d.config.SendFormat, d.config.SendMaxDim, d.config.SendQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image payload: %w", err)
	}
	imgBytes, err := base64.StdEncoding.DecodeString(imgB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %v", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: d.config.Model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: FacePrompt,
				Images:  []api.ImageData{api.ImageData(imgBytes)},
			},
		},
		Stream: &streamFalse,
	}

	var responseContent string
	err = d.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %v", err)
	}
	if responseContent == "" {
		return nil, fmt.Errorf("empty response from ollama")
	}

	detections, err := parseDetections(responseContent)
	if err != nil {
		return nil, err
	}

	// Bounding boxes arrive normalized; convert to pixel units here since
	// the detection contract states boxes in surface pixels.
	b := img.Bounds()
	scaleBoundingBoxes(detections, float64(b.Dx()), float64(b.Dy()))
	return detections, nil
}

// detectionList is the wire format the prompt requests.
type detectionList struct {
	Detections []detect.Detection `json:"detections"`
}

// parseDetections parses the model's JSON response, tolerating fences,
// comments, and trailing commas.
func parseDetections(raw string) ([]detect.Detection, error) {
	raw = sanitizeModelJSON(raw)
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return nil, fmt.Errorf("model returned non-JSON response")
	}

	var list detectionList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		// Conservative brace-slice retry
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no valid JSON in model response")
		}
		if err2 := json.Unmarshal([]byte(raw[start:end+1]), &list); err2 != nil {
			return nil, fmt.Errorf("failed to parse model response: %v", err2)
		}
	}
	return list.Detections, nil
}

// scaleBoundingBoxes converts normalized bounding boxes to pixel units.
// Values > 1 are assumed to be pixels already and left alone.
func scaleBoundingBoxes(detections []detect.Detection, width, height float64) {
	for _, d := range detections {
		bb := d.BoundingBox
		if bb == nil {
			continue
		}
		if bb.OriginX > 1 || bb.OriginY > 1 || bb.Width > 1 || bb.Height > 1 {
			continue
		}
		bb.OriginX *= width
		bb.OriginY *= height
		bb.Width *= width
		bb.Height *= height
	}
}

// sanitizeModelJSON removes code fences, comments, and trailing commas from
// a model response.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	// Remove /* ... */ block comments
	reBlock := regexp.MustCompile(`(?s)/\*.*?\*/`)
	raw = reBlock.ReplaceAllString(raw, "")

	// Remove // line/inline comments
	reLine := regexp.MustCompile(`(?m)^\s*//.*$`)
	raw = reLine.ReplaceAllString(raw, "")
	reInline := regexp.MustCompile(`(?m)//.*$`)
	raw = reInline.ReplaceAllString(raw, "")

	// Remove trailing commas before } or ]
	reTrailing := regexp.MustCompile(`,(\s*[}\]])`)
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
