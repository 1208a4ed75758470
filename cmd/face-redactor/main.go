package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	redactor "face-redactor"
	"face-redactor/internal/config"
	"face-redactor/internal/utils"
	"face-redactor/pkg/cascade"
	"face-redactor/pkg/detect"
	"face-redactor/pkg/geometry"
	"face-redactor/pkg/ollama"
	"face-redactor/pkg/processing"
	"face-redactor/pkg/saliency"
)

// nudge moves the redaction box at index by (dx, dy) surface pixels after
// detection, replayed through the drag session so clamping applies.
type nudge struct {
	index  int
	dx, dy float64
}

type nudgeList []nudge

func (n *nudgeList) String() string {
	parts := make([]string, len(*n))
	for i, v := range *n {
		parts[i] = fmt.Sprintf("%d:%g,%g", v.index, v.dx, v.dy)
	}
	return strings.Join(parts, " ")
}

func (n *nudgeList) Set(s string) error {
	idxPart, deltaPart, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("nudge %q: want INDEX:DX,DY", s)
	}
	dxPart, dyPart, ok := strings.Cut(deltaPart, ",")
	if !ok {
		return fmt.Errorf("nudge %q: want INDEX:DX,DY", s)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(idxPart))
	if err != nil {
		return fmt.Errorf("nudge %q: bad index: %v", s, err)
	}
	dx, err := strconv.ParseFloat(strings.TrimSpace(dxPart), 64)
	if err != nil {
		return fmt.Errorf("nudge %q: bad dx: %v", s, err)
	}
	dy, err := strconv.ParseFloat(strings.TrimSpace(dyPart), 64)
	if err != nil {
		return fmt.Errorf("nudge %q: bad dy: %v", s, err)
	}
	*n = append(*n, nudge{index: idx, dx: dx, dy: dy})
	return nil
}

func main() {
	// .env is optional; environment wins over config file values below.
	_ = godotenv.Load()

	var in, outDir, configPath string
	var backend, model, url, cascadeFile, ext string
	var quality int
	var lossless, debug bool
	var sendFmt string
	var sendSize, sendQ int
	var nudges nudgeList

	flag.StringVar(&in, "in", "", "input image path or URL (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "", "output directory")
	flag.StringVar(&configPath, "config", "", "config file path (defaults to ~/.config/face-redactor/config.json if present)")

	flag.StringVar(&backend, "backend", "", "detector backend: ollama | cascade | saliency")
	flag.StringVar(&model, "model", "", "vision model name (ollama backend)")
	flag.StringVar(&url, "url", "", "ollama server URL")
	flag.StringVar(&cascadeFile, "cascade", "", "Haar cascade XML file (cascade backend)")

	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless output")
	flag.BoolVar(&debug, "debug", false, "stroke box outlines in the output")

	flag.StringVar(&sendFmt, "sendfmt", "", "format sent to the vision model: jpg|png")
	flag.IntVar(&sendSize, "sendsize", 0, "max long side sent to the vision model (px), 0=original")
	flag.IntVar(&sendQ, "sendq", 0, "JPEG quality for the model payload (1-100)")

	flag.Var(&nudges, "nudge", "move box INDEX by DX,DY pixels (repeatable), e.g. -nudge 0:15,-10")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.jpg|URL [-backend ollama|cascade|saliency] [-out outdir] [-debug] [-nudge 0:15,-10]", filepath.Base(os.Args[0]))
	}

	cfg := loadConfig(configPath)
	applyFlagOverrides(cfg, backend, model, url, cascadeFile, ext, sendFmt, quality, sendSize, sendQ, outDir, lossless, debug)
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	detector, err := buildDetector(cfg)
	if err != nil {
		log.Fatalf("failed to create %s detector: %v", cfg.Detector.Backend, err)
	}

	processor := processing.NewProcessor()
	img, err := processor.LoadImageSmart(in)
	if err != nil {
		log.Fatal(err)
	}
	if err := processor.ValidateImage(img); err != nil {
		log.Fatal(err)
	}

	r := redactor.NewWithOptions(detector, redactor.Options{DebugOutlines: cfg.Render.DebugOutlines})
	r.LoadImage(img)

	status, err := r.Redact(context.Background())
	if err != nil {
		log.Fatalf("redaction failed: %v", err)
	}
	log.Printf("%s (%d box(es))", status, len(r.Boxes()))

	applyNudges(r, nudges)

	if err := utils.EnsureDir(cfg.Output.Dir); err != nil {
		log.Fatal(err)
	}
	outPath := utils.GenerateOutputFilename(in, cfg.Output.Dir, cfg.Output.Suffix, cfg.Output.Format)
	if err := processor.SaveImage(r.Snapshot(), outPath, cfg.Output.Format, cfg.Output.Quality, cfg.Output.Lossless); err != nil {
		log.Fatalf("save failed: %v", err)
	}
	log.Printf("wrote %s", outPath)
}

func loadConfig(path string) *config.Config {
	if path == "" {
		if def := config.GetConfigPath(); utils.FileExists(def) {
			path = def
		}
	}
	if path == "" {
		return config.Default()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cfg *config.Config, backend, model, url, cascadeFile, ext, sendFmt string, quality, sendSize, sendQ int, outDir string, lossless, debug bool) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["backend"] {
		cfg.Detector.Backend = backend
	}
	if set["model"] {
		cfg.Detector.Model = model
	}
	if set["url"] {
		cfg.Detector.URL = url
	}
	if set["cascade"] {
		cfg.Detector.CascadeFile = cascadeFile
	}
	if set["sendfmt"] {
		cfg.Detector.SendFormat = sendFmt
	}
	if set["sendsize"] {
		cfg.Detector.SendMaxDim = sendSize
	}
	if set["sendq"] {
		cfg.Detector.SendQuality = sendQ
	}
	if set["ext"] {
		cfg.Output.Format = ext
	}
	if set["quality"] {
		cfg.Output.Quality = quality
	}
	if set["lossless"] {
		cfg.Output.Lossless = lossless
	}
	if set["out"] {
		cfg.Output.Dir = outDir
	}
	if set["debug"] {
		cfg.Render.DebugOutlines = debug
	}
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("FACE_REDACTOR_URL"); v != "" {
		cfg.Detector.URL = v
	}
	if v := os.Getenv("FACE_REDACTOR_MODEL"); v != "" {
		cfg.Detector.Model = v
	}
	if v := os.Getenv("FACE_REDACTOR_CASCADE"); v != "" {
		cfg.Detector.CascadeFile = v
	}
}

func buildDetector(cfg *config.Config) (detect.Detector, error) {
	switch cfg.Detector.Backend {
	case "ollama":
		return ollama.NewDetector(cfg.Detector.URL, ollama.Config{
			Model:       cfg.Detector.Model,
			SendFormat:  cfg.Detector.SendFormat,
			SendMaxDim:  cfg.Detector.SendMaxDim,
			SendQuality: cfg.Detector.SendQuality,
		})
	case "cascade":
		return cascade.NewDetector(cfg.Detector.CascadeFile), nil
	case "saliency":
		return saliency.NewDetector(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Detector.Backend)
	}
}

// applyNudges replays each requested move as a drag gesture: grab the box
// at a point inside it, move by the delta, release. Clamping applies the
// same way it would for an interactive drag.
func applyNudges(r *redactor.Redactor, nudges nudgeList) {
	boxes := r.Boxes()
	for _, n := range nudges {
		if n.index < 0 || n.index >= len(boxes) {
			log.Printf("nudge: no box with index %d (have %d), skipped", n.index, len(boxes))
			continue
		}
		grab := grabPoint(boxes[n.index])
		if geometry.BoxAt(grab, boxes) != boxes[n.index] {
			// Another box sits on top of the grab point.
			log.Printf("nudge: box %d is covered at its grab point, skipped", n.index)
			continue
		}
		r.GestureStart(grab.X, grab.Y)
		r.GestureMove(grab.X+n.dx, grab.Y+n.dy, 1)
		r.GestureEnd()
	}
}

// grabPoint returns a point guaranteed to lie inside the box: the center.
func grabPoint(b geometry.Box) geometry.Point {
	a := b.Anchor()
	if sb, ok := b.(*geometry.StandardBox); ok {
		return geometry.Point{X: a.X + sb.Width/2, Y: a.Y + sb.Height/2}
	}
	return a // rotated boxes are anchored at the center
}
