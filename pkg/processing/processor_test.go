package processing

import (
	"encoding/base64"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	return img
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	p := NewProcessor()
	dir := t.TempDir()

	for _, format := range []string{"png", "jpg", "webp"} {
		path := filepath.Join(dir, "out."+format)
		if err := p.SaveImage(testImage(64, 48), path, format, 90, false); err != nil {
			t.Fatalf("save %s: %v", format, err)
		}

		img, err := p.LoadImage(path)
		if err != nil {
			t.Fatalf("load %s: %v", format, err)
		}
		if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
			t.Errorf("%s: loaded %dx%d, want 64x48", format, img.Bounds().Dx(), img.Bounds().Dy())
		}
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	p := NewProcessor()
	if _, err := p.LoadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadImageGarbage(t *testing.T) {
	p := NewProcessor()
	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.LoadImage(path); err == nil {
		t.Error("expected an error for non-image data")
	}
}

func TestValidateImage(t *testing.T) {
	p := NewProcessor()
	if err := p.ValidateImage(testImage(64, 64)); err != nil {
		t.Errorf("64x64 should validate: %v", err)
	}
	if err := p.ValidateImage(testImage(10, 10)); err == nil {
		t.Error("10x10 should be rejected as too small")
	}
}

func TestPrepareImageForModel(t *testing.T) {
	p := NewProcessor()

	b64, err := p.PrepareImageForModel(testImage(400, 200), "jpg", 100, 85)
	if err != nil {
		t.Fatal(err)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}

	img, err := p.decodeImageFromBytes(data)
	if err != nil {
		t.Fatalf("payload does not decode as an image: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Errorf("long side = %d, want downscaled to 100", img.Bounds().Dx())
	}
}

func TestLoadImageSmartRejectsBadScheme(t *testing.T) {
	p := NewProcessor()
	if _, err := p.LoadImageFromURL("ftp://example.com/a.png"); err == nil {
		t.Error("expected an error for an unsupported URL scheme")
	}
}
