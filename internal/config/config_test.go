package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Detector.Backend = "tarot" }},
		{"ollama without model", func(c *Config) { c.Detector.Backend = "ollama"; c.Detector.Model = "" }},
		{"cascade without file", func(c *Config) { c.Detector.Backend = "cascade"; c.Detector.CascadeFile = "" }},
		{"quality out of range", func(c *Config) { c.Output.Quality = 0 }},
		{"unknown output format", func(c *Config) { c.Output.Format = "bmp" }},
	}
	for _, tc := range tests {
		c := Default()
		tc.mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	c := Default()
	c.Detector.Backend = "ollama"
	c.Render.DebugOutlines = true
	if err := c.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Detector.Backend != "ollama" || !loaded.Render.DebugOutlines {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
