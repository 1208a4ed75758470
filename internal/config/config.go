package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Detector DetectorConfig `json:"detector"`
	Render   RenderConfig   `json:"render"`
	Output   OutputConfig   `json:"output"`
}

// DetectorConfig selects and tunes the face detection backend
type DetectorConfig struct {
	Backend     string `json:"backend"` // ollama | cascade | saliency
	Model       string `json:"model"`
	URL         string `json:"url"`
	CascadeFile string `json:"cascade_file"`
	SendFormat  string `json:"send_format"`
	SendMaxDim  int    `json:"send_max_dim"`
	SendQuality int    `json:"send_quality"`
}

// RenderConfig holds rendering options
type RenderConfig struct {
	DebugOutlines bool `json:"debug_outlines"`
}

// OutputConfig holds configuration for exported images
type OutputConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	Dir      string `json:"dir"`
	Suffix   string `json:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Detector: DetectorConfig{
			Backend:     "saliency",
			Model:       "openbmb/minicpm-v4.5",
			URL:         "http://localhost:11434",
			CascadeFile: "haarcascade_frontalface_default.xml",
			SendFormat:  "jpg",
			SendMaxDim:  1536,
			SendQuality: 85,
		},
		Render: RenderConfig{
			DebugOutlines: false,
		},
		Output: OutputConfig{
			Format:   "jpg",
			Quality:  90,
			Lossless: false,
			Dir:      "./out",
			Suffix:   "_redacted",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Detector.Backend {
	case "ollama", "cascade", "saliency":
	default:
		return fmt.Errorf("detector.backend must be ollama, cascade, or saliency")
	}

	if c.Detector.Backend == "ollama" && c.Detector.Model == "" {
		return fmt.Errorf("detector.model is required for the ollama backend")
	}

	if c.Detector.Backend == "cascade" && c.Detector.CascadeFile == "" {
		return fmt.Errorf("detector.cascade_file is required for the cascade backend")
	}

	if c.Detector.SendQuality < 1 || c.Detector.SendQuality > 100 {
		return fmt.Errorf("detector.send_quality must be between 1 and 100")
	}

	switch c.Output.Format {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be jpg, png, or webp")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "face-redactor", "config.json")
}
