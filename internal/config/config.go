package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Viewer Viewer `json:"viewer"`
	Output Output `json:"output"`
}

// Viewer holds the default viewing direction applied when the CLI is
// not given explicit angles
type Viewer struct {
	Angle  int `json:"angle"`
	VAngle int `json:"v_angle"`
}

// Output holds configuration for saving transform results
type Output struct {
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
	Lossless  bool   `json:"lossless"`
	Dir       string `json:"dir"`
	HashNames bool   `json:"hash_names"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Viewer: Viewer{
			Angle:  0,
			VAngle: 90,
		},
		Output: Output{
			Format:    "jpg",
			Quality:   90,
			Lossless:  false,
			Dir:       "./out",
			HashNames: false,
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
	if c.Viewer.VAngle < 0 || c.Viewer.VAngle > 180 {
		return fmt.Errorf("viewer.v_angle must be between 0 and 180")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch c.Output.Format {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be one of jpg, jpeg, png, webp")
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir cannot be empty")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "pano-optimizer", "config.json")
}
