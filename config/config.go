package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OutputType selects how beats become sound
type OutputType string

const (
	OutputSpeaker OutputType = "speaker"
	OutputMIDI    OutputType = "midi"
)

// MIDIConfig defines the MIDI output used when Output is "midi"
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"` // substring match, empty = first port
	Channel  int    `json:"channel,omitempty"`  // 1-16
	Kit      string `json:"kit,omitempty"`
	Velocity int    `json:"velocity,omitempty"` // 1-127
}

// Config is the main configuration structure
type Config struct {
	Tempo       int        `json:"tempo,omitempty"`
	Swing       float64    `json:"swing,omitempty"`
	CatalogPath string     `json:"catalogPath,omitempty"`
	SoundsDir   string     `json:"soundsDir,omitempty"`
	Output      OutputType `json:"output,omitempty"`
	Volume      float64    `json:"volume"` // speaker level 0-1
	MIDI        MIDIConfig `json:"midi,omitempty"`
	Active      []string   `json:"active,omitempty"`  // pattern names activated at launch
	Palette     string     `json:"palette,omitempty"` // GIMP .gpl file, empty = built-in
	Debug       bool       `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo:       80,
		Swing:       1.0,
		CatalogPath: "rhythms.json",
		SoundsDir:   "sounds",
		Palette:     "palettes/ritmo.gpl",
		Output:      OutputSpeaker,
		Volume:      1.0,
		MIDI: MIDIConfig{
			Channel:  10,
			Kit:      "gm",
			Velocity: 100,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-ritmo"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file; missing fields keep their defaults
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values that can't be used even after clamping
func (c *Config) Validate() error {
	switch c.Output {
	case OutputSpeaker, OutputMIDI:
	case "":
		c.Output = OutputSpeaker
	default:
		return fmt.Errorf("unknown output %q (want speaker or midi)", c.Output)
	}
	if c.MIDI.Channel < 0 || c.MIDI.Channel > 16 {
		return fmt.Errorf("midi channel %d out of range 1-16", c.MIDI.Channel)
	}
	if c.MIDI.Velocity < 0 || c.MIDI.Velocity > 127 {
		return fmt.Errorf("midi velocity %d out of range 1-127", c.MIDI.Velocity)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume %.2f out of range 0-1", c.Volume)
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path
func (c *Config) SaveTo(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// IsActive reports whether a pattern should be activated at launch
func (c *Config) IsActive(name string) bool {
	for _, n := range c.Active {
		if n == name {
			return true
		}
	}
	return false
}
