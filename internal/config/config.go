package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

// ErrInvalid is returned when a configuration value is out of range
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration
type Config struct {
	Matrix   MatrixConfig
	Data     DataConfig
	Rotation RotationConfig
	Layout   Layout
	Preview  PreviewConfig
	Journal  JournalConfig
	MQTT     MQTTConfig
}

// MatrixConfig represents the configuration for the LED panel
type MatrixConfig struct {
	Width      int
	Height     int
	Brightness int
	Chip       string
	Pins       PinConfig
}

// PinConfig maps HUB75 signals to GPIO line offsets. The defaults match the
// Adafruit RGB Matrix Bonnet.
type PinConfig struct {
	R1, G1, B1    int
	R2, G2, B2    int
	CLK, OE, LAT  int
	A, B, C, D, E int
}

// DataConfig represents the configuration of the remote data source
type DataConfig struct {
	BaseURL        string
	UpdateInterval time.Duration
	Timeout        time.Duration
	Parallelism    int
}

// RotationConfig lists the boards shown, in cycle order
type RotationConfig struct {
	Boards []string
}

// PreviewConfig represents the configuration of the HTTP frame preview
type PreviewConfig struct {
	Listen string
	Scale  int
}

// JournalConfig represents the configuration of the refresh journal
type JournalConfig struct {
	Path string
}

// MQTTConfig represents the configuration of the MQTT status publisher
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
}

// Default returns the default configuration for a 64x32 panel
func Default() *Config {
	return &Config{
		Matrix: MatrixConfig{
			Width:      64,
			Height:     32,
			Brightness: 60,
			Chip:       "gpiochip0",
			Pins: PinConfig{
				R1: 5, G1: 13, B1: 6,
				R2: 12, G2: 16, B2: 23,
				CLK: 17, OE: 4, LAT: 21,
				A: 22, B: 26, C: 27, D: 20, E: 24,
			},
		},
		Data: DataConfig{
			BaseURL:        "https://api.jolpi.ca/ergast/f1",
			UpdateInterval: 5 * time.Minute,
			Timeout:        10 * time.Second,
			Parallelism:    2,
		},
		Rotation: RotationConfig{
			Boards: []string{"drivers", "constructors", "qualifying", "next-race"},
		},
		Layout: DefaultLayout(),
		Preview: PreviewConfig{
			Scale: 8,
		},
		MQTT: MQTTConfig{
			ClientID: "f1-led",
			Topic:    "f1led",
		},
	}
}

// Load loads the configuration from a TOML file. A missing file is not an
// error: the defaults are returned instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, fc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the renderer or the panel
// cannot work with
func (c *Config) Validate() error {
	if c.Matrix.Width <= 0 || c.Matrix.Height <= 0 {
		return fmt.Errorf("%w: matrix dimensions %dx%d", ErrInvalid, c.Matrix.Width, c.Matrix.Height)
	}
	if c.Matrix.Brightness < 0 || c.Matrix.Brightness > 100 {
		return fmt.Errorf("%w: brightness must be between 0 and 100", ErrInvalid)
	}
	if c.Data.UpdateInterval <= 0 {
		return fmt.Errorf("%w: update interval must be positive", ErrInvalid)
	}
	if c.Data.Parallelism <= 0 {
		return fmt.Errorf("%w: parallelism must be positive", ErrInvalid)
	}
	if len(c.Rotation.Boards) == 0 {
		return fmt.Errorf("%w: no boards in rotation", ErrInvalid)
	}
	return c.Layout.validate()
}
