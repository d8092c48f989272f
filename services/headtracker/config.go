package headtracker

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/headcast-ar/headcast/rimage"
	"github.com/headcast-ar/headcast/rimage/transform"
	"github.com/headcast-ar/headcast/utils"
)

// Config describes how a Tracker throttles frames, how many heads it follows and how it maps
// detection confidence to marker color.
type Config struct {
	UpdateInterval string                 `json:"update_interval"`
	MaxMarkers     int                    `json:"max_markers"`
	MinConfidence  float64                `json:"min_confidence"`
	MaxConfidence  float64                `json:"max_confidence"`
	DepthOffset    float64                `json:"depth_offset"`
	Alignment      rimage.AlignmentConfig `json:"alignment"`
}

// DefaultConfig returns the configuration used when a field is left out.
func DefaultConfig() Config {
	return Config{
		UpdateInterval: "300ms",
		MaxMarkers:     1,
		MinConfidence:  0.6,
		MaxConfidence:  1.0,
		DepthOffset:    transform.DefaultDepthOffset,
		Alignment:      rimage.DefaultAlignmentConfig(),
	}
}

// NewConfigFromJSON parses a config, keeping defaults for any field the document leaves out.
// Comments and trailing commas are allowed.
func NewConfigFromJSON(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing tracker config")
	}
	return &cfg, nil
}

// NewConfigFromJSONFile reads and parses a config file.
func NewConfigFromJSONFile(path string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading tracker config %q", path)
	}
	return NewConfigFromJSON(data)
}

// Interval returns the parsed update interval.
func (cfg *Config) Interval() (time.Duration, error) {
	return time.ParseDuration(cfg.UpdateInterval)
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.UpdateInterval == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "update_interval")
	}
	interval, err := cfg.Interval()
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if interval < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("update_interval must not be negative, got %v", interval))
	}
	if cfg.MaxMarkers <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("max_markers must be positive, got %d", cfg.MaxMarkers))
	}
	if cfg.MaxConfidence <= cfg.MinConfidence {
		return utils.NewConfigValidationError(path,
			errors.Errorf("max_confidence (%v) must be greater than min_confidence (%v)", cfg.MaxConfidence, cfg.MinConfidence))
	}
	if cfg.DepthOffset < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("depth_offset must not be negative, got %v", cfg.DepthOffset))
	}
	return cfg.Alignment.Validate(path + ".alignment")
}
