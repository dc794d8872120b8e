// Package config loads and validates the track PID tuning configuration.
//
// Configuration is a JSON file with every field optional; the Get* methods
// supply the canonical defaults for anything the file omits, so partial
// configs are safe. Validation failures are fatal at load time: a bad
// threshold combination must never surface as per-track NaNs downstream.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfig marks configuration errors detected at load time.
var ErrConfig = errors.New("invalid configuration")

// Config represents the root tuning configuration for the track PID
// pipeline. Pointer-typed fields distinguish "not set" from zero values.
type Config struct {
	// Feature extraction params
	MinTrackPoints *int     `json:"min_track_points,omitempty"` // reject tracks below this many dE/dx points
	DedxLength     *int     `json:"dedx_length,omitempty"`      // fixed network input length
	MaxCharge      *float64 `json:"max_charge,omitempty"`       // dE/dx clamp ceiling
	MaxChargeJump  *float64 `json:"max_charge_jump,omitempty"`  // point-to-point jump threshold

	// Inference params
	ModelURL     *string `json:"model_url,omitempty"`     // model server endpoint
	ModelName    *string `json:"model_name,omitempty"`    // model identifier sent with each request
	BatchWorkers *int    `json:"batch_workers,omitempty"` // concurrent tracks in batch mode

	// Persistence params
	DatabasePath *string `json:"database_path,omitempty"` // sqlite file for result records
}

// Empty returns a Config with all fields unset.
// Use Load to read actual values from a JSON file.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The path must have a .json
// extension and the file must be under 1MB. Fields omitted from the file
// retain their defaults via the Get* methods.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("%w: config file must have .json extension, got %q", ErrConfig, ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: config file too large: %d bytes (max %d)", ErrConfig, fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration values are internally consistent.
// The dE/dx window constraints guarantee the statistics sub-window is
// non-empty and in range for every accepted track, so the feature assembler
// never divides by zero.
func (c *Config) Validate() error {
	minPoints := c.GetMinTrackPoints()
	dedxLen := c.GetDedxLength()

	if minPoints < 3 {
		return fmt.Errorf("%w: min_track_points must be at least 3, got %d", ErrConfig, minPoints)
	}
	if dedxLen < minPoints {
		return fmt.Errorf("%w: dedx_length (%d) must be >= min_track_points (%d)", ErrConfig, dedxLen, minPoints)
	}

	// The statistics window is (dedx_length - min_track_points)/3 points
	// read from near the track end; it must be non-empty and fit twice
	// inside the shortest accepted track.
	window := (dedxLen - minPoints) / 3
	if window < 1 {
		return fmt.Errorf("%w: dedx window is empty: dedx_length (%d) too close to min_track_points (%d)", ErrConfig, dedxLen, minPoints)
	}
	if minPoints < 2*window {
		return fmt.Errorf("%w: min_track_points (%d) too small for dedx window of %d points", ErrConfig, minPoints, window)
	}

	if c.GetMaxCharge() <= 0 {
		return fmt.Errorf("%w: max_charge must be positive, got %f", ErrConfig, c.GetMaxCharge())
	}
	if c.GetMaxChargeJump() <= 0 {
		return fmt.Errorf("%w: max_charge_jump must be positive, got %f", ErrConfig, c.GetMaxChargeJump())
	}
	if c.GetBatchWorkers() < 1 {
		return fmt.Errorf("%w: batch_workers must be at least 1, got %d", ErrConfig, c.GetBatchWorkers())
	}
	return nil
}

// GetMinTrackPoints returns the min_track_points value or the default.
func (c *Config) GetMinTrackPoints() int {
	if c.MinTrackPoints == nil {
		return 50
	}
	return *c.MinTrackPoints
}

// GetDedxLength returns the dedx_length value or the default.
func (c *Config) GetDedxLength() int {
	if c.DedxLength == nil {
		return 100
	}
	return *c.DedxLength
}

// GetMaxCharge returns the max_charge value or the default.
func (c *Config) GetMaxCharge() float64 {
	if c.MaxCharge == nil {
		return 1000
	}
	return *c.MaxCharge
}

// GetMaxChargeJump returns the max_charge_jump value or the default.
func (c *Config) GetMaxChargeJump() float64 {
	if c.MaxChargeJump == nil {
		return 500
	}
	return *c.MaxChargeJump
}

// GetModelURL returns the model_url value or the default local endpoint.
func (c *Config) GetModelURL() string {
	if c.ModelURL == nil || *c.ModelURL == "" {
		return "http://localhost:8501/v1/models/trackpid:predict"
	}
	return *c.ModelURL
}

// GetModelName returns the model_name value or the default.
func (c *Config) GetModelName() string {
	if c.ModelName == nil || *c.ModelName == "" {
		return "ctp-v1"
	}
	return *c.ModelName
}

// GetBatchWorkers returns the batch_workers value or the default.
func (c *Config) GetBatchWorkers() int {
	if c.BatchWorkers == nil {
		return 4
	}
	return *c.BatchWorkers
}

// GetDatabasePath returns the database_path value or the default.
func (c *Config) GetDatabasePath() string {
	if c.DatabasePath == nil || *c.DatabasePath == "" {
		return "trackpid.db"
	}
	return *c.DatabasePath
}
