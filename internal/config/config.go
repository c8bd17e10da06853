// Package config loads server settings from the environment.
//
// Values are read from PROVINCE_MCP_* variables after an optional .env file
// has been merged into the environment. Variables already set in the process
// environment win over the .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
	"github.com/ironsheep/province-tools-mcp/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel          = "PROVINCE_MCP_LOG_LEVEL"
	EnvLogFormat         = "PROVINCE_MCP_LOG_FORMAT"
	EnvConnectivity      = "PROVINCE_MCP_CONNECTIVITY"
	EnvMergeConnectivity = "PROVINCE_MCP_MERGE_CONNECTIVITY"
	EnvMinShapeSize      = "PROVINCE_MCP_MIN_SHAPE_SIZE"
	EnvMaxShapeRatio     = "PROVINCE_MCP_MAX_SHAPE_RATIO"
	EnvBorderColor       = "PROVINCE_MCP_BORDER_COLOR"
	EnvOutputStages      = "PROVINCE_MCP_OUTPUT_STAGES"
	EnvSnapshotMaxSide   = "PROVINCE_MCP_SNAPSHOT_MAX_SIDE"
)

// Config holds the server settings.
type Config struct {
	LogLevel  string
	LogFormat string

	Connectivity detection.Connectivity

	// MergeConnectivity is the BorderMerger neighbourhood. Zero follows
	// Connectivity.
	MergeConnectivity detection.Connectivity

	MinShapeSize  int
	MaxShapeRatio int

	// BorderColor is nil when border-line absorption is disabled.
	BorderColor *detection.Color

	// OutputStagesDir receives labels1.png and labels2.png debug snapshots.
	// Empty disables stage output.
	OutputStagesDir string

	// SnapshotMaxSide downscales snapshots larger than this. Zero keeps
	// full size.
	SnapshotMaxSide int
}

// Default returns the settings used when no variable is set.
func Default() *Config {
	d := detection.DefaultOptions()
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Connectivity:  d.Connectivity,
		MinShapeSize:  d.MinShapeSize,
		MaxShapeRatio: d.MaxShapeRatio,
	}
}

// Load merges envFile into the environment, if it exists, and reads the
// configuration from it. An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv reads the configuration through getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
		if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
			return nil, fmt.Errorf("%s: want text or json, got %q", EnvLogFormat, v)
		}
	}

	var err error
	if cfg.Connectivity, err = connectivity(getenv, EnvConnectivity, cfg.Connectivity); err != nil {
		return nil, err
	}
	if cfg.MergeConnectivity, err = connectivity(getenv, EnvMergeConnectivity, cfg.MergeConnectivity); err != nil {
		return nil, err
	}

	if cfg.MinShapeSize, err = nonNegative(getenv, EnvMinShapeSize, cfg.MinShapeSize); err != nil {
		return nil, err
	}
	if cfg.MaxShapeRatio, err = nonNegative(getenv, EnvMaxShapeRatio, cfg.MaxShapeRatio); err != nil {
		return nil, err
	}
	if cfg.SnapshotMaxSide, err = nonNegative(getenv, EnvSnapshotMaxSide, cfg.SnapshotMaxSide); err != nil {
		return nil, err
	}

	if v := getenv(EnvBorderColor); v != "" {
		c, err := imaging.ParseHexColor(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvBorderColor, err)
		}
		cfg.BorderColor = &c
	}

	cfg.OutputStagesDir = strings.TrimSpace(getenv(EnvOutputStages))
	return cfg, nil
}

func connectivity(getenv func(string) string, key string, def detection.Connectivity) (detection.Connectivity, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	conn, err := detection.ParseConnectivity(n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return conn, nil
}

func nonNegative(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %d", key, n)
	}
	return n, nil
}

// FinderOptions converts the configuration into detection options. The
// worker is left unset; callers attach one per run when OutputStagesDir is
// set.
func (c *Config) FinderOptions(log *slog.Logger) detection.Options {
	opts := detection.Options{
		Connectivity:      c.Connectivity,
		MergeConnectivity: c.MergeConnectivity,
		MinShapeSize:      c.MinShapeSize,
		MaxShapeRatio:     c.MaxShapeRatio,
		OutputStages:      c.OutputStagesDir != "",
		Logger:            log,
	}
	if c.BorderColor != nil {
		bc := *c.BorderColor
		opts.BorderColor = &bc
	}
	return opts
}
