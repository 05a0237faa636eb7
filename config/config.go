// Package config loads canvas settings from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath, when set, overrides the path passed to Load.
const EnvConfigPath = "DRAWQ_CONFIG"

// Config is the on-disk canvas configuration.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Frame     FrameConfig     `toml:"frame"`
	Fonts     FontsConfig     `toml:"fonts"`
	Resources ResourcesConfig `toml:"resources"`
}

// WindowConfig describes the output window the backend should open.
type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// FrameConfig controls the frame driver.
type FrameConfig struct {
	// RateLimit caps updates per second; 0 disables the cap.
	RateLimit int `toml:"rate_limit"`
}

// FontsConfig controls font loading.
type FontsConfig struct {
	// Dir is where font names are looked up first.
	Dir string `toml:"dir"`
	// Default is the file name of the mandatory default font.
	Default string `toml:"default"`
	// Size is the point size the default font is opened at.
	Size int `toml:"size"`
}

// ResourcesConfig controls asset resolution.
type ResourcesConfig struct {
	// Dir is searched recursively for fonts and images named without a
	// path.
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "drawq",
		},
		Fonts: FontsConfig{
			Default: "IBMPlexSans-Medium.ttf",
			Size:    15,
		},
	}
}

// Load reads the configuration at path, layered over Default. The
// DRAWQ_CONFIG environment variable overrides path when set; a missing
// file yields the defaults without error.
func Load(path string) (Config, error) {
	if env := os.Getenv(EnvConfigPath); env != "" {
		path = env
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}
