package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/strager/hscx/passes"
)

const (
	ConfigFormatTOML ConfigFormat = "toml"
	ConfigFormatYAML ConfigFormat = "yaml"
)

type ConfigFormat string

// ConfigHandle says where a Config came from. Path is empty when no project
// file was found.
type ConfigHandle struct {
	Path   string
	Format ConfigFormat
}

// Config is a scenario's hscx.toml or hscx.yaml.
type Config struct {
	SourceDir     string   `toml:"source_dir"     yaml:"source_dir"`
	OutputDir     string   `toml:"output_dir"     yaml:"output_dir"`
	Extension     string   `toml:"extension"      yaml:"extension"`
	Passes        []string `toml:"passes"         yaml:"passes"`
	Pretty        bool     `toml:"pretty"         yaml:"pretty"`
	Jobs          int      `toml:"jobs"           yaml:"jobs"`
	MaxExpansions int      `toml:"max_expansions" yaml:"max_expansions"`
	Color         string   `toml:"color"          yaml:"color"`
}

func DefaultConfig() Config {
	return Config{
		SourceDir:     "hscx_scripts",
		OutputDir:     "scripts",
		Extension:     ".hsc",
		Passes:        []string{"full"},
		Pretty:        true,
		Jobs:          1,
		MaxExpansions: passes.DefaultMaxExpansions,
		Color:         "auto",
	}
}

// LoadConfig reads hscx.toml, then hscx.yaml, from dir. Keys a file leaves
// out keep their defaults. A missing file is not an error; a file that does
// not parse is.
func LoadConfig(dir string) (Config, ConfigHandle, error) {
	candidates := []ConfigHandle{
		{Path: filepath.Join(dir, "hscx.toml"), Format: ConfigFormatTOML},
		{Path: filepath.Join(dir, "hscx.yaml"), Format: ConfigFormatYAML},
	}

	var accumulated error
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			accumulated = errors.Join(accumulated, fmt.Errorf("read config %q: %w", candidate.Path, err))
			continue
		}

		config, err := decodeConfig(data, candidate.Format)
		if err != nil {
			return Config{}, ConfigHandle{}, fmt.Errorf("parse config %q: %w", candidate.Path, err)
		}
		if err := config.Validate(); err != nil {
			return Config{}, ConfigHandle{}, fmt.Errorf("config %q: %w", candidate.Path, err)
		}
		return config, candidate, nil
	}

	if accumulated != nil {
		return Config{}, ConfigHandle{}, accumulated
	}
	return DefaultConfig(), ConfigHandle{}, nil
}

func decodeConfig(data []byte, format ConfigFormat) (Config, error) {
	config := DefaultConfig()
	switch format {
	case ConfigFormatTOML:
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&config); err != nil {
			return Config{}, err
		}
	case ConfigFormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty document leaves the defaults alone.
		if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}
	return config, nil
}

func (c Config) Validate() error {
	if _, err := c.PassSet(); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.MaxExpansions < 1 {
		return fmt.Errorf("max_expansions must be at least 1, got %d", c.MaxExpansions)
	}
	if _, err := parseColorMode(c.Color); err != nil {
		return err
	}
	if c.SourceDir == "" || c.OutputDir == "" {
		return errors.New("source_dir and output_dir must not be empty")
	}
	return nil
}

func (c Config) PassSet() (passes.Set, error) {
	return passes.ParseSet(c.Passes)
}

type colorMode int

const (
	colorAuto colorMode = iota
	colorAlways
	colorNever
)

func parseColorMode(s string) (colorMode, error) {
	switch s {
	case "auto", "":
		return colorAuto, nil
	case "always":
		return colorAlways, nil
	case "never":
		return colorNever, nil
	}
	return 0, fmt.Errorf("color must be auto, always or never, got %q", s)
}
