package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/mapdb/internal/library"
	"github.com/samcharles93/mapdb/pkg/sspm"
)

const envMapsDir = "MAPDB_MAPS_DIR"

// Config represents the mapdb configuration file (~/.config/mapdb/config.yaml).
// Booleans and numbers are pointers so we can distinguish "not set" from zero
// values.
type Config struct {
	MapFolder     string `yaml:"map_folder"`
	Recursive     *bool  `yaml:"recursive"`
	RecurseHidden *bool  `yaml:"recurse_hidden"`
	Workers       *int64 `yaml:"workers"`

	// URL prefixes joined with the map id in published records.
	sspm.Links `yaml:",inline"`

	// Server
	Port          *int   `yaml:"port"`
	ServerAddress string `yaml:"server_address"`
	TrustProxy    *bool  `yaml:"trust_proxy"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

var defaultLinks = sspm.Links{
	Download: "/api/download/",
	Audio:    "/api/audio/",
	Cover:    "/api/cover/",
	Text:     "/api/txt/",
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mapdb", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config; a
// file that exists but does not parse is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyLogConfig applies config file defaults to the logging flags when the
// corresponding CLI flag was not explicitly set.
func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if debug {
		logLevel = "debug"
	}
}

// libraryConfig resolves the scan settings: explicit flags, then the config
// file, then MAPDB_MAPS_DIR for the folder.
func libraryConfig(c *cli.Command, cfg Config) (library.Config, error) {
	out := library.Config{
		Dir:           strings.TrimSpace(mapsDir),
		Recursive:     recursive,
		RecurseHidden: recurseHidden,
		Workers:       int(workers),
	}
	if !c.IsSet("maps-dir") && cfg.MapFolder != "" {
		out.Dir = cfg.MapFolder
	}
	if out.Dir == "" {
		out.Dir = strings.TrimSpace(os.Getenv(envMapsDir))
	}
	if out.Dir == "" {
		return out, fmt.Errorf("--maps-dir is required unless map_folder or %s is set", envMapsDir)
	}
	if cfg.Recursive != nil && !c.IsSet("recursive") {
		out.Recursive = *cfg.Recursive
	}
	if cfg.RecurseHidden != nil && !c.IsSet("recurse-hidden") {
		out.RecurseHidden = *cfg.RecurseHidden
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		out.Workers = int(*cfg.Workers)
	}
	return out, nil
}

// links fills unset prefixes with the paths served by the API.
func (c Config) links() sspm.Links {
	l := c.Links
	if l.Download == "" {
		l.Download = defaultLinks.Download
	}
	if l.Audio == "" {
		l.Audio = defaultLinks.Audio
	}
	if l.Cover == "" {
		l.Cover = defaultLinks.Cover
	}
	if l.Text == "" {
		l.Text = defaultLinks.Text
	}
	return l
}

// applyServeConfig applies config file defaults to serve command variables.
// server_address wins over port.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, trust *bool) {
	if !c.IsSet("addr") {
		switch {
		case cfg.ServerAddress != "":
			*addr = cfg.ServerAddress
		case cfg.Port != nil:
			*addr = fmt.Sprintf(":%d", *cfg.Port)
		}
	}
	if cfg.TrustProxy != nil && !c.IsSet("trust-proxy") {
		*trust = *cfg.TrustProxy
	}
}
