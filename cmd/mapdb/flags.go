package main

import "github.com/urfave/cli/v3"

var (
	configFile    string
	logLevel      string
	logFormat     string
	debug         bool
	mapsDir       string
	recursive     bool
	recurseHidden bool
	workers       int64
	jsonOutput    bool
)

// cfg is the config file loaded by the root Before hook.
var cfg Config

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: $XDG_CONFIG_HOME/mapdb/config.yaml)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func libraryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "maps-dir",
			Aliases:     []string{"dir", "d"},
			Usage:       "folder containing .sspm maps (default: map_folder or " + envMapsDir + ")",
			Destination: &mapsDir,
		},
		&cli.BoolFlag{
			Name:        "recursive",
			Aliases:     []string{"r"},
			Usage:       "scan subfolders",
			Destination: &recursive,
		},
		&cli.BoolFlag{
			Name:        "recurse-hidden",
			Usage:       "also scan hidden subfolders",
			Destination: &recurseHidden,
		},
		&cli.Int64Flag{
			Name:        "workers",
			Aliases:     []string{"j"},
			Usage:       "parallel decoders (0 = number of CPUs)",
			Destination: &workers,
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "print JSON instead of a table",
		Destination: &jsonOutput,
	}
}
