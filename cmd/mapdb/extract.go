package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mapdb/internal/logger"
	"github.com/samcharles93/mapdb/pkg/sspm"
)

func extractCmd() *cli.Command {
	var (
		cover  bool
		audio  bool
		output string
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Write the cover image or embedded audio of a map to a file",
		ArgsUsage: "<file.sspm>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "cover",
				Usage:       "extract the cover image",
				Destination: &cover,
			},
			&cli.BoolFlag{
				Name:        "audio",
				Usage:       "extract the embedded audio",
				Destination: &audio,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output path, - for stdout (default: <id>.png or <id>.<ogg|mp3>)",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if cover == audio {
				return cli.Exit("error: pass exactly one of --cover or --audio", 1)
			}

			f, doc, err := openMap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			data, name, err := extractAsset(f, doc, cover)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}
			if output == "" {
				output = name
			}
			if output == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			log.Info("extracted", "path", output, "bytes", len(data))
			return nil
		},
	}
}

// extractAsset returns the asset bytes and its default file name.
func extractAsset(r io.ReaderAt, doc *sspm.Document, cover bool) ([]byte, string, error) {
	if cover {
		data, err := doc.Cover(r)
		return data, doc.ID + ".png", err
	}
	data, err := doc.Audio(r)
	if err != nil {
		return nil, "", err
	}
	if doc.MusicFormat == sspm.MusicUnknown || doc.MusicFormat == "" {
		return nil, "", errors.New("audio format is unknown")
	}
	return data, doc.ID + "." + string(doc.MusicFormat), nil
}
