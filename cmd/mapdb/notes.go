package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mapdb/pkg/sspm"
)

func notesCmd() *cli.Command {
	var allMarkers bool

	return &cli.Command{
		Name:      "notes",
		Usage:     "Print the notes of a map in text map format",
		ArgsUsage: "<file.sspm>",
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.BoolFlag{
				Name:        "markers",
				Usage:       "print every marker grouped by type as JSON",
				Destination: &allMarkers,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, doc, err := openMap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			if allMarkers {
				markers, err := sspm.DecodeMarkers(doc, f.Data)
				if err != nil {
					return cli.Exit("error: "+err.Error(), 1)
				}
				return printJSON(markers)
			}

			notes, err := sspm.DecodeNotes(doc, f.Data)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}
			if jsonOutput {
				return printJSON(notes)
			}
			fmt.Println(sspm.ExportText(doc.ID, notes))
			return nil
		},
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
