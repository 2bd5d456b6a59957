package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mapdb/internal/library"
	"github.com/samcharles93/mapdb/internal/logger"
)

func listCmd() *cli.Command {
	var summary bool

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the maps in the maps folder",
		Flags: append(libraryFlags(), jsonFlag(),
			&cli.BoolFlag{
				Name:        "summary",
				Usage:       "only print map counts per difficulty",
				Destination: &summary,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			libCfg, err := libraryConfig(cmd, cfg)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}
			lib, err := library.Scan(ctx, libCfg, log)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			switch {
			case jsonOutput:
				out, err := lib.CatalogJSON(cfg.links())
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			case summary:
				fmt.Println(renderSummary(lib))
			default:
				if lib.Len() == 0 {
					log.Info("no maps found", "path", libCfg.Dir)
					return nil
				}
				fmt.Println(renderLibrary(lib))
				fmt.Printf("\n%d map(s) found\n", lib.Len())
			}
			return nil
		},
	}
}

func renderLibrary(lib *library.Library) string {
	headers := []string{"ID", "NAME", "DIFFICULTY", "STARS", "LENGTH", "NOTES", "SIZE", "FLAGS"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, lib.Len())
	for _, e := range lib.Entries() {
		d := e.Doc
		rows = append(rows, []string{
			d.ID,
			d.Name,
			d.DifficultyName,
			formatStars(d.Stars),
			formatLength(d.LengthMS),
			strconv.FormatUint(uint64(d.NoteCount), 10),
			formatBytes(uint64(e.Size)),
			formatFlags(d),
		})
	}
	return renderTable(headers, rows, aligns)
}

func renderSummary(lib *library.Library) string {
	rows := [][]string{}
	for _, dc := range lib.Difficulties() {
		rows = append(rows, []string{strconv.Itoa(int(dc.Difficulty)), dc.Name, strconv.Itoa(dc.Maps)})
	}
	return renderTable([]string{"#", "DIFFICULTY", "MAPS"}, rows, []columnAlignment{alignRight, alignLeft, alignRight})
}
