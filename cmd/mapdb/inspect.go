package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mapdb/internal/library"
	"github.com/samcharles93/mapdb/internal/mapfile"
	"github.com/samcharles93/mapdb/pkg/sspm"
)

// openMap opens and decodes the single map file argument. The caller closes
// the returned file.
func openMap(cmd *cli.Command) (*mapfile.File, *sspm.Document, error) {
	if cmd.NArg() != 1 {
		return nil, nil, cli.Exit(fmt.Sprintf("error: expected one map file, got %d arguments", cmd.NArg()), 1)
	}
	f, err := mapfile.Open(cmd.Args().First())
	if err != nil {
		return nil, nil, cli.Exit("error: "+err.Error(), 1)
	}
	doc, err := f.Load()
	if err != nil {
		_ = f.Close()
		return nil, nil, cli.Exit("error: "+err.Error(), 1)
	}
	return f, doc, nil
}

type inspectReport struct {
	Path        string              `json:"path"`
	Map         sspm.Clean          `json:"map"`
	FileSize    uint64              `json:"file_size"`
	Fingerprint string              `json:"fingerprint"`
	NoteData    sspm.Range          `json:"note_data"`
	Cover       *sspm.Range         `json:"cover"`
	Audio       *sspm.Range         `json:"audio"`
	Blocks      *sspm.Blocks        `json:"blocks,omitempty"`
	MarkerHash  string              `json:"marker_hash,omitempty"`
	MarkerTypes []markerTypeReport  `json:"marker_types"`
	Custom      map[string]valueDTO `json:"custom"`
}

type markerTypeReport struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

type valueDTO struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func newInspectReport(path string, data []byte, doc *sspm.Document) inspectReport {
	r := inspectReport{
		Path:        path,
		Map:         doc.Clean(cfg.links()),
		FileSize:    doc.FileSize,
		Fingerprint: library.Fingerprint(data, doc.NoteData),
		NoteData:    doc.NoteData,
		Cover:       doc.CoverRange,
		Audio:       doc.MusicRange,
		Blocks:      doc.Blocks,
		MarkerTypes: make([]markerTypeReport, 0, len(doc.MarkerTypes)),
		Custom:      make(map[string]valueDTO, len(doc.Custom)),
	}
	if len(doc.MarkerHash) > 0 {
		r.MarkerHash = hex.EncodeToString(doc.MarkerHash)
	}
	for _, mt := range doc.MarkerTypes {
		fields := make([]string, len(mt.Fields))
		for i, tag := range mt.Fields {
			fields[i] = tag.String()
		}
		r.MarkerTypes = append(r.MarkerTypes, markerTypeReport{Name: mt.Name, Fields: fields})
	}
	for name, v := range doc.Custom {
		r.Custom[name] = valueDTO{Type: v.Tag.String(), Value: v.Value}
	}
	return r
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show the header, block layout and schema of a map file",
		ArgsUsage: "<file.sspm>",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, doc, err := openMap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			report := newInspectReport(f.Path, f.Data, doc)
			if jsonOutput {
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			fmt.Println(renderInspect(report, doc))
			return nil
		},
	}
}

func renderInspect(r inspectReport, doc *sspm.Document) string {
	audio := "none"
	if !doc.Broken {
		audio = string(doc.MusicFormat) + " " + formatRange(doc.MusicRange)
	}
	fields := [][2]string{
		{"path", r.Path},
		{"version", strconv.Itoa(int(doc.Version))},
		{"id", doc.ID},
		{"name", doc.Name},
		{"authors", strings.Join(doc.Authors, ", ")},
		{"difficulty", fmt.Sprintf("%s (%d)", doc.DifficultyName, doc.Difficulty)},
		{"stars", formatStars(doc.Stars)},
		{"length", formatLength(doc.LengthMS)},
		{"notes", strconv.FormatUint(uint64(doc.NoteCount), 10)},
		{"markers", strconv.FormatUint(uint64(doc.MarkerCount), 10)},
		{"cover", formatRange(doc.CoverRange)},
		{"audio", audio},
		{"note data", formatRange(&doc.NoteData)},
		{"fingerprint", r.Fingerprint},
		{"tags", strings.Join(doc.Tags, ", ")},
		{"file size", formatBytes(doc.FileSize)},
	}
	if r.MarkerHash != "" {
		fields = append(fields, [2]string{"marker hash", r.MarkerHash})
	}

	var b strings.Builder
	b.WriteString(renderFields(fields))

	if len(r.MarkerTypes) > 0 {
		rows := make([][]string, len(r.MarkerTypes))
		for i, mt := range r.MarkerTypes {
			rows[i] = []string{strconv.Itoa(i), mt.Name, strings.Join(mt.Fields, ", ")}
		}
		b.WriteString("\n\n")
		b.WriteString(renderTable([]string{"#", "MARKER TYPE", "FIELDS"}, rows, []columnAlignment{alignRight}))
	}

	if len(r.Custom) > 0 {
		names := make([]string, 0, len(r.Custom))
		for name := range r.Custom {
			names = append(names, name)
		}
		slices.Sort(names)
		rows := make([][]string, len(names))
		for i, name := range names {
			v := r.Custom[name]
			rows[i] = []string{name, v.Type, fmt.Sprint(v.Value)}
		}
		b.WriteString("\n\n")
		b.WriteString(renderTable([]string{"CUSTOM FIELD", "TYPE", "VALUE"}, rows, nil))
	}
	return b.String()
}
