package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/samcharles93/mapdb/pkg/sspm"
)

func formatLength(ms uint32) string {
	s := ms / 1000
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func formatStars(stars int) string {
	if stars < 0 {
		return "-"
	}
	return strconv.Itoa(stars)
}

func formatBytes(n uint64) string {
	return humanize.IBytes(n)
}

func formatRange(r *sspm.Range) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%d+%d (%s)", r.Offset, r.Length, formatBytes(r.Length))
}

// formatFlags summarises availability and tags in one short column.
func formatFlags(doc *sspm.Document) string {
	var parts []string
	if doc.Broken {
		parts = append(parts, "no-audio")
	} else {
		parts = append(parts, string(doc.MusicFormat))
	}
	if doc.HasCover {
		parts = append(parts, "cover")
	}
	parts = append(parts, doc.Tags...)
	return strings.Join(parts, " ")
}
