package sspm

import (
	"strconv"
	"strings"
)

// ExportText renders notes in the text map format:
// "<id>,<x>|<y>|<ms>,<x>|<y>|<ms>..." in storage order. Coordinates are stored
// as u8 or f32, so they are printed at float32 precision.
func ExportText(id string, notes []Note) string {
	var b strings.Builder
	b.Grow(len(id) + len(notes)*12)
	b.WriteString(id)
	for _, n := range notes {
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(n.X, 'f', -1, 32))
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(n.Y, 'f', -1, 32))
		b.WriteByte('|')
		b.WriteString(strconv.FormatUint(uint64(n.TimeMS), 10))
	}
	return b.String()
}
