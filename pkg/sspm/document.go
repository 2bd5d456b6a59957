package sspm

import (
	"regexp"
	"strings"
)

// Document is the decoded header and metadata of one map file. It is built
// once by Load and is read-only afterwards.
type Document struct {
	ID      string
	Version uint16

	Name    string
	Song    string
	Authors []string

	Difficulty     Difficulty
	DifficultyName string
	// Stars is -1 (unrated) for v1 files and the stored value for v2.
	Stars int

	LengthMS    uint32
	NoteCount   uint32
	MarkerCount uint32

	HasCover   bool
	CoverRange *Range

	// Broken is set when no usable embedded audio was found.
	Broken      bool
	MusicFormat MusicFormat
	MusicRange  *Range

	NoteData    Range
	MarkerTypes []MarkerTypeDef

	// Custom holds the v2 custom metadata fields by name.
	Custom map[string]Value
	// Blocks is the raw v2 block table. Nil for v1.
	Blocks *Blocks
	// MarkerHash is the unverified v2 marker hash.
	MarkerHash []byte

	Tags            []string
	ContentWarnings []string

	// FileSize is the length of the buffer the document was decoded from.
	FileSize uint64

	dec decoder
}

// Blocks are the (offset, length) pairs stored in a v2 header.
type Blocks struct {
	CustomData  Range `json:"custom_data"`
	Audio       Range `json:"audio"`
	Cover       Range `json:"cover"`
	MarkerTypes Range `json:"marker_types"`
	Markers     Range `json:"markers"`
}

// MarkerTypeDef is the schema for one kind of marker.
type MarkerTypeDef struct {
	Name   string
	Fields []TypeTag
}

// MarkerRecord is one decoded marker. Position fields appear as two values,
// x then y.
type MarkerRecord struct {
	TimeMS uint32
	Fields []Value
}

// Note is a gameplay note.
type Note struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	TimeMS uint32  `json:"ms"`
}

// HasMarkerType reports whether the schema declares a marker type.
func (d *Document) HasMarkerType(name string) bool {
	for _, mt := range d.MarkerTypes {
		if mt.Name == name {
			return true
		}
	}
	return false
}

var authorSplit = regexp.MustCompile(`[,\s]*(?:&|\band\b|\+)\s*|,\s*`)

// splitAuthors splits a v1 author line on ",", "&", "and" and "+".
func splitAuthors(s string) []string {
	return authorSplit.Split(s, -1)
}

// deriveTags puts the archive tag first for archived ids.
func deriveTags(id string, tags []string) []string {
	out := make([]string, 0, len(tags)+1)
	if strings.HasPrefix(id, TagArchive) {
		out = append(out, TagArchive)
	}
	return append(out, tags...)
}
