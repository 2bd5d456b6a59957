// Package sspm decodes Sound Space Plus map files (.sspm).
//
// Two incompatible on-disk layouts exist (v1 and v2). Both start with the
// "SS+m" signature followed by a little-endian u16 version. Load decodes the
// header and metadata into a Document; embedded assets and the marker stream
// are extracted on demand from the original bytes and are never cached.
//
// All reads are bounds-checked. Malformed or hostile input produces an error,
// never a panic.
package sspm

// Signature is the four byte magic at the start of every .sspm file.
const Signature = "SS+m"

// Format versions.
const (
	Version1 uint16 = 1
	Version2 uint16 = 2
)

const (
	// NoteMarkerType is the marker type that carries gameplay notes.
	NoteMarkerType = "ssp_note"

	// TagArchive is added to maps whose id starts with the archive prefix.
	TagArchive = "ss_archive"
	// TagModded is added to v2 maps whose mod flag is not 1.
	TagModded = "modded"
)

const (
	v1HeaderReserved = 2
	v2HeaderReserved = 4
	v2MarkerHashSize = 20
	sniffLen         = 5
)

// Difficulty is the category-based map difficulty.
type Difficulty int

const (
	DifficultyUnknown  Difficulty = -1
	DifficultyEasy     Difficulty = 0
	DifficultyMedium   Difficulty = 1
	DifficultyHard     Difficulty = 2
	DifficultyLogic    Difficulty = 3
	DifficultyTasukete Difficulty = 4
)

// String returns the display label used by the map list.
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "EASY"
	case DifficultyMedium:
		return "MEDIUM"
	case DifficultyHard:
		return "HARD"
	case DifficultyLogic:
		return "LOGIC?"
	case DifficultyTasukete:
		return "助"
	default:
		return "N/A"
	}
}

// difficultyFromRaw converts the on-disk byte (enum value + 1).
func difficultyFromRaw(b int8) Difficulty {
	return Difficulty(int(b) - 1)
}

// MusicFormat is the container format of embedded audio.
type MusicFormat string

const (
	MusicUnknown MusicFormat = "unknown"
	MusicOgg     MusicFormat = "ogg"
	MusicMP3     MusicFormat = "mp3"
)

// Range is an absolute byte span inside the source file.
type Range struct {
	Offset uint64 `json:"offset"`
	Length uint64 `json:"length"`
}

// End returns Offset+Length and false if the sum overflows.
func (r Range) End() (uint64, bool) {
	end := r.Offset + r.Length
	return end, end >= r.Offset
}

// within reports whether the range lies entirely inside a buffer of size n.
func (r Range) within(n int) bool {
	end, ok := r.End()
	return ok && end <= uint64(n)
}
