package sspmtest

// V1 describes a v1 file. The zero value is a valid header with no cover,
// no music and no notes.
type V1 struct {
	Version  uint16
	Reserved uint16

	ID      string
	Name    string
	Authors string

	LengthMS      int32
	NoteCount     int32
	DifficultyRaw int8

	// CoverType 1 writes six bytes of pixel metadata before the data.
	CoverType int8
	Cover     []byte

	MusicType int8
	Music     []byte
	// MusicLength overrides the declared music length when non-zero.
	MusicLength uint64

	Notes []byte
}

// Bytes encodes the file.
func (v V1) Bytes() []byte {
	version := v.Version
	if version == 0 {
		version = 1
	}
	var w Writer
	w.Raw(signature).U16(version).U16(v.Reserved)
	w.Line(v.ID).Line(v.Name).Line(v.Authors)
	w.I32(v.LengthMS).I32(v.NoteCount).I8(v.DifficultyRaw)

	w.I8(v.CoverType)
	switch v.CoverType {
	case 1:
		w.Raw(make([]byte, 6)).U64(uint64(len(v.Cover))).Raw(v.Cover)
	case 2:
		w.U64(uint64(len(v.Cover))).Raw(v.Cover)
	}

	w.I8(v.MusicType)
	if v.MusicType == 1 {
		n := uint64(len(v.Music))
		if v.MusicLength != 0 {
			n = v.MusicLength
		}
		w.U64(n).Raw(v.Music)
	}
	return w.Raw(v.Notes).Bytes()
}

// CoverStart is the offset of the cover data in Bytes().
func (v V1) CoverStart() int {
	n := 4 + 2 + 2 + len(v.ID) + len(v.Name) + len(v.Authors) + 3 + 4 + 4 + 1 + 1
	if v.CoverType == 1 {
		n += 6
	}
	return n + 8
}
