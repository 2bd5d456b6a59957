package sspmtest

// Field is one custom metadata entry.
type Field struct {
	Name  string
	Tag   byte
	Value any
}

// MarkerType is one marker schema entry.
type MarkerType struct {
	Name   string
	Fields []byte
}

// V2 describes a v2 file. Blocks are laid out after the strings in the order
// custom data, marker types, audio, cover, markers.
type V2 struct {
	Reserved uint32
	Hash     [20]byte

	LengthMS      uint32
	NoteCount     uint32
	MarkerCount   uint32
	DifficultyRaw int8
	Stars         uint16
	HasAudio      bool
	HasCover      bool
	Mod           uint8

	ID      string
	Name    string
	Authors []string

	Custom      []Field
	MarkerTypes []MarkerType
	Audio       []byte
	Cover       []byte
	Markers     []byte
}

// Header layout offsets.
const (
	V2BlockTableOffset = 48
	V2StringsOffset    = V2BlockTableOffset + 5*16
)

// Bytes encodes the file.
func (v V2) Bytes() []byte {
	var w Writer
	w.Raw(signature).U16(2).U32(v.Reserved).Raw(v.Hash[:])
	w.U32(v.LengthMS).U32(v.NoteCount).U32(v.MarkerCount)
	w.I8(v.DifficultyRaw).U16(v.Stars)
	w.U8(boolByte(v.HasAudio)).U8(boolByte(v.HasCover)).U8(v.Mod)
	w.Raw(make([]byte, 5*16))

	w.Str16(v.ID).Str16(v.Name).U16(uint16(len(v.Authors)))
	for _, a := range v.Authors {
		w.Str16(a)
	}

	var custom Writer
	custom.U16(uint16(len(v.Custom)))
	for _, f := range v.Custom {
		custom.Str16(f.Name).Value(f.Tag, f.Value)
	}

	var types Writer
	types.U8(uint8(len(v.MarkerTypes)))
	for _, mt := range v.MarkerTypes {
		types.Str16(mt.Name).U8(uint8(len(mt.Fields))).Raw(mt.Fields).U8(0)
	}

	blocks := [][]byte{custom.Bytes(), v.Audio, v.Cover, types.Bytes(), v.Markers}
	order := []int{0, 3, 1, 2, 4}
	for _, i := range order {
		off := w.Len()
		w.Raw(blocks[i])
		w.PutU64(V2BlockTableOffset+i*16, uint64(off))
		w.PutU64(V2BlockTableOffset+i*16+8, uint64(len(blocks[i])))
	}
	return w.Bytes()
}

// Marker encodes one v2 marker record. fields alternate tag and value:
// Marker(ts, 0, TagPosition, Pos{...}).
func Marker(ms uint32, typeID uint8, fields ...any) []byte {
	var w Writer
	w.U32(ms).U8(typeID)
	for i := 0; i+1 < len(fields); i += 2 {
		w.Payload(fields[i].(byte), fields[i+1])
	}
	return w.Bytes()
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
