package sspm

import (
	"bytes"
	"fmt"
)

// CustomDifficultyName overrides the enum-derived difficulty label.
const CustomDifficultyName = "difficulty_name"

// v2Decoder reads the fixed-width v2 layout with its block table, custom
// metadata block and self-describing marker stream.
type v2Decoder struct{}

func (v2Decoder) decode(c *Cursor, doc *Document) error {
	reserved, err := c.ReadU32()
	if err != nil {
		return fmt.Errorf("read reserved: %w", err)
	}
	if reserved != 0 {
		return fmt.Errorf("%w: %#08x", ErrCorruptHeader, reserved)
	}
	hash, err := c.ReadN(v2MarkerHashSize)
	if err != nil {
		return fmt.Errorf("read marker hash: %w", err)
	}
	doc.MarkerHash = bytes.Clone(hash)

	if err := v2Counts(c, doc); err != nil {
		return err
	}
	blocks, err := v2Blocks(c)
	if err != nil {
		return err
	}
	doc.Blocks = blocks

	if err := v2Strings(c, doc); err != nil {
		return err
	}
	if err := v2Assets(c, doc); err != nil {
		return err
	}
	if err := v2Custom(c, doc); err != nil {
		return fmt.Errorf("custom data: %w", err)
	}
	if err := v2MarkerTypes(c, doc); err != nil {
		return fmt.Errorf("marker types: %w", err)
	}

	if !blocks.Markers.within(c.Len()) {
		return fmt.Errorf("%w: marker block %d+%d outside %d byte file", ErrTruncated, blocks.Markers.Offset, blocks.Markers.Length, c.Len())
	}
	doc.NoteData = blocks.Markers
	return nil
}

func v2Counts(c *Cursor, doc *Document) error {
	var err error
	if doc.LengthMS, err = c.ReadU32(); err != nil {
		return fmt.Errorf("read length: %w", err)
	}
	if doc.NoteCount, err = c.ReadU32(); err != nil {
		return fmt.Errorf("read note count: %w", err)
	}
	if doc.MarkerCount, err = c.ReadU32(); err != nil {
		return fmt.Errorf("read marker count: %w", err)
	}
	diff, err := c.ReadI8()
	if err != nil {
		return fmt.Errorf("read difficulty: %w", err)
	}
	doc.Difficulty = difficultyFromRaw(diff)
	doc.DifficultyName = doc.Difficulty.String()

	stars, err := c.ReadU16()
	if err != nil {
		return fmt.Errorf("read stars: %w", err)
	}
	doc.Stars = int(stars)

	hasAudio, err := c.ReadBool()
	if err != nil {
		return fmt.Errorf("read audio flag: %w", err)
	}
	doc.Broken = !hasAudio
	if doc.HasCover, err = c.ReadBool(); err != nil {
		return fmt.Errorf("read cover flag: %w", err)
	}
	mod, err := c.ReadU8()
	if err != nil {
		return fmt.Errorf("read mod flag: %w", err)
	}
	if mod != 1 {
		doc.Tags = append(doc.Tags, TagModded)
	}
	return nil
}

func v2Blocks(c *Cursor) (*Blocks, error) {
	b := &Blocks{}
	for _, r := range []*Range{&b.CustomData, &b.Audio, &b.Cover, &b.MarkerTypes, &b.Markers} {
		var err error
		if r.Offset, err = c.ReadU64(); err != nil {
			return nil, fmt.Errorf("read block table: %w", err)
		}
		if r.Length, err = c.ReadU64(); err != nil {
			return nil, fmt.Errorf("read block table: %w", err)
		}
	}
	return b, nil
}

func v2Strings(c *Cursor, doc *Document) error {
	var err error
	if doc.ID, err = c.ReadString16(); err != nil {
		return fmt.Errorf("read id: %w", err)
	}
	if doc.Name, err = c.ReadString16(); err != nil {
		return fmt.Errorf("read name: %w", err)
	}
	doc.Song = doc.Name

	count, err := c.ReadU16()
	if err != nil {
		return fmt.Errorf("read author count: %w", err)
	}
	doc.Authors = make([]string, 0, min(int(count), c.Remaining()/2))
	for i := range count {
		a, err := c.ReadString16()
		if err != nil {
			return fmt.Errorf("read author %d: %w", i, err)
		}
		doc.Authors = append(doc.Authors, a)
	}
	return nil
}

// v2Assets fills the cover and music ranges from the block table. Ranges are
// only exposed when the matching flag says the asset is present.
func v2Assets(c *Cursor, doc *Document) error {
	b := doc.Blocks
	if doc.HasCover {
		if !b.Cover.within(c.Len()) {
			return fmt.Errorf("%w: cover %d+%d outside %d byte file", ErrTruncated, b.Cover.Offset, b.Cover.Length, c.Len())
		}
		r := b.Cover
		doc.CoverRange = &r
	}
	if doc.Broken {
		return nil
	}
	audio, err := c.Window(b.Audio)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	format := SniffAudio(audio.Peek(sniffLen))
	if format == MusicUnknown {
		doc.Broken = true
		return nil
	}
	r := b.Audio
	doc.MusicFormat = format
	doc.MusicRange = &r
	return nil
}

func v2Custom(c *Cursor, doc *Document) error {
	doc.Custom = map[string]Value{}
	if doc.Blocks.CustomData.Length == 0 {
		return nil
	}
	w, err := c.Window(doc.Blocks.CustomData)
	if err != nil {
		return err
	}
	count, err := w.ReadU16()
	if err != nil {
		return fmt.Errorf("read field count: %w", err)
	}
	for i := range count {
		name, err := w.ReadString16()
		if err != nil {
			return fmt.Errorf("read field %d name: %w", i, err)
		}
		v, err := DecodeValue(w, TagNone)
		if err != nil {
			return fmt.Errorf("read field %q: %w", name, err)
		}
		doc.Custom[name] = v
		if name == CustomDifficultyName {
			if s, ok := v.Text(); ok {
				doc.DifficultyName = s
			}
		}
	}
	return nil
}

func v2MarkerTypes(c *Cursor, doc *Document) error {
	doc.MarkerTypes = []MarkerTypeDef{}
	if doc.Blocks.MarkerTypes.Length == 0 {
		return nil
	}
	w, err := c.Window(doc.Blocks.MarkerTypes)
	if err != nil {
		return err
	}
	count, err := w.ReadU8()
	if err != nil {
		return fmt.Errorf("read type count: %w", err)
	}
	for i := range count {
		name, err := w.ReadString16()
		if err != nil {
			return fmt.Errorf("read type %d name: %w", i, err)
		}
		n, err := w.ReadU8()
		if err != nil {
			return fmt.Errorf("read %q field count: %w", name, err)
		}
		raw, err := w.ReadN(uint64(n))
		if err != nil {
			return fmt.Errorf("read %q fields: %w", name, err)
		}
		fields := make([]TypeTag, len(raw))
		for j, b := range raw {
			tag := TypeTag(b)
			if !tag.Valid() {
				return fmt.Errorf("%w: %d in field %d of %q", ErrUnknownTypeTag, b, j, name)
			}
			fields[j] = tag
		}
		// One trailing byte per definition. Its meaning is undocumented.
		if err := w.Skip(1); err != nil {
			return fmt.Errorf("read %q terminator: %w", name, err)
		}
		doc.MarkerTypes = append(doc.MarkerTypes, MarkerTypeDef{Name: name, Fields: fields})
	}
	return nil
}

func (v2Decoder) markers(c *Cursor, doc *Document) (map[string][]MarkerRecord, error) {
	w, err := c.Window(doc.NoteData)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]MarkerRecord, len(doc.MarkerTypes))
	for _, mt := range doc.MarkerTypes {
		out[mt.Name] = []MarkerRecord{}
	}
	for i := range doc.MarkerCount {
		ts, err := w.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("marker %d: %w", i, err)
		}
		id, err := w.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("marker %d: %w", i, err)
		}
		if int(id) >= len(doc.MarkerTypes) {
			return nil, fmt.Errorf("%w: marker %d has type %d, %d defined", ErrUnknownMarkerType, i, id, len(doc.MarkerTypes))
		}
		mt := doc.MarkerTypes[id]
		fields := make([]Value, 0, len(mt.Fields)+1)
		for _, tag := range mt.Fields {
			v, err := DecodeValue(w, tag)
			if err != nil {
				return nil, fmt.Errorf("marker %d (%s): %w", i, mt.Name, err)
			}
			if p, ok := v.Value.(Position); ok {
				fields = append(fields, expandPosition(p)...)
				continue
			}
			fields = append(fields, v)
		}
		out[mt.Name] = append(out[mt.Name], MarkerRecord{TimeMS: ts, Fields: fields})
	}
	return out, nil
}

func expandPosition(p Position) []Value {
	if p.Integer {
		return []Value{{Tag: TagUint8, Value: uint8(p.X)}, {Tag: TagUint8, Value: uint8(p.Y)}}
	}
	return []Value{{Tag: TagFloat32, Value: float32(p.X)}, {Tag: TagFloat32, Value: float32(p.Y)}}
}
