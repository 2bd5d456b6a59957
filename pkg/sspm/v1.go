package sspm

import "fmt"

const (
	v1CoverNone  = 0
	v1CoverRaw   = 1
	v1CoverPNG   = 2
	v1RawMetaLen = 6

	v1MusicEmbedded = 1

	v1NoteInt   = 0
	v1NoteFloat = 1
)

// v1Decoder reads the newline-delimited v1 layout. Notes are the tail of the
// file and there is a single implicit marker type.
type v1Decoder struct{}

func (v1Decoder) decode(c *Cursor, doc *Document) error {
	reserved, err := c.ReadU16()
	if err != nil {
		return fmt.Errorf("read reserved: %w", err)
	}
	if reserved != 0 {
		return fmt.Errorf("%w: %#04x", ErrCorruptHeader, reserved)
	}

	doc.ID = c.ReadLine()
	doc.Name = c.ReadLine()
	doc.Song = doc.Name
	doc.Authors = splitAuthors(c.ReadLine())

	length, err := c.ReadI32()
	if err != nil {
		return fmt.Errorf("read length: %w", err)
	}
	notes, err := c.ReadI32()
	if err != nil {
		return fmt.Errorf("read note count: %w", err)
	}
	diff, err := c.ReadI8()
	if err != nil {
		return fmt.Errorf("read difficulty: %w", err)
	}
	doc.LengthMS = uint32(length)
	doc.NoteCount = uint32(notes)
	doc.MarkerCount = doc.NoteCount
	doc.Difficulty = difficultyFromRaw(diff)
	doc.DifficultyName = doc.Difficulty.String()
	doc.Stars = -1
	doc.MarkerTypes = []MarkerTypeDef{{Name: NoteMarkerType, Fields: []TypeTag{TagPosition}}}

	if err := v1Cover(c, doc); err != nil {
		return err
	}
	if err := v1Music(c, doc); err != nil {
		return err
	}

	off := uint64(c.Offset())
	doc.NoteData = Range{Offset: off, Length: uint64(c.Len()) - off}
	return nil
}

func v1Cover(c *Cursor, doc *Document) error {
	coverType, err := c.ReadI8()
	if err != nil {
		return fmt.Errorf("read cover type: %w", err)
	}
	switch coverType {
	case v1CoverRaw:
		// Raw engine pixel data cannot be displayed; skip it.
		if err := c.Skip(v1RawMetaLen); err != nil {
			return fmt.Errorf("skip raw cover header: %w", err)
		}
		n, err := c.readLength()
		if err != nil {
			return fmt.Errorf("read raw cover: %w", err)
		}
		return c.Skip(n)
	case v1CoverPNG:
		n, err := c.readLength()
		if err != nil {
			return fmt.Errorf("read cover: %w", err)
		}
		doc.HasCover = true
		doc.CoverRange = &Range{Offset: uint64(c.Offset()), Length: n}
		return c.Skip(n)
	default:
		return nil
	}
}

func v1Music(c *Cursor, doc *Document) error {
	musicType, err := c.ReadI8()
	if err != nil {
		return fmt.Errorf("read music type: %w", err)
	}
	if musicType != v1MusicEmbedded {
		doc.Broken = true
		return nil
	}
	n, err := c.readLength()
	if err != nil {
		return fmt.Errorf("read music: %w", err)
	}
	format := SniffAudio(c.Peek(sniffLen))
	if format == MusicUnknown {
		doc.Broken = true
	} else {
		doc.MusicFormat = format
		doc.MusicRange = &Range{Offset: uint64(c.Offset()), Length: n}
	}
	return c.Skip(n)
}

// markers decodes the note tail. An unknown per-note subtype abandons the
// whole stream and yields an empty result.
func (v1Decoder) markers(c *Cursor, doc *Document) (map[string][]MarkerRecord, error) {
	w, err := c.Window(doc.NoteData)
	if err != nil {
		return nil, err
	}
	records := make([]MarkerRecord, 0, min(uint64(doc.NoteCount), doc.NoteData.Length/7))
	for w.Remaining() > 0 {
		ts, err := w.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", len(records), err)
		}
		sub, err := w.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", len(records), err)
		}
		var fields []Value
		switch sub {
		case v1NoteInt:
			xy, err := w.ReadN(2)
			if err != nil {
				return nil, fmt.Errorf("note %d: %w", len(records), err)
			}
			fields = []Value{{Tag: TagUint8, Value: xy[0]}, {Tag: TagUint8, Value: xy[1]}}
		case v1NoteFloat:
			x, err := w.ReadF32()
			if err != nil {
				return nil, fmt.Errorf("note %d: %w", len(records), err)
			}
			y, err := w.ReadF32()
			if err != nil {
				return nil, fmt.Errorf("note %d: %w", len(records), err)
			}
			fields = []Value{{Tag: TagFloat32, Value: x}, {Tag: TagFloat32, Value: y}}
		default:
			return map[string][]MarkerRecord{}, nil
		}
		records = append(records, MarkerRecord{TimeMS: ts, Fields: fields})
	}
	return map[string][]MarkerRecord{NoteMarkerType: records}, nil
}
