package sspm

import "fmt"

// decoder is the per-version layout. One is chosen by Load from the version
// field and kept on the Document.
type decoder interface {
	decode(c *Cursor, doc *Document) error
	markers(c *Cursor, doc *Document) (map[string][]MarkerRecord, error)
}

func decoderFor(version uint16) (decoder, error) {
	switch version {
	case Version1:
		return v1Decoder{}, nil
	case Version2:
		return v2Decoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
}

// Load decodes a fully buffered .sspm file. The returned Document does not
// reference data.
func Load(data []byte) (*Document, error) {
	c := NewCursor(data)
	sig, err := c.ReadN(uint64(len(Signature)))
	if err != nil {
		return nil, fmt.Errorf("read signature: %w", err)
	}
	if string(sig) != Signature {
		return nil, fmt.Errorf("%w: %x", ErrBadSignature, sig)
	}
	version, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	dec, err := decoderFor(version)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:         version,
		FileSize:        uint64(len(data)),
		ContentWarnings: []string{},
		dec:             dec,
	}
	if err := dec.decode(c, doc); err != nil {
		return nil, fmt.Errorf("decode v%d: %w", version, err)
	}
	doc.Tags = deriveTags(doc.ID, doc.Tags)
	return doc, nil
}
