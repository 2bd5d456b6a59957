package sspm

import "fmt"

// DecodeMarkers decodes the marker stream of doc from the file bytes it was
// loaded from. Records are grouped by marker type name in storage order.
func DecodeMarkers(doc *Document, data []byte) (map[string][]MarkerRecord, error) {
	if doc == nil || doc.dec == nil {
		return nil, ErrNoFileLoaded
	}
	return doc.dec.markers(NewCursor(data), doc)
}

// DecodeNotes returns the ssp_note markers as coordinates and timestamps.
func DecodeNotes(doc *Document, data []byte) ([]Note, error) {
	if doc == nil || doc.dec == nil {
		return nil, ErrNoFileLoaded
	}
	if !doc.HasMarkerType(NoteMarkerType) {
		return nil, fmt.Errorf("%w: %s", ErrMissingMarkerType, NoteMarkerType)
	}
	markers, err := DecodeMarkers(doc, data)
	if err != nil {
		return nil, err
	}
	records := markers[NoteMarkerType]
	notes := make([]Note, 0, len(records))
	for i, rec := range records {
		if len(rec.Fields) < 2 {
			return nil, fmt.Errorf("%w: note %d has %d fields", ErrInvalidNote, i, len(rec.Fields))
		}
		x, okX := rec.Fields[0].Float64()
		y, okY := rec.Fields[1].Float64()
		if !okX || !okY {
			return nil, fmt.Errorf("%w: note %d coordinates are %s/%s", ErrInvalidNote, i, rec.Fields[0].Tag, rec.Fields[1].Tag)
		}
		notes = append(notes, Note{X: x, Y: y, TimeMS: rec.TimeMS})
	}
	return notes, nil
}
