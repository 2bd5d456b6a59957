package sspm

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Cover reads the embedded cover image from r, which must hold the same bytes
// the document was loaded from. Nothing is cached; each call reads r again.
func (d *Document) Cover(r io.ReaderAt) ([]byte, error) {
	if d == nil || d.dec == nil {
		return nil, ErrNoFileLoaded
	}
	if !d.HasCover || d.CoverRange == nil {
		return nil, ErrNoCover
	}
	return readRange(r, *d.CoverRange)
}

// Audio reads the embedded music from r. Broken maps have no audio.
func (d *Document) Audio(r io.ReaderAt) ([]byte, error) {
	if d == nil || d.dec == nil {
		return nil, ErrNoFileLoaded
	}
	if d.Broken || d.MusicRange == nil {
		return nil, ErrNoAudio
	}
	return readRange(r, *d.MusicRange)
}

func readRange(r io.ReaderAt, rng Range) ([]byte, error) {
	end, ok := rng.End()
	if !ok || end > math.MaxInt64 || rng.Length > uint64(math.MaxInt) {
		return nil, fmt.Errorf("%w: range %d+%d", ErrTruncated, rng.Offset, rng.Length)
	}
	buf := make([]byte, rng.Length)
	n, err := r.ReadAt(buf, int64(rng.Offset))
	if n == len(buf) {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read %d of %d bytes at %d", ErrTruncated, n, len(buf), rng.Offset)
	}
	return nil, err
}
