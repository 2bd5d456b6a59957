// Package mapfile gives read-only access to .sspm files on disk. Files are
// memory mapped when the platform allows it and read fully otherwise.
package mapfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/sys/unix"

	"github.com/samcharles93/mapdb/pkg/sspm"
)

// Ext is the map file extension, matched case-insensitively by callers.
const Ext = ".sspm"

// ErrTooLarge is returned for files that cannot be addressed as a []byte.
var ErrTooLarge = errors.New("mapfile: file too large")

// File is an opened map file. Data stays valid until Close.
type File struct {
	Path    string
	Data    []byte
	mmapped bool
}

// Open maps path read-only. If mmap is unavailable, it falls back to
// ReadAt-based loading. The returned file must be closed to release any
// mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 < 0 || size64 > math.MaxInt {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, size64)
	}
	size := int(size64)

	if size > 0 {
		data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			return &File{Path: path, Data: data, mmapped: true}, nil
		}
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &File{Path: path, Data: data}, nil
}

// OpenReaderAt loads a map from a random-access reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > math.MaxInt {
		return nil, ErrTooLarge
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return &File{Data: data}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Load decodes the header of the opened file.
func (f *File) Load() (*sspm.Document, error) {
	doc, err := sspm.Load(f.Data)
	if err != nil {
		if f.Path != "" {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		return nil, err
	}
	return doc, nil
}

// ReadAt implements io.ReaderAt over the file contents.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("mapfile: negative offset %d", off)
	}
	if off >= int64(len(f.Data)) {
		return 0, io.EOF
	}
	n := copy(p, f.Data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Mapped reports whether Data is backed by a memory mapping.
func (f *File) Mapped() bool {
	return f.mmapped
}

// Close releases any mmap backing. Data must not be used afterwards.
func (f *File) Close() error {
	if f == nil || f.Data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.mmapped = false
	return err
}

// LoadPath opens, decodes and closes path. The returned document does not
// reference the file contents.
func LoadPath(path string) (*sspm.Document, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.Load()
}
