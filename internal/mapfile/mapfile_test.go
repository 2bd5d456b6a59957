package mapfile

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/mapdb/pkg/sspm"
	"github.com/samcharles93/mapdb/pkg/sspm/sspmtest"
)

func writeMap(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map"+Ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	return path
}

func sampleMap() []byte {
	return sspmtest.V1{
		ID:        "sample",
		Name:      "Sample",
		Authors:   "someone",
		NoteCount: 1,
		CoverType: 2,
		Cover:     []byte("png bytes"),
		MusicType: 1,
		Music:     sspmtest.OggAudio(16),
		Notes:     sspmtest.NoteInt(0, 1, 1),
	}.Bytes()
}

func TestOpenAndLoad(t *testing.T) {
	t.Parallel()

	data := sampleMap()
	f, err := Open(writeMap(t, data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			t.Fatalf("close: %v", cerr)
		}
	}()

	if !bytes.Equal(f.Data, data) {
		t.Fatalf("data mismatch")
	}
	doc, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.ID != "sample" {
		t.Fatalf("id: %q", doc.ID)
	}
	cover, err := doc.Cover(f)
	if err != nil || string(cover) != "png bytes" {
		t.Fatalf("cover via ReadAt: %q %v", cover, err)
	}
	notes, err := sspm.DecodeNotes(doc, f.Data)
	if err != nil || len(notes) != 1 {
		t.Fatalf("notes: %v %v", notes, err)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	t.Parallel()

	f, err := Open(writeMap(t, nil))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = f.Close() }()
	if f.Mapped() {
		t.Fatalf("empty files are not mapped")
	}
	if _, err := f.Load(); !errors.Is(err, sspm.ErrTruncated) {
		t.Fatalf("Load: got %v, want ErrTruncated", err)
	}
}

func TestOpenMissing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing"+Ext))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want ErrNotExist", err)
	}
}

func TestOpenReaderAt(t *testing.T) {
	t.Parallel()

	data := sampleMap()
	f, err := OpenReaderAt(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReaderAt: %v", err)
	}
	if f.Mapped() {
		t.Fatalf("OpenReaderAt should not mmap")
	}
	if _, err := f.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := OpenReaderAt(bytes.NewReader(data), -1); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("negative size: got %v", err)
	}
	if _, err := OpenReaderAt(bytes.NewReader(data[:4]), int64(len(data))); !errors.Is(err, io.EOF) {
		t.Fatalf("short reader: got %v, want EOF", err)
	}
}

func TestReadAt(t *testing.T) {
	t.Parallel()

	f := &File{Data: []byte("abcdef")}
	buf := make([]byte, 4)
	if n, err := f.ReadAt(buf, 1); n != 4 || err != nil || string(buf) != "bcde" {
		t.Fatalf("ReadAt: %d %v %q", n, err, buf)
	}
	if n, err := f.ReadAt(buf, 4); n != 2 || !errors.Is(err, io.EOF) {
		t.Fatalf("short ReadAt: %d %v", n, err)
	}
	if _, err := f.ReadAt(buf, 6); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadAt at end: %v", err)
	}
	if _, err := f.ReadAt(buf, -1); err == nil {
		t.Fatalf("expected error for negative offset")
	}
}

func TestLoadPathWrapsPath(t *testing.T) {
	t.Parallel()

	path := writeMap(t, []byte("nope, not a map"))
	_, err := LoadPath(path)
	if !errors.Is(err, sspm.ErrBadSignature) {
		t.Fatalf("got %v, want ErrBadSignature", err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte(path)) {
		t.Fatalf("error should name the file: %v", err)
	}
}
