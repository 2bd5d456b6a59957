package library

import (
	"os"

	"github.com/samcharles93/mapdb/internal/mapfile"
	"github.com/samcharles93/mapdb/pkg/sspm"
)

// Open opens the map file for streaming. The caller closes it.
func (e *Entry) Open() (*os.File, error) {
	return os.Open(e.Path)
}

// Cover reads the cover image from disk.
func (e *Entry) Cover() ([]byte, error) {
	f, err := os.Open(e.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return e.Doc.Cover(f)
}

// Audio reads the embedded audio from disk.
func (e *Entry) Audio() ([]byte, error) {
	f, err := os.Open(e.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return e.Doc.Audio(f)
}

// Notes decodes the note stream from a fresh copy of the file. The file is
// reloaded because it may have been replaced since the scan.
func (e *Entry) Notes() ([]sspm.Note, error) {
	f, err := mapfile.Open(e.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, err := f.Load()
	if err != nil {
		return nil, err
	}
	return sspm.DecodeNotes(doc, f.Data)
}

// Text renders the note stream in the text map format.
func (e *Entry) Text() (string, error) {
	notes, err := e.Notes()
	if err != nil {
		return "", err
	}
	return sspm.ExportText(e.Doc.ID, notes), nil
}
