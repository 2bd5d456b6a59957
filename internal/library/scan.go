package library

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/mapdb/internal/logger"
	"github.com/samcharles93/mapdb/internal/mapfile"
	"github.com/samcharles93/mapdb/pkg/sspm"
)

// Config controls which files a scan picks up.
type Config struct {
	Dir           string
	Recursive     bool
	RecurseHidden bool
	// Workers bounds parallel decoding. Zero means GOMAXPROCS.
	Workers int
}

var ErrNoDir = errors.New("library: maps directory is not set")

// Scan decodes every map under cfg.Dir. Files that fail to decode are logged
// and skipped; only directory and context errors abort the scan.
func Scan(ctx context.Context, cfg Config, log logger.Logger) (*Library, error) {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "library")
	start := time.Now()

	paths, err := findMaps(cfg)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(cfg.Workers))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := loadEntry(path)
			if err != nil {
				log.Warn("skipping map", "path", path, "error", err)
				return nil
			}
			log.Debug("loaded map", "path", path, "id", e.Doc.ID, "version", e.Doc.Version)
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := build(slices.DeleteFunc(entries, func(e *Entry) bool { return e == nil }), log)
	log.Info("scanned maps",
		"dir", cfg.Dir,
		"files", len(paths),
		"maps", len(lib.entries),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return lib, nil
}

func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// findMaps lists map files under cfg.Dir in lexical order. Hidden
// directories are skipped unless RecurseHidden is set.
func findMaps(cfg Config) ([]string, error) {
	root := strings.TrimSpace(cfg.Dir)
	if root == "" {
		return nil, ErrNoDir
	}
	st, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("maps path is not a directory: %s", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !cfg.Recursive || (isHidden(d.Name()) && !cfg.RecurseHidden) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(d.Name()), mapfile.Ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func loadEntry(path string) (*Entry, error) {
	f, err := mapfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	doc, err := f.Load()
	if err != nil {
		return nil, err
	}
	return &Entry{
		Path:        path,
		Size:        st.Size(),
		ModTime:     st.ModTime(),
		Doc:         doc,
		Fingerprint: Fingerprint(f.Data, doc.NoteData),
	}, nil
}

// Fingerprint is the hex BLAKE3-256 digest of the note data of a loaded
// document. data must be the buffer the document was loaded from.
func Fingerprint(data []byte, notes sspm.Range) string {
	sum := blake3.Sum256(data[notes.Offset : notes.Offset+notes.Length])
	return hex.EncodeToString(sum[:])
}
