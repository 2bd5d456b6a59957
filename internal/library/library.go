// Package library indexes a folder of .sspm maps. Headers are decoded once
// at scan time; cover, audio and note data are read from disk on demand.
package library

import (
	"errors"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/samcharles93/mapdb/internal/logger"
	"github.com/samcharles93/mapdb/pkg/sspm"
)

// ErrNotFound is returned for ids that are not in the library.
var ErrNotFound = errors.New("library: map not found")

// Entry is one decoded map file.
type Entry struct {
	Path        string
	Size        int64
	ModTime     time.Time
	Doc         *sspm.Document
	Fingerprint string
}

// Library is an immutable snapshot of a scan. It is safe for concurrent use.
type Library struct {
	entries []*Entry
	byID    map[string]*Entry
}

// build indexes entries by id. Entries must already be in path order; for a
// duplicated id the first path wins.
func build(entries []*Entry, log logger.Logger) *Library {
	lib := &Library{
		entries: make([]*Entry, 0, len(entries)),
		byID:    make(map[string]*Entry, len(entries)),
	}
	byPrint := make(map[string]string, len(entries))
	for _, e := range entries {
		if prev, ok := lib.byID[e.Doc.ID]; ok {
			log.Warn("duplicate map id", "id", e.Doc.ID, "kept", prev.Path, "ignored", e.Path)
			continue
		}
		if other, ok := byPrint[e.Fingerprint]; ok {
			log.Warn("identical note data", "id", e.Doc.ID, "same_as", other)
		} else {
			byPrint[e.Fingerprint] = e.Doc.ID
		}
		lib.byID[e.Doc.ID] = e
		lib.entries = append(lib.entries, e)
	}
	return lib
}

// Len returns the number of maps.
func (l *Library) Len() int { return len(l.entries) }

// Entries returns the maps in path order. The slice must not be modified.
func (l *Library) Entries() []*Entry { return l.entries }

// Get looks a map up by id.
func (l *Library) Get(id string) (*Entry, error) {
	e, ok := l.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Clean returns the public records of every map in path order.
func (l *Library) Clean(links sspm.Links) []sspm.Clean {
	out := make([]sspm.Clean, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Doc.Clean(links)
	}
	return out
}

// FilterDifficulty returns the records whose difficulty is in want, in path
// order.
func (l *Library) FilterDifficulty(links sspm.Links, want ...sspm.Difficulty) []sspm.Clean {
	out := []sspm.Clean{}
	for _, e := range l.entries {
		for _, d := range want {
			if e.Doc.Difficulty == d {
				out = append(out, e.Doc.Clean(links))
				break
			}
		}
	}
	return out
}

// CatalogJSON encodes every public record as a JSON array.
func (l *Library) CatalogJSON(links sspm.Links) ([]byte, error) {
	return json.Marshal(l.Clean(links))
}

// Difficulties counts maps per difficulty, ordered by difficulty.
func (l *Library) Difficulties() []DifficultyCount {
	counts := map[sspm.Difficulty]int{}
	for _, e := range l.entries {
		counts[e.Doc.Difficulty]++
	}
	out := make([]DifficultyCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DifficultyCount{Difficulty: d, Name: d.String(), Maps: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Difficulty < out[j].Difficulty })
	return out
}

// DifficultyCount is one row of Difficulties.
type DifficultyCount struct {
	Difficulty sspm.Difficulty `json:"difficulty"`
	Name       string          `json:"name"`
	Maps       int             `json:"maps"`
}
