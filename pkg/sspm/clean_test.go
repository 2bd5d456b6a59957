package sspm

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/samcharles93/mapdb/pkg/sspm/sspmtest"
)

var testLinks = Links{
	Download: "/api/download/",
	Audio:    "/api/audio/",
	Cover:    "/api/cover/",
	Text:     "/api/txt/",
}

func TestCleanV2(t *testing.T) {
	t.Parallel()

	doc, err := Load(exampleV2().Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := doc.Clean(testLinks)
	audio := "/api/audio/ss_archive_example"
	cover := "/api/cover/ss_archive_example"
	want := Clean{
		ID:              "ss_archive_example",
		Download:        "/api/download/ss_archive_example",
		Audio:           &audio,
		Cover:           &cover,
		Text:            "/api/txt/ss_archive_example",
		Version:         2,
		Name:            "Artist - Song",
		Song:            "Artist - Song",
		Author:          []string{"first", "second"},
		Difficulty:      DifficultyLogic,
		DifficultyName:  "Insane",
		Stars:           3,
		LengthMS:        90000,
		NoteCount:       2,
		MarkerCount:     3,
		HasCover:        true,
		MusicFormat:     MusicOgg,
		Tags:            []string{TagArchive},
		ContentWarnings: []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("clean (-want +got):\n%s", diff)
	}
}

func TestCleanNullLinks(t *testing.T) {
	t.Parallel()

	m := exampleV1()
	m.MusicType = 0
	doc, err := Load(m.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	raw, err := json.Marshal(doc.Clean(testLinks))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["audio"] != nil || fields["cover"] != nil {
		t.Fatalf("asset links should be null: audio=%v cover=%v", fields["audio"], fields["cover"])
	}
	if _, ok := fields["music_format"]; ok {
		t.Fatalf("music_format should be omitted when unknown")
	}
	for _, key := range []string{"tags", "content_warnings", "author"} {
		if _, ok := fields[key].([]any); !ok {
			t.Fatalf("%s should be an array, got %T", key, fields[key])
		}
	}
	if fields["difficulty"] != float64(DifficultyEasy) || fields["broken"] != true || fields["stars"] != float64(-1) {
		t.Fatalf("scalar fields: %v", fields)
	}
}

func TestCleanUsesIDVerbatim(t *testing.T) {
	t.Parallel()

	m := sspmtest.V1{ID: "map with spaces", MusicType: 0}
	doc, err := Load(m.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := doc.Clean(Links{Download: "dl/"}).Download; got != "dl/map with spaces" {
		t.Fatalf("download: %q", got)
	}
}
