package sspm

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samcharles93/mapdb/pkg/sspm/sspmtest"
)

// exampleV1 is the minimal map: one note, embedded ogg audio, no cover.
func exampleV1() sspmtest.V1 {
	return sspmtest.V1{
		ID:            "a",
		Name:          "b",
		Authors:       "c",
		LengthMS:      1000,
		NoteCount:     1,
		DifficultyRaw: 1,
		MusicType:     1,
		Music:         []byte("OggS?"),
		Notes:         sspmtest.NoteInt(0, 1, 2),
	}
}

func TestLoadV1Example(t *testing.T) {
	t.Parallel()

	data := exampleV1().Bytes()
	doc, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Version != Version1 {
		t.Fatalf("version: got %d", doc.Version)
	}
	if doc.ID != "a" || doc.Name != "b" || doc.Song != "b" {
		t.Fatalf("strings: id=%q name=%q song=%q", doc.ID, doc.Name, doc.Song)
	}
	if !slices.Equal(doc.Authors, []string{"c"}) {
		t.Fatalf("authors: got %q", doc.Authors)
	}
	if doc.Difficulty != DifficultyEasy || doc.DifficultyName != "EASY" {
		t.Fatalf("difficulty: got %d %q", doc.Difficulty, doc.DifficultyName)
	}
	if doc.LengthMS != 1000 || doc.NoteCount != 1 || doc.MarkerCount != 1 {
		t.Fatalf("counts: length=%d notes=%d markers=%d", doc.LengthMS, doc.NoteCount, doc.MarkerCount)
	}
	if doc.Stars != -1 {
		t.Fatalf("v1 stars should be unrated (-1), got %d", doc.Stars)
	}
	if doc.MusicFormat != MusicOgg || doc.Broken {
		t.Fatalf("music: format=%q broken=%v", doc.MusicFormat, doc.Broken)
	}
	if doc.HasCover || doc.CoverRange != nil {
		t.Fatalf("expected no cover")
	}
	end, _ := doc.NoteData.End()
	if end != uint64(len(data)) {
		t.Fatalf("v1 note data must end at the file end: %d != %d", end, len(data))
	}

	notes, err := DecodeNotes(doc, data)
	if err != nil {
		t.Fatalf("DecodeNotes: %v", err)
	}
	if diff := cmp.Diff([]Note{{X: 1, Y: 2, TimeMS: 0}}, notes); diff != "" {
		t.Fatalf("notes mismatch (-want +got):\n%s", diff)
	}

	audio, err := doc.Audio(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Audio: %v", err)
	}
	if string(audio) != "OggS?" {
		t.Fatalf("audio bytes: got %q", audio)
	}
	if _, err := doc.Cover(bytes.NewReader(data)); !errors.Is(err, ErrNoCover) {
		t.Fatalf("Cover without cover: got %v, want ErrNoCover", err)
	}
}

func TestLoadV1Covers(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\nnot really")

	t.Run("png", func(t *testing.T) {
		t.Parallel()
		m := exampleV1()
		m.CoverType = 2
		m.Cover = png
		data := m.Bytes()

		doc, err := Load(data)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !doc.HasCover || doc.CoverRange == nil {
			t.Fatalf("expected a cover")
		}
		want := Range{Offset: uint64(m.CoverStart()), Length: uint64(len(png))}
		if *doc.CoverRange != want {
			t.Fatalf("cover range: got %+v want %+v", *doc.CoverRange, want)
		}
		cover, err := doc.Cover(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Cover: %v", err)
		}
		if !bytes.Equal(cover, png) {
			t.Fatalf("cover bytes: got %q", cover)
		}
		if doc.MusicFormat != MusicOgg {
			t.Fatalf("music after cover: got %q", doc.MusicFormat)
		}
	})

	t.Run("raw pixels are skipped", func(t *testing.T) {
		t.Parallel()
		m := exampleV1()
		m.CoverType = 1
		m.Cover = make([]byte, 16)
		data := m.Bytes()

		doc, err := Load(data)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if doc.HasCover || doc.CoverRange != nil {
			t.Fatalf("raw pixel covers must not be exposed")
		}
		if doc.MusicFormat != MusicOgg || doc.Broken {
			t.Fatalf("music after raw cover: format=%q broken=%v", doc.MusicFormat, doc.Broken)
		}
		notes, err := DecodeNotes(doc, data)
		if err != nil || len(notes) != 1 {
			t.Fatalf("notes after raw cover: %v %v", notes, err)
		}
	})
}

func TestLoadV1Music(t *testing.T) {
	t.Parallel()

	t.Run("not embedded", func(t *testing.T) {
		t.Parallel()
		m := exampleV1()
		m.MusicType = 0
		data := m.Bytes()
		doc, err := Load(data)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !doc.Broken || doc.MusicRange != nil {
			t.Fatalf("expected broken without music range")
		}
		if _, err := doc.Audio(bytes.NewReader(data)); !errors.Is(err, ErrNoAudio) {
			t.Fatalf("Audio: got %v, want ErrNoAudio", err)
		}
		notes, err := DecodeNotes(doc, data)
		if err != nil || len(notes) != 1 {
			t.Fatalf("notes: %v %v", notes, err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		m := exampleV1()
		m.Music = []byte("RIFFxxxx")
		data := m.Bytes()
		doc, err := Load(data)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !doc.Broken || doc.MusicFormat != "" {
			t.Fatalf("expected broken, got format %q", doc.MusicFormat)
		}
		if _, err := doc.Audio(bytes.NewReader(data)); !errors.Is(err, ErrNoAudio) {
			t.Fatalf("Audio: got %v, want ErrNoAudio", err)
		}
		notes, err := DecodeNotes(doc, data)
		if err != nil || len(notes) != 1 {
			t.Fatalf("music block must still be skipped: %v %v", notes, err)
		}
	})

	t.Run("mp3", func(t *testing.T) {
		t.Parallel()
		m := exampleV1()
		m.Music = sspmtest.MP3Audio(64)
		doc, err := Load(m.Bytes())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if doc.MusicFormat != MusicMP3 || doc.MusicRange.Length != 64 {
			t.Fatalf("music: %q %+v", doc.MusicFormat, doc.MusicRange)
		}
	})

	t.Run("declared length past end", func(t *testing.T) {
		t.Parallel()
		m := exampleV1()
		m.MusicLength = 1 << 40
		if _, err := Load(m.Bytes()); !errors.Is(err, ErrTruncated) {
			t.Fatalf("got %v, want ErrTruncated", err)
		}
	})
}

func TestDecodeV1Notes(t *testing.T) {
	t.Parallel()

	m := exampleV1()
	m.NoteCount = 3
	m.Notes = slices.Concat(
		sspmtest.NoteInt(10, 0, 2),
		sspmtest.NoteFloat(5, 1.5, 0.25),
		sspmtest.NoteInt(30, 1, 1),
	)
	data := m.Bytes()
	doc, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	notes, err := DecodeNotes(doc, data)
	if err != nil {
		t.Fatalf("DecodeNotes: %v", err)
	}
	want := []Note{{0, 2, 10}, {1.5, 0.25, 5}, {1, 1, 30}}
	if diff := cmp.Diff(want, notes); diff != "" {
		t.Fatalf("notes mismatch (-want +got):\n%s", diff)
	}

	markers, err := DecodeMarkers(doc, data)
	if err != nil {
		t.Fatalf("DecodeMarkers: %v", err)
	}
	recs := markers[NoteMarkerType]
	if len(recs) != 3 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Fields[0].Tag != TagUint8 || recs[1].Fields[0].Tag != TagFloat32 {
		t.Fatalf("field tags: %s %s", recs[0].Fields[0].Tag, recs[1].Fields[0].Tag)
	}
}

func TestDecodeV1NotesUnknownSubtypeAbandonsStream(t *testing.T) {
	t.Parallel()

	m := exampleV1()
	m.NoteCount = 2
	bad := sspmtest.NoteInt(20, 1, 1)
	bad[4] = 7
	m.Notes = slices.Concat(sspmtest.NoteInt(10, 0, 0), bad)
	data := m.Bytes()
	doc, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	markers, err := DecodeMarkers(doc, data)
	if err != nil {
		t.Fatalf("DecodeMarkers: %v", err)
	}
	if len(markers) != 0 {
		t.Fatalf("expected empty result, got %v", markers)
	}
	notes, err := DecodeNotes(doc, data)
	if err != nil || len(notes) != 0 {
		t.Fatalf("DecodeNotes: got %v, %v; want empty", notes, err)
	}
}

func TestDecodeV1NotesTruncatedRecord(t *testing.T) {
	t.Parallel()

	m := exampleV1()
	m.Notes = sspmtest.NoteFloat(1, 0, 0)[:7]
	data := m.Bytes()
	doc, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := DecodeNotes(doc, data); !errors.Is(err, ErrTruncated) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestLoadV1Authors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"solo", []string{"solo"}},
		{"a, b", []string{"a", "b"}},
		{"a & b", []string{"a", "b"}},
		{"a and b", []string{"a", "b"}},
		{"a+b", []string{"a", "b"}},
		{"a, b & c", []string{"a", "b", "c"}},
		{"brandon", []string{"brandon"}},
		{"", []string{""}},
	}
	for _, tc := range cases {
		m := exampleV1()
		m.Authors = tc.in
		doc, err := Load(m.Bytes())
		if err != nil {
			t.Fatalf("%q: Load: %v", tc.in, err)
		}
		if !slices.Equal(doc.Authors, tc.want) {
			t.Errorf("%q: got %q want %q", tc.in, doc.Authors, tc.want)
		}
	}
}

func TestLoadV1Difficulties(t *testing.T) {
	t.Parallel()

	for raw, want := range map[int8]Difficulty{
		0: DifficultyUnknown,
		1: DifficultyEasy,
		2: DifficultyMedium,
		3: DifficultyHard,
		4: DifficultyLogic,
		5: DifficultyTasukete,
	} {
		m := exampleV1()
		m.DifficultyRaw = raw
		doc, err := Load(m.Bytes())
		if err != nil {
			t.Fatalf("raw %d: %v", raw, err)
		}
		if doc.Difficulty != want || doc.DifficultyName != want.String() {
			t.Errorf("raw %d: got %d %q want %d", raw, doc.Difficulty, doc.DifficultyName, want)
		}
	}
}

func TestLoadArchiveTag(t *testing.T) {
	t.Parallel()

	m := exampleV1()
	m.ID = "ss_archive_some_map"
	doc, err := Load(m.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Tags) == 0 || doc.Tags[0] != TagArchive {
		t.Fatalf("tags: got %q", doc.Tags)
	}

	m.ID = "not_ss_archive"
	doc, err = Load(m.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Tags) != 0 {
		t.Fatalf("unexpected tags %q", doc.Tags)
	}
}

func TestLoadHeaderErrors(t *testing.T) {
	t.Parallel()

	valid := exampleV1().Bytes()

	badSig := slices.Clone(valid)
	badSig[0] = 'X'
	if _, err := Load(badSig); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("bad signature: got %v", err)
	}

	reserved := exampleV1()
	reserved.Reserved = 1
	if _, err := Load(reserved.Bytes()); !errors.Is(err, ErrCorruptHeader) {
		t.Fatalf("reserved: got %v", err)
	}

	version := exampleV1()
	version.Version = 3
	if _, err := Load(version.Bytes()); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("version: got %v", err)
	}

	if _, err := Load(valid[:5]); !errors.Is(err, ErrTruncated) {
		t.Fatalf("5 bytes: got %v, want ErrTruncated", err)
	}
	if _, err := Load(nil); !errors.Is(err, ErrTruncated) {
		t.Fatalf("empty: got %v, want ErrTruncated", err)
	}
}

func TestLoadV1EveryTruncation(t *testing.T) {
	t.Parallel()

	m := exampleV1()
	m.CoverType = 2
	m.Cover = []byte("cover")
	m.NoteCount = 2
	m.Notes = slices.Concat(sspmtest.NoteInt(0, 1, 2), sspmtest.NoteFloat(1, 0.5, 0.5))
	full := m.Bytes()
	notesStart := len(full) - len(m.Notes)

	for n := range len(full) {
		doc, err := Load(full[:n])
		if n < notesStart {
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("len %d: got %v, want ErrTruncated", n, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("len %d: note data is optional, got %v", n, err)
		}
		// Partial notes may fail but must not panic.
		_, _ = DecodeNotes(doc, full[:n])
	}
}
