package sspm

// Links are the URL prefixes joined with the map id to build the public
// download, audio, cover and text export links.
type Links struct {
	Download string `yaml:"download_path_prefix"`
	Audio    string `yaml:"audio_path_prefix"`
	Cover    string `yaml:"cover_path_prefix"`
	Text     string `yaml:"txt_path_prefix"`
}

// Clean is the presentation-ready metadata record. Field names are part of
// the public JSON API.
type Clean struct {
	ID       string  `json:"id"`
	Download string  `json:"download"`
	Audio    *string `json:"audio"`
	Cover    *string `json:"cover"`
	Text     string  `json:"txt"`

	Version         uint16      `json:"version"`
	Name            string      `json:"name"`
	Song            string      `json:"song"`
	Author          []string    `json:"author"`
	Difficulty      Difficulty  `json:"difficulty"`
	DifficultyName  string      `json:"difficulty_name"`
	Stars           int         `json:"stars"`
	LengthMS        uint32      `json:"length_ms"`
	NoteCount       uint32      `json:"note_count"`
	MarkerCount     uint32      `json:"marker_count"`
	HasCover        bool        `json:"has_cover"`
	Broken          bool        `json:"broken"`
	MusicFormat     MusicFormat `json:"music_format,omitempty"`
	Tags            []string    `json:"tags"`
	ContentWarnings []string    `json:"content_warnings"`
}

// Clean projects the document into its public record. The audio and cover
// links are null when the asset is not available.
func (d *Document) Clean(links Links) Clean {
	out := Clean{
		ID:              d.ID,
		Download:        links.Download + d.ID,
		Text:            links.Text + d.ID,
		Version:         d.Version,
		Name:            d.Name,
		Song:            d.Song,
		Author:          nonNil(d.Authors),
		Difficulty:      d.Difficulty,
		DifficultyName:  d.DifficultyName,
		Stars:           d.Stars,
		LengthMS:        d.LengthMS,
		NoteCount:       d.NoteCount,
		MarkerCount:     d.MarkerCount,
		HasCover:        d.HasCover,
		Broken:          d.Broken,
		MusicFormat:     d.MusicFormat,
		Tags:            nonNil(d.Tags),
		ContentWarnings: nonNil(d.ContentWarnings),
	}
	if !d.Broken && d.MusicRange != nil {
		s := links.Audio + d.ID
		out.Audio = &s
	}
	if d.HasCover && d.CoverRange != nil {
		s := links.Cover + d.ID
		out.Cover = &s
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
