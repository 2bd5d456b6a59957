package sspm

import "bytes"

var (
	oggMagic = []byte{0x4F, 0x67, 0x67, 0x53}
	id3Magic = []byte{0x49, 0x44, 0x33}
	mp3Sync  = [][]byte{{0xFF, 0xFB}, {0xFF, 0xF3}, {0xFF, 0xFA}, {0xFF, 0xF2}}
)

// SniffAudio classifies an audio stream from its first bytes. Fewer than four
// bytes is always MusicUnknown.
func SniffAudio(prefix []byte) MusicFormat {
	if len(prefix) < 4 {
		return MusicUnknown
	}
	if bytes.HasPrefix(prefix, oggMagic) {
		return MusicOgg
	}
	for _, sync := range mp3Sync {
		if bytes.HasPrefix(prefix, sync) {
			return MusicMP3
		}
	}
	if bytes.HasPrefix(prefix, id3Magic) {
		return MusicMP3
	}
	return MusicUnknown
}

// ContentType returns the MIME type served for the format.
func (f MusicFormat) ContentType() string {
	switch f {
	case MusicOgg, MusicMP3:
		return "audio/" + string(f)
	default:
		return "application/octet-stream"
	}
}
