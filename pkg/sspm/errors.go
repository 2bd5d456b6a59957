package sspm

import "errors"

var (
	ErrBadSignature       = errors.New("sspm: invalid file signature")
	ErrCorruptHeader      = errors.New("sspm: header reserved space is not 0")
	ErrUnsupportedVersion = errors.New("sspm: unsupported format version")
	ErrTruncated          = errors.New("sspm: truncated input")
	ErrUnknownTypeTag     = errors.New("sspm: unknown type tag")
	ErrMissingMarkerType  = errors.New("sspm: missing required marker type")
	ErrUnknownMarkerType  = errors.New("sspm: marker references undefined type")
	ErrInvalidNote        = errors.New("sspm: invalid note record")
	ErrNoCover            = errors.New("sspm: file does not have a cover")
	ErrNoAudio            = errors.New("sspm: file does not have audio")
	ErrNoFileLoaded       = errors.New("sspm: no file loaded")
)
