package codec

import "errors"

var (
	// ErrCodecNotFound is returned when no codec is registered under a name
	ErrCodecNotFound = errors.New("codec not found")

	// ErrUnknownFormat is returned when no registered codec recognizes the data
	ErrUnknownFormat = errors.New("unknown image format")
)
