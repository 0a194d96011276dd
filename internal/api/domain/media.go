package domain

import (
	"errors"
	"path"
)

// Media status values. Transitions are monotonic:
// pending -> transcoding -> ready | error.
const (
	MediaStatusPending     = "pending"
	MediaStatusTranscoding = "transcoding"
	MediaStatusReady       = "ready"
	MediaStatusError       = "error"
)

var (
	ErrMediaNotFound = errors.New("media not found")

	// ErrAlreadyTerminal is returned when enqueueing a transcode for media
	// whose outcome is already decided.
	ErrAlreadyTerminal = errors.New("media already in a terminal status")
)

// IsTerminal reports whether a status admits no further automatic transition.
func IsTerminal(status string) bool {
	return status == MediaStatusReady || status == MediaStatusError
}

// IsValidTerminal reports whether status is an acceptable callback outcome.
func IsValidTerminal(status string) bool {
	return status == MediaStatusReady || status == MediaStatusError
}

// DefaultThumbnail returns the rendition thumbnail path assigned on a ready
// callback when no thumbnail was set earlier. An existing value always wins.
func DefaultThumbnail(mediaID string) string {
	return path.Join("data", "videos", mediaID, "transcoded", "thumbnail.jpg")
}
