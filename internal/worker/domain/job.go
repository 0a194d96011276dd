package domain

import "fmt"

// Terminal outcomes reported through the completion callback.
const (
	StatusReady = "ready"
	StatusError = "error"
)

// TranscodeJob is the queue payload for one transcode.
type TranscodeJob struct {
	MediaID    string `json:"media_id"`
	SourcePath string `json:"source_path"`
	OutputDir  string `json:"output_dir"`
}

// Validate checks that every field a transcode needs is present.
func (j *TranscodeJob) Validate() error {
	if j.MediaID == "" {
		return fmt.Errorf("%w: media_id is empty", ErrInvalidPayload)
	}
	if j.SourcePath == "" {
		return fmt.Errorf("%w: source_path is empty", ErrInvalidPayload)
	}
	if j.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is empty", ErrInvalidPayload)
	}
	return nil
}

// JobMessage pairs a parsed job with its RabbitMQ delivery tag for ack/nack.
type JobMessage struct {
	Job         TranscodeJob
	DeliveryTag uint64
}
