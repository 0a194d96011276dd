package dto

type EnqueueTranscodeRequest struct {
	MediaID    string `json:"media_id"`
	Title      string `json:"title" binding:"required"`
	SourcePath string `json:"source_path" binding:"required"`
	OutputDir  string `json:"output_dir"`
}

type EnqueueTranscodeResponse struct {
	MediaID   string `json:"media_id"`
	Status    string `json:"status"`
	OutputDir string `json:"output_dir"`
}

// TranscodeJobPayload is the queue message consumed by the worker tier.
type TranscodeJobPayload struct {
	MediaID    string `json:"media_id"`
	SourcePath string `json:"source_path"`
	OutputDir  string `json:"output_dir"`
}

type TranscodeCallbackRequest struct {
	MediaID string `json:"media_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

type ProgressWriteRequest struct {
	MediaID  string `json:"media_id" binding:"required"`
	Progress int    `json:"progress"`
}

type ProgressResponse struct {
	Progress int `json:"progress"`
}

type MediaProgressDTO struct {
	MediaID  string `json:"media_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

type ListMediaResponse struct {
	Media []MediaProgressDTO `json:"media"`
}
