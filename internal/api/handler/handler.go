package handler

import (
	"context"
	"log/slog"

	"github.com/ndtam/vod-transcode-be/internal/api/model"
)

// MediaStore is the durable media record surface the handlers need.
// Implemented by storage.Storage.
type MediaStore interface {
	CreateMedia(ctx context.Context, media *model.Media) error
	GetMediaByID(ctx context.Context, mediaID string) (*model.Media, error)
	MarkTranscoding(ctx context.Context, mediaID string) error
	CompleteTranscode(ctx context.Context, mediaID, status, defaultThumbnail string) (*model.Media, error)
	ListMedia(ctx context.Context) ([]model.Media, error)
}

// ProgressCache is the ephemeral progress surface. Implemented by
// progress.Cache.
type ProgressCache interface {
	Set(ctx context.Context, mediaID string, percent int) error
	Get(ctx context.Context, mediaID string) (int, bool, error)
	Delete(ctx context.Context, mediaID string) error
}

// JobPublisher enqueues transcode jobs. Implemented by rabbitmq.Client.
type JobPublisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// HealthCheck names a dependency probe for the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger        *slog.Logger
	Store         MediaStore
	Cache         ProgressCache
	Publisher     JobPublisher
	CallbackToken string
	HealthChecks  []HealthCheck
}

// MediaHandler handles media transcode HTTP requests
type MediaHandler struct {
	logger    *slog.Logger
	store     MediaStore
	cache     ProgressCache
	publisher JobPublisher
}

// NewMediaHandler creates a new MediaHandler instance
func NewMediaHandler(deps *Dependencies) *MediaHandler {
	return &MediaHandler{
		logger:    deps.Logger,
		store:     deps.Store,
		cache:     deps.Cache,
		publisher: deps.Publisher,
	}
}
