package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ndtam/vod-transcode-be/internal/api/domain"
	"github.com/ndtam/vod-transcode-be/internal/api/dto"
	"github.com/ndtam/vod-transcode-be/internal/api/model"
	"github.com/ndtam/vod-transcode-be/internal/progress"
)

// EnqueueTranscode handles POST /api/v1/media
// Registers a media record and enqueues its transcode job.
func (h *MediaHandler) EnqueueTranscode(c *gin.Context) {
	var req dto.EnqueueTranscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	ctx := c.Request.Context()

	mediaID := req.MediaID
	if mediaID == "" {
		mediaID = uuid.New().String()
	}

	existing, err := h.store.GetMediaByID(ctx, mediaID)
	switch {
	case err == nil:
		if domain.IsTerminal(existing.Status) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "media already has a terminal outcome",
			})
			return
		}
	case errors.Is(err, domain.ErrMediaNotFound):
		now := time.Now()
		media := model.Media{
			MediaID:        mediaID,
			Title:          req.Title,
			SourceFilePath: req.SourcePath,
			Status:         domain.MediaStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := h.store.CreateMedia(ctx, &media); err != nil {
			h.logger.Error("Failed to create media", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create media",
			})
			return
		}
	default:
		h.logger.Error("Failed to load media", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load media",
		})
		return
	}

	// The record enters transcoding before the job is visible to any worker,
	// so the core never transitions pending directly to a terminal status.
	if err := h.store.MarkTranscoding(ctx, mediaID); err != nil {
		if errors.Is(err, domain.ErrAlreadyTerminal) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "media already has a terminal outcome",
			})
			return
		}
		h.logger.Error("Failed to mark media transcoding", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update media status",
		})
		return
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = path.Join("data", "videos", mediaID, "transcoded")
	}

	payload := dto.TranscodeJobPayload{
		MediaID:    mediaID,
		SourcePath: req.SourcePath,
		OutputDir:  outputDir,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal job payload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to enqueue transcode job",
		})
		return
	}

	if err := h.publisher.PublishWithRetry(ctx, body, "application/json"); err != nil {
		h.logger.Error("Failed to publish transcode job",
			slog.String("media_id", mediaID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to enqueue transcode job",
		})
		return
	}

	h.logger.Info("Transcode job enqueued",
		slog.String("media_id", mediaID),
		slog.String("output_dir", outputDir),
	)

	c.JSON(http.StatusAccepted, dto.EnqueueTranscodeResponse{
		MediaID:   mediaID,
		Status:    domain.MediaStatusTranscoding,
		OutputDir: outputDir,
	})
}

// TranscodeCallback handles POST /api/v1/media/transcode/callback
// The single state-transition authority for terminal outcomes. The route is
// guarded by the shared-token middleware; by the time this runs the caller
// is trusted.
func (h *MediaHandler) TranscodeCallback(c *gin.Context) {
	var req dto.TranscodeCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid callback body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if !domain.IsValidTerminal(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be \"ready\" or \"error\"",
		})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.store.GetMediaByID(ctx, req.MediaID); err != nil {
		if errors.Is(err, domain.ErrMediaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "media not found",
			})
			return
		}
		h.logger.Error("Failed to load media", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load media",
		})
		return
	}

	// Cache entry goes first and unconditionally. A cache failure degrades
	// progress reads but must never block the terminal transition.
	if err := h.cache.Delete(ctx, req.MediaID); err != nil {
		h.logger.Warn("Failed to delete progress entry",
			slog.String("media_id", req.MediaID),
			slog.String("error", err.Error()),
		)
	}

	media, err := h.store.CompleteTranscode(ctx, req.MediaID, req.Status, domain.DefaultThumbnail(req.MediaID))
	if err != nil {
		if errors.Is(err, domain.ErrMediaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "media not found",
			})
			return
		}
		h.logger.Error("Failed to complete transcode",
			slog.String("media_id", req.MediaID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to complete transcode",
		})
		return
	}

	h.logger.Info("Transcode completed",
		slog.String("media_id", media.MediaID),
		slog.String("status", media.Status),
	)

	c.JSON(http.StatusOK, gin.H{
		"media_id": media.MediaID,
		"status":   media.Status,
	})
}

// WriteProgress handles POST /api/v1/media/progress
// Best-effort percent reports from the transcoder. Cache trouble is logged,
// not surfaced: the reporter has nothing useful to do about it.
func (h *MediaHandler) WriteProgress(c *gin.Context) {
	var req dto.ProgressWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if err := h.cache.Set(c.Request.Context(), req.MediaID, req.Progress); err != nil {
		h.logger.Warn("Failed to write progress entry",
			slog.String("media_id", req.MediaID),
			slog.String("error", err.Error()),
		)
	}

	c.Status(http.StatusOK)
}

// GetProgress handles GET /api/v1/media/progress?media_id=<id>
// The durable record is authoritative: a ready media is always 100, whatever
// stale value the cache still holds.
func (h *MediaHandler) GetProgress(c *gin.Context) {
	mediaID := c.Query("media_id")
	if mediaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "media_id is required",
		})
		return
	}

	ctx := c.Request.Context()

	media, err := h.store.GetMediaByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, domain.ErrMediaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "media not found",
			})
			return
		}
		h.logger.Error("Failed to load media", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load media",
		})
		return
	}

	c.JSON(http.StatusOK, dto.ProgressResponse{
		Progress: h.mergedProgress(c, media),
	})
}

// ListMedia handles GET /api/v1/media
// Returns all media with their merged durable status and cached progress.
func (h *MediaHandler) ListMedia(c *gin.Context) {
	media, err := h.store.ListMedia(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list media", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list media",
		})
		return
	}

	items := make([]dto.MediaProgressDTO, len(media))
	for i := range media {
		items[i] = dto.MediaProgressDTO{
			MediaID:  media[i].MediaID,
			Status:   media[i].Status,
			Progress: h.mergedProgress(c, &media[i]),
		}
	}

	c.JSON(http.StatusOK, dto.ListMediaResponse{Media: items})
}

// mergedProgress merges durable status with the ephemeral cache value,
// degrading to 0 when the cache is unavailable.
func (h *MediaHandler) mergedProgress(c *gin.Context, media *model.Media) int {
	if media.Status == domain.MediaStatusReady {
		return 100
	}

	percent, ok, err := h.cache.Get(c.Request.Context(), media.MediaID)
	if err != nil {
		h.logger.Warn("Progress cache unavailable, reporting 0",
			slog.String("media_id", media.MediaID),
			slog.String("error", err.Error()),
		)
		return 0
	}
	if !ok {
		return 0
	}

	return progress.ClampPercent(percent)
}
