package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ndtam/vod-transcode-be/internal/worker/callback"
	"github.com/ndtam/vod-transcode-be/internal/worker/domain"
)

// processJob runs one transcode attempt and reports exactly one terminal
// outcome through the completion callback. A nil return acks the delivery;
// an error return nacks it, with requeue decided by shouldRequeueJob.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	job := msg.Job

	if err := job.Validate(); err != nil {
		w.logger.Error("Invalid job payload",
			slog.String("media_id", job.MediaID),
			slog.String("error", err.Error()),
		)

		// Without a media id there is nothing to report against.
		if job.MediaID == "" {
			return err
		}

		// Broken payloads are terminal immediately: report error, no retry.
		if cbErr := w.reportOutcome(ctx, job.MediaID, domain.StatusError); cbErr != nil {
			return cbErr
		}
		return err
	}

	// Seed the progress entry so polls show 0 instead of absent while the
	// transcoder warms up. Best-effort only.
	if err := w.cache.Set(ctx, job.MediaID, 0); err != nil {
		w.logger.Warn("Failed to seed progress entry",
			slog.String("media_id", job.MediaID),
			slog.String("error", err.Error()),
		)
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	execErr := w.transcoder.Execute(jobCtx, job)

	status := domain.StatusReady
	if execErr != nil {
		status = domain.StatusError
		w.logger.Error("Transcode failed",
			slog.String("media_id", job.MediaID),
			slog.String("error", execErr.Error()),
		)
	}

	if err := w.reportOutcome(ctx, job.MediaID, status); err != nil {
		return err
	}

	// The outcome is durably recorded either way; a failed transcode is not
	// re-enqueued.
	w.logger.Info("Job finished",
		slog.String("media_id", job.MediaID),
		slog.String("status", status),
	)

	return nil
}

// reportOutcome delivers the terminal callback. Transient delivery failures
// come back as retryable so the delivery is requeued; the callback endpoint
// is idempotent, so a duplicate report on redelivery is harmless.
func (w *Worker) reportOutcome(ctx context.Context, mediaID, status string) error {
	err := w.callback.Send(ctx, mediaID, status)
	if err == nil {
		return nil
	}

	if errors.Is(err, callback.ErrUnauthorized) || errors.Is(err, callback.ErrMediaNotFound) {
		// Permanent rejections: redelivery would hit the same wall.
		return fmt.Errorf("callback permanently rejected for %s: %w", mediaID, err)
	}

	return domain.NewRetryableError(fmt.Errorf("failed to deliver callback for %s: %w", mediaID, err))
}
