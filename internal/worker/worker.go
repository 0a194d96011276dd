package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ndtam/vod-transcode-be/internal/worker/callback"
	"github.com/ndtam/vod-transcode-be/internal/worker/domain"
	"github.com/ndtam/vod-transcode-be/internal/worker/transcoder"
	"github.com/ndtam/vod-transcode-be/shared/rabbitmq"
)

// ProgressCache is the slice of the progress store the worker writes to.
// Implemented by progress.Cache.
type ProgressCache interface {
	Set(ctx context.Context, mediaID string, percent int) error
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Cache         ProgressCache
	Transcoder    transcoder.Transcoder
	Callback      callback.Sender
	Concurrency   int
	JobTimeout    time.Duration
	PrefetchCount int
}

// Worker drains transcode jobs from the queue through a bounded goroutine
// pool. Each slot runs one job at a time and blocks for the full transcode;
// concurrency comes from pool width.
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	cache         ProgressCache
	transcoder    transcoder.Transcoder
	callback      callback.Sender
	concurrency   int
	jobTimeout    time.Duration
	prefetchCount int
	workerID      string
	jobsChan      chan *domain.JobMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		cache:         cfg.Cache,
		transcoder:    cfg.Transcoder,
		callback:      cfg.Callback,
		concurrency:   cfg.Concurrency,
		jobTimeout:    cfg.JobTimeout,
		prefetchCount: cfg.PrefetchCount,
		workerID:      fmt.Sprintf("worker-%s", uuid.New().String()[:8]),
		jobsChan:      make(chan *domain.JobMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and processing jobs. It blocks until ctx is
// canceled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker pool
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
