package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ndtam/vod-transcode-be/internal/worker/callback"
	"github.com/ndtam/vod-transcode-be/internal/worker/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscoder struct {
	err   error
	calls int
}

func (f *fakeTranscoder) Execute(ctx context.Context, job domain.TranscodeJob) error {
	f.calls++
	return f.err
}

type sentCallback struct {
	mediaID string
	status  string
}

type fakeSender struct {
	err   error
	calls []sentCallback
}

func (f *fakeSender) Send(ctx context.Context, mediaID, status string) error {
	f.calls = append(f.calls, sentCallback{mediaID: mediaID, status: status})
	return f.err
}

type fakeCache struct {
	err  error
	sets map[string]int
}

func (f *fakeCache) Set(ctx context.Context, mediaID string, percent int) error {
	if f.sets == nil {
		f.sets = make(map[string]int)
	}
	f.sets[mediaID] = percent
	return f.err
}

func newTestWorker(tr *fakeTranscoder, cb *fakeSender, cache *fakeCache) *Worker {
	return &Worker{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:      cache,
		transcoder: tr,
		callback:   cb,
		jobTimeout: time.Minute,
	}
}

func validMessage() *domain.JobMessage {
	return &domain.JobMessage{
		Job: domain.TranscodeJob{
			MediaID:    "V1",
			SourcePath: "data/videos/V1/original.mp4",
			OutputDir:  "data/videos/V1/transcoded",
		},
		DeliveryTag: 1,
	}
}

func TestProcessJob_SuccessReportsReady(t *testing.T) {
	tr := &fakeTranscoder{}
	cb := &fakeSender{}
	cache := &fakeCache{}
	w := newTestWorker(tr, cb, cache)

	err := w.processJob(context.Background(), validMessage())
	require.NoError(t, err)

	assert.Equal(t, 1, tr.calls)
	require.Len(t, cb.calls, 1)
	assert.Equal(t, sentCallback{mediaID: "V1", status: domain.StatusReady}, cb.calls[0])
	assert.Equal(t, 0, cache.sets["V1"])
}

func TestProcessJob_TranscodeFailureReportsErrorAndAcks(t *testing.T) {
	tr := &fakeTranscoder{err: fmt.Errorf("%w: exit status 1", domain.ErrTranscodeFailed)}
	cb := &fakeSender{}
	w := newTestWorker(tr, cb, &fakeCache{})

	err := w.processJob(context.Background(), validMessage())

	// No automatic retry: the outcome is reported and the delivery acked.
	require.NoError(t, err)
	require.Len(t, cb.calls, 1)
	assert.Equal(t, sentCallback{mediaID: "V1", status: domain.StatusError}, cb.calls[0])
}

func TestProcessJob_InvalidPayloadReportsErrorImmediately(t *testing.T) {
	tr := &fakeTranscoder{}
	cb := &fakeSender{}
	w := newTestWorker(tr, cb, &fakeCache{})

	msg := validMessage()
	msg.Job.SourcePath = ""

	err := w.processJob(context.Background(), msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.False(t, w.shouldRequeueJob(err))

	// The transcoder never ran, but the error outcome was still reported.
	assert.Equal(t, 0, tr.calls)
	require.Len(t, cb.calls, 1)
	assert.Equal(t, sentCallback{mediaID: "V1", status: domain.StatusError}, cb.calls[0])
}

func TestProcessJob_MissingMediaIDCannotReport(t *testing.T) {
	cb := &fakeSender{}
	w := newTestWorker(&fakeTranscoder{}, cb, &fakeCache{})

	msg := validMessage()
	msg.Job.MediaID = ""

	err := w.processJob(context.Background(), msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.False(t, w.shouldRequeueJob(err))
	assert.Empty(t, cb.calls)
}

func TestProcessJob_CallbackDeliveryFailureIsRetryable(t *testing.T) {
	cb := &fakeSender{err: errors.New("connection refused")}
	w := newTestWorker(&fakeTranscoder{}, cb, &fakeCache{})

	err := w.processJob(context.Background(), validMessage())
	require.Error(t, err)
	assert.True(t, w.shouldRequeueJob(err))
}

func TestProcessJob_CallbackPermanentRejectionNotRetried(t *testing.T) {
	tests := []struct {
		name    string
		sendErr error
	}{
		{"unauthorized", callback.ErrUnauthorized},
		{"unknown media", callback.ErrMediaNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &fakeSender{err: tt.sendErr}
			w := newTestWorker(&fakeTranscoder{}, cb, &fakeCache{})

			err := w.processJob(context.Background(), validMessage())
			require.Error(t, err)
			assert.False(t, w.shouldRequeueJob(err))
		})
	}
}

func TestProcessJob_CacheFailureDoesNotBlockProcessing(t *testing.T) {
	cb := &fakeSender{}
	cache := &fakeCache{err: errors.New("redis down")}
	w := newTestWorker(&fakeTranscoder{}, cb, cache)

	err := w.processJob(context.Background(), validMessage())
	require.NoError(t, err)
	require.Len(t, cb.calls, 1)
	assert.Equal(t, domain.StatusReady, cb.calls[0].status)
}

func TestShouldRequeueJob(t *testing.T) {
	w := newTestWorker(&fakeTranscoder{}, &fakeSender{}, &fakeCache{})

	tests := []struct {
		name    string
		err     error
		requeue bool
	}{
		{"invalid payload", fmt.Errorf("%w: media_id is empty", domain.ErrInvalidPayload), false},
		{"retryable", domain.NewRetryableError(errors.New("timeout")), true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.requeue, w.shouldRequeueJob(tt.err))
		})
	}
}
