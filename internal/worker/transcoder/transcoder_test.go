package transcoder

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ndtam/vod-transcode-be/internal/worker/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJob(outputDir string) domain.TranscodeJob {
	return domain.TranscodeJob{
		MediaID:    "media-1",
		SourcePath: "source.mp4",
		OutputDir:  outputDir,
	}
}

func TestExecute_SuccessWithArtifacts(t *testing.T) {
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "master.m3u8"), []byte("#EXTM3U"), 0o644))

	tr := NewCommandTranscoder("true", "secret", discardLogger())

	err := tr.Execute(context.Background(), testJob(outputDir))
	assert.NoError(t, err)
}

func TestExecute_ZeroExitButNoArtifacts(t *testing.T) {
	tr := NewCommandTranscoder("true", "secret", discardLogger())

	err := tr.Execute(context.Background(), testJob(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingArtifacts)
}

func TestExecute_NonZeroExit(t *testing.T) {
	tr := NewCommandTranscoder("false", "secret", discardLogger())

	err := tr.Execute(context.Background(), testJob(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranscodeFailed)
}

func TestExecute_MissingCommand(t *testing.T) {
	tr := NewCommandTranscoder("/nonexistent/transcoder", "secret", discardLogger())

	err := tr.Execute(context.Background(), testJob(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranscodeFailed)
}

func TestExecute_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	tr := NewCommandTranscoder("true", "secret", discardLogger())

	err := tr.Execute(ctx, testJob(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranscodeFailed)
	assert.Contains(t, err.Error(), "timed out")
}

func TestCheckArtifacts(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		err := checkArtifacts(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, domain.ErrMissingArtifacts)
	})

	t.Run("empty directory", func(t *testing.T) {
		err := checkArtifacts(t.TempDir())
		assert.ErrorIs(t, err, domain.ErrMissingArtifacts)
	})

	t.Run("only subdirectories", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "segments"), 0o755))

		err := checkArtifacts(dir)
		assert.ErrorIs(t, err, domain.ErrMissingArtifacts)
	})

	t.Run("rendition present", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "720p.mp4"), []byte("x"), 0o644))

		assert.NoError(t, checkArtifacts(dir))
	})
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "final error", lastLine("warning\nfinal error\n"))
	assert.Equal(t, "", lastLine(""))
}
