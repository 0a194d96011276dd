package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ndtam/vod-transcode-be/internal/worker/domain"
)

// Transcoder runs the external encoder for one job. The concrete encoder is
// substitutable; the worker only cares about the outcome.
type Transcoder interface {
	Execute(ctx context.Context, job domain.TranscodeJob) error
}

// CommandTranscoder invokes an opaque external command with the positional
// contract `source outputDir mediaID authToken`. The command may report
// fine-grained progress itself, using the token against the serving tier.
type CommandTranscoder struct {
	command string
	token   string
	logger  *slog.Logger
}

func NewCommandTranscoder(command, token string, logger *slog.Logger) *CommandTranscoder {
	return &CommandTranscoder{
		command: command,
		token:   token,
		logger:  logger,
	}
}

// Execute runs the transcoder under ctx. Success requires both a zero exit
// and at least one rendition artifact in the output directory; anything
// else, including a timeout, is a transcode failure.
func (t *CommandTranscoder) Execute(ctx context.Context, job domain.TranscodeJob) error {
	cmd := exec.CommandContext(ctx, t.command, job.SourcePath, job.OutputDir, job.MediaID, t.token)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	t.logger.Info("Invoking transcoder",
		slog.String("command", t.command),
		slog.String("media_id", job.MediaID),
		slog.String("source", job.SourcePath),
		slog.String("output_dir", job.OutputDir),
	)

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: timed out: %v", domain.ErrTranscodeFailed, ctx.Err())
		}

		stderr := lastLine(stderrBuf.String())
		if stderr != "" {
			return fmt.Errorf("%w: %v: %s", domain.ErrTranscodeFailed, err, stderr)
		}
		return fmt.Errorf("%w: %v", domain.ErrTranscodeFailed, err)
	}

	return checkArtifacts(job.OutputDir)
}

// checkArtifacts verifies the output directory holds at least one rendition.
func checkArtifacts(outputDir string) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMissingArtifacts, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			return nil
		}
	}

	return fmt.Errorf("%w: %s is empty", domain.ErrMissingArtifacts, outputDir)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
