package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ndtam/vod-transcode-be/internal/api/domain"
	"github.com/ndtam/vod-transcode-be/internal/api/model"
	"github.com/ndtam/vod-transcode-be/shared/postgresql"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) CreateMedia(ctx context.Context, media *model.Media) error {
	query := `
		INSERT INTO media (
			media_id, title, source_file_path, thumbnail,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		media.MediaID,
		media.Title,
		media.SourceFilePath,
		media.Thumbnail,
		media.Status,
		media.CreatedAt,
		media.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}

	return nil
}

func (s *Storage) GetMediaByID(ctx context.Context, mediaID string) (*model.Media, error) {
	var media model.Media
	query := `
		SELECT
			media_id, title, source_file_path, thumbnail,
			status, created_at, updated_at
		FROM media
		WHERE media_id = $1
	`

	err := s.db.GetContext(ctx, &media, query, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}

	return &media, nil
}

// MarkTranscoding moves media into the transcoding status ahead of job
// enqueue. Terminal records are never reopened.
func (s *Storage) MarkTranscoding(ctx context.Context, mediaID string) error {
	query := `
		UPDATE media
		SET status = $1,
		    updated_at = NOW()
		WHERE media_id = $2
		  AND status NOT IN ($3, $4)
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.MediaStatusTranscoding,
		mediaID,
		domain.MediaStatusReady,
		domain.MediaStatusError,
	)
	if err != nil {
		return fmt.Errorf("failed to mark media transcoding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrAlreadyTerminal
	}

	return nil
}

// CompleteTranscode applies a terminal callback outcome to the durable record.
// Repeating the same terminal status is a pure no-op: the record is returned
// untouched, updated_at included, so retried callbacks leave identical state.
// On a ready outcome the default thumbnail is assigned only when none is set.
func (s *Storage) CompleteTranscode(ctx context.Context, mediaID, status, defaultThumbnail string) (*model.Media, error) {
	current, err := s.GetMediaByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if current.Status == status {
		return current, nil
	}

	query := `
		UPDATE media
		SET status = $2,
		    updated_at = NOW(),
		    thumbnail = CASE
		        WHEN $2 = $3 AND thumbnail IS NULL THEN $4
		        ELSE thumbnail
		    END
		WHERE media_id = $1
		RETURNING media_id, title, source_file_path, thumbnail, status, created_at, updated_at
	`

	var media model.Media
	err = s.db.GetContext(ctx, &media, query, mediaID, status, domain.MediaStatusReady, defaultThumbnail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to complete transcode: %w", err)
	}

	return &media, nil
}

func (s *Storage) ListMedia(ctx context.Context) ([]model.Media, error) {
	query := `
		SELECT
			media_id, title, source_file_path, thumbnail,
			status, created_at, updated_at
		FROM media
		ORDER BY created_at DESC, media_id DESC
	`

	var media []model.Media
	if err := s.db.SelectContext(ctx, &media, query); err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	return media, nil
}
