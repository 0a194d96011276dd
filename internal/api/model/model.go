package model

import (
	"database/sql"
	"time"
)

type Media struct {
	MediaID        string         `db:"media_id"`
	Title          string         `db:"title"`
	SourceFilePath string         `db:"source_file_path"`
	Thumbnail      sql.NullString `db:"thumbnail"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}
