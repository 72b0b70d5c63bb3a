package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO insight_analyses
  (id, session_id, topic, kind, content, model, archive_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  kind=EXCLUDED.kind,
  content=EXCLUDED.content,
  archive_url=EXCLUDED.archive_url;
`
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		a.ID, stringOrDash(a.SessionID), string(a.Topic), string(a.Kind),
		a.Content, stringOrDash(a.Model), a.ArchiveURL, createdAt,
	)
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, session_id, topic, kind, content, model, archive_url, created_at
FROM insight_analyses
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var a domain.Record
		var topic, kind string
		if err := rows.Scan(&a.ID, &a.SessionID, &topic, &kind, &a.Content, &a.Model, &a.ArchiveURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Topic = domain.Topic(topic)
		a.Kind = domain.ResultKind(kind)
		out = append(out, &a)
	}
	return out, rows.Err()
}

// EnsureSchema creates the history table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS insight_analyses (
  id          TEXT        PRIMARY KEY,
  session_id  TEXT        NOT NULL,
  topic       TEXT        NOT NULL,
  kind        TEXT        NOT NULL,
  content     TEXT        NOT NULL,
  model       TEXT        NOT NULL,
  archive_url TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_insight_analyses_created ON insight_analyses (created_at DESC);`
	_, err := db.ExecContext(ctx, q)
	return err
}
