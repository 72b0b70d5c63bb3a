package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO insight_analyses
  (id, session_id, topic, kind, content, model, archive_url, created_at)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  kind=VALUES(kind), content=VALUES(content), archive_url=VALUES(archive_url);
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
LIMIT ? OFFSET ?;
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
		var created time.Time
		if err := rows.Scan(&a.ID, &a.SessionID, &topic, &kind, &a.Content, &a.Model, &a.ArchiveURL, &created); err != nil {
			return nil, err
		}
		a.Topic = domain.Topic(topic)
		a.Kind = domain.ResultKind(kind)
		a.CreatedAt = created
		out = append(out, &a)
	}
	return out, rows.Err()
}

// EnsureSchema creates the history table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS insight_analyses (
  id          VARCHAR(64)  NOT NULL PRIMARY KEY,
  session_id  VARCHAR(64)  NOT NULL,
  topic       VARCHAR(32)  NOT NULL,
  kind        VARCHAR(16)  NOT NULL,
  content     MEDIUMTEXT   NOT NULL,
  model       VARCHAR(128) NOT NULL,
  archive_url VARCHAR(512) NOT NULL DEFAULT '',
  created_at  DATETIME(3)  NOT NULL,
  INDEX idx_insight_analyses_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := db.ExecContext(ctx, q)
	return err
}

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
