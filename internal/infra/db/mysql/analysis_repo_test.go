package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
)

func TestAnalysisRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	rec := &domain.Record{
		ID:         "a1",
		SessionID:  "s1",
		Topic:      domain.TopicHistory,
		Kind:       domain.ResultGenerated,
		Content:    "## Milestones",
		Model:      "gemini-2.5-flash",
		ArchiveURL: "http://minio/a1.md",
		CreatedAt:  at,
	}

	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
		WithArgs("a1", "s1", "history", "generated", "## Milestones", "gemini-2.5-flash", "http://minio/a1.md", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewAnalysisRepository(db).Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_SaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("deadlock")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO insight_analyses")).WillReturnError(boom)

	err = NewAnalysisRepository(db).Save(context.Background(), &domain.Record{ID: "a1"})
	assert.ErrorIs(t, err, boom)
}

func TestAnalysisRepository_Paginate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT ? OFFSET ?")).
		WithArgs(5, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "topic", "kind", "content", "model", "archive_url", "created_at"}).
			AddRow("a1", "s1", "business_model", "placeholder", domain.PlaceholderContent, "m", "", at))

	out, err := NewAnalysisRepository(db).Paginate(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.TopicBusinessModel, out[0].Topic)
	assert.Equal(t, domain.ResultPlaceholder, out[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStringOrDash(t *testing.T) {
	assert.Equal(t, "-", stringOrDash("  "))
	assert.Equal(t, "x", stringOrDash("x"))
}
