package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bryanwahyu/company-insight/internal/application"
	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
)

// History persists settled analyses. Generated markdown is also archived when
// an ArchiveStore is configured. Either dependency may be nil.
type History struct {
	Repo    domain.Repository
	Archive domain.ArchiveStore
	Clock   application.Clock
}

// Record implements domain.Recorder.
func (h *History) Record(ctx context.Context, r *domain.Record) error {
	if r.ID == "" {
		r.ID = domain.RecordID(uuid.NewString())
	}
	if r.CreatedAt.IsZero() && h.Clock != nil {
		r.CreatedAt = h.Clock.Now()
	}

	if h.Archive != nil && r.Kind == domain.ResultGenerated {
		key := archiveKey(r)
		url, err := h.Archive.Put(ctx, key, []byte(r.Content), "text/markdown; charset=utf-8")
		if err != nil {
			return fmt.Errorf("archive analysis %s: %w", r.ID, err)
		}
		r.ArchiveURL = url
	}

	if h.Repo == nil {
		return nil
	}
	if err := h.Repo.Save(ctx, r); err != nil {
		return fmt.Errorf("save analysis %s: %w", r.ID, err)
	}
	return nil
}

// List returns a page of history, newest first.
func (h *History) List(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if h.Repo == nil {
		return nil, ErrHistoryDisabled
	}
	return h.Repo.Paginate(ctx, page, pageSize)
}

func archiveKey(r *domain.Record) string {
	session := r.SessionID
	if session == "" {
		session = "anonymous"
	}
	return fmt.Sprintf("analyses/%s/%s-%s.md", session, r.Topic, r.ID)
}
