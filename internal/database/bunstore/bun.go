package bunstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medigraph/medigraph-api/internal/database/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// BunStore implements database.FeedbackRepository on a local SQLite file.
type BunStore struct {
	db *bun.DB
}

// NewBunStore wraps the sql connection and creates the feedback table if absent.
func NewBunStore(db *sql.DB, dialect schema.Dialect) (*BunStore, error) {
	bunDB := bun.NewDB(db, dialect)

	store := &BunStore{db: bunDB}

	ctx := context.Background()
	if _, err := bunDB.NewCreateTable().Model((*models.Feedback)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create feedback table: %w", err)
	}

	return store, nil
}

// CreateFeedback appends one feedback record and returns its id.
func (s *BunStore) CreateFeedback(ctx context.Context, fb *models.Feedback) (int64, error) {
	if _, err := s.db.NewInsert().Model(fb).Exec(ctx); err != nil {
		return 0, err
	}
	return fb.ID, nil
}

// ListFeedback returns the most recent feedback records, newest first.
func (s *BunStore) ListFeedback(ctx context.Context, limit int) ([]*models.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}
	var fbs []*models.Feedback
	if err := s.db.NewSelect().Model(&fbs).Order("created_at DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, err
	}
	return fbs, nil
}
