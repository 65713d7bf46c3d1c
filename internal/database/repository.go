package database

import (
	"context"
	"errors"

	"github.com/medigraph/medigraph-api/internal/database/models"
)

var (
	ErrNotFound = errors.New("record not found")
)

// FeedbackRepository handles the append-only feedback log.
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, fb *models.Feedback) (int64, error)
	ListFeedback(ctx context.Context, limit int) ([]*models.Feedback, error)
}
