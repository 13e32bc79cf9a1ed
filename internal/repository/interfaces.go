package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/summarly/summarly-backend/internal/models"
)

// SummaryFilter narrows a summary query. Search matches title, summary and
// original text case-insensitively; the date range applies to created_at.
type SummaryFilter struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// SummaryQueryOptions controls pagination and ordering. SortBy accepts the
// sentinels "newest"/"oldest" or a raw column name combined with SortType.
type SummaryQueryOptions struct {
	Page     int
	Limit    int
	SortBy   string
	SortType string
}

// SummaryRepository defines summary storage operations. Every operation is
// scoped to the owning user; a row owned by someone else is indistinguishable
// from a missing row.
type SummaryRepository interface {
	Create(ctx context.Context, summary *models.Summary) error
	Query(ctx context.Context, filter SummaryFilter, opts SummaryQueryOptions, userID uuid.UUID) (*models.SummaryPage, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Summary, error)
	Update(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) (*models.Summary, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// UserRepository defines user storage operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
