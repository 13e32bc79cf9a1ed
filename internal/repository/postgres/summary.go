package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/summarly/summarly-backend/internal/models"
	"github.com/summarly/summarly-backend/internal/repository"
)

// Columns the history endpoint may sort on, keyed by their API names.
var summarySortColumns = map[string]string{
	"title":          "title",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
	"wordCount":      "word_count",
	"characterCount": "character_count",
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// SummaryRepository implements repository.SummaryRepository using PostgreSQL
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new PostgreSQL summary repository
func NewSummaryRepository(db *sqlx.DB) repository.SummaryRepository {
	return &SummaryRepository{db: db}
}

// Create persists a new summary
func (r *SummaryRepository) Create(ctx context.Context, summary *models.Summary) error {
	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	now := time.Now()
	summary.CreatedAt = now
	summary.UpdatedAt = now

	query := `
		INSERT INTO summaries (id, user_id, original_text, summary, length, style,
		                       word_count, character_count, title, created_at, updated_at)
		VALUES (:id, :user_id, :original_text, :summary, :length, :style,
		        :word_count, :character_count, :title, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, summary)
	return err
}

// Query retrieves one page of summaries for the user
func (r *SummaryRepository) Query(ctx context.Context, filter repository.SummaryFilter, opts repository.SummaryQueryOptions, userID uuid.UUID) (*models.SummaryPage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	// Ownership predicate is always present, everything else is appended
	where := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR summary ILIKE $%d OR original_text ILIKE $%d)", n, n, n))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")
	orderBy := buildOrderBy(opts.SortBy, opts.SortType)

	var totalResults int
	countQuery := "SELECT COUNT(*) FROM summaries WHERE " + whereClause
	if err := r.db.GetContext(ctx, &totalResults, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count summaries: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	listQuery := fmt.Sprintf(`
		SELECT id, user_id, original_text, summary, length, style,
		       word_count, character_count, title, created_at, updated_at
		FROM summaries
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, len(args)-1, len(args))

	results := []*models.Summary{}
	if err := r.db.SelectContext(ctx, &results, listQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}

	return &models.SummaryPage{
		Results:      results,
		Page:         page,
		Limit:        limit,
		TotalPages:   int(math.Ceil(float64(totalResults) / float64(limit))),
		TotalResults: totalResults,
	}, nil
}

// buildOrderBy maps the API sort parameters onto a safe ORDER BY clause
func buildOrderBy(sortBy, sortType string) string {
	switch sortBy {
	case "", "newest":
		return "created_at DESC"
	case "oldest":
		return "created_at ASC"
	}

	column, ok := summarySortColumns[sortBy]
	if !ok {
		return "created_at DESC"
	}
	direction := "DESC"
	if strings.EqualFold(sortType, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}

// GetByID retrieves a summary by ID. A summary owned by another user is
// reported the same way as a missing one.
func (r *SummaryRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Summary, error) {
	var summary models.Summary
	query := `
		SELECT id, user_id, original_text, summary, length, style,
		       word_count, character_count, title, created_at, updated_at
		FROM summaries
		WHERE id = $1 AND user_id = $2
	`

	err := r.db.GetContext(ctx, &summary, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &summary, nil
}

// Update updates a summary's mutable fields
func (r *SummaryRepository) Update(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) (*models.Summary, error) {
	updates["updated_at"] = time.Now()

	setClause := ""
	params := map[string]interface{}{"id": id, "user_id": userID}

	for key, value := range updates {
		if setClause != "" {
			setClause += ", "
		}
		setClause += key + " = :" + key
		params[key] = value
	}

	query := "UPDATE summaries SET " + setClause + " WHERE id = :id AND user_id = :user_id"
	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id, userID)
}

// Delete removes a summary permanently
func (r *SummaryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM summaries WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
