package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summarly/summarly-backend/internal/config"
	"github.com/summarly/summarly-backend/internal/models"
	"github.com/summarly/summarly-backend/internal/repository"
	"github.com/summarly/summarly-backend/internal/summarizer"
)

// fakeSummaryRepo is an in-memory SummaryRepository for service tests
type fakeSummaryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Summary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{items: make(map[uuid.UUID]*models.Summary)}
}

func (r *fakeSummaryRepo) Create(_ context.Context, summary *models.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary.ID = uuid.New()
	summary.CreatedAt = time.Now()
	summary.UpdatedAt = summary.CreatedAt
	stored := *summary
	r.items[summary.ID] = &stored
	return nil
}

func (r *fakeSummaryRepo) Query(_ context.Context, filter repository.SummaryFilter, opts repository.SummaryQueryOptions, userID uuid.UUID) (*models.SummaryPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Summary
	for _, s := range r.items {
		if s.UserID != userID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(s.OriginalText), needle) &&
				!strings.Contains(strings.ToLower(s.Summary), needle) &&
				!strings.Contains(strings.ToLower(s.TitleOrEmpty()), needle) {
				continue
			}
		}
		copied := *s
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	totalPages := (total + limit - 1) / limit

	return &models.SummaryPage{
		Results:      matched[start:end],
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}

func (r *fakeSummaryRepo) GetByID(_ context.Context, id, userID uuid.UUID) (*models.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSummaryRepo) Update(_ context.Context, id, userID uuid.UUID, updates map[string]interface{}) (*models.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	if title, ok := updates["title"].(string); ok {
		s.Title = sql.NullString{String: title, Valid: true}
	}
	s.UpdatedAt = time.Now()
	copied := *s
	return &copied, nil
}

func (r *fakeSummaryRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func extendedConfig() config.SummaryConfig {
	return config.SummaryConfig{
		Preset:           config.PresetExtended,
		MinTextLength:    10,
		MaxTextLength:    50000,
		Styles:           []string{"paragraph", "bullets", "outline"},
		AllowTitleUpdate: true,
	}
}

func newTestService(cfg config.SummaryConfig) (*SummaryService, *fakeSummaryRepo) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	repo := newFakeSummaryRepo()
	return NewSummaryService(repo, summarizer.NewMockEngine(), cfg, logger), repo
}

const sampleText = "The quick brown fox jumps over the lazy dog while the patient observer takes careful notes about everything"

func TestSummaryService_CreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestService(extendedConfig())
	userID := uuid.New()

	summary, err := svc.Create(context.Background(), userID, sampleText, "", "")
	require.NoError(t, err)

	assert.Equal(t, models.LengthMedium, summary.Length)
	assert.Equal(t, models.StyleParagraph, summary.Style)
	assert.Equal(t, userID, summary.UserID)
	assert.NotEqual(t, uuid.Nil, summary.ID)
	assert.NotEmpty(t, summary.Summary)
	assert.Positive(t, summary.WordCount)
	assert.Positive(t, summary.CharacterCount)
}

func TestSummaryService_CreateDerivesTitle(t *testing.T) {
	svc, _ := newTestService(extendedConfig())

	summary, err := svc.Create(context.Background(), uuid.New(), sampleText, "short", "paragraph")
	require.NoError(t, err)
	assert.Equal(t, "The quick brown fox jumps...", summary.TitleOrEmpty())
}

func TestSummaryService_CreateValidation(t *testing.T) {
	svc, _ := newTestService(extendedConfig())
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, "   ", "medium", "paragraph")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.Create(ctx, userID, "too short", "medium", "paragraph")
	assert.ErrorIs(t, err, ErrTextTooShort)

	_, err = svc.Create(ctx, userID, strings.Repeat("a", 50001), "medium", "paragraph")
	assert.ErrorIs(t, err, ErrTextTooLong)

	_, err = svc.Create(ctx, userID, sampleText, "gigantic", "paragraph")
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = svc.Create(ctx, userID, sampleText, "medium", "haiku")
	assert.ErrorIs(t, err, ErrInvalidStyle)
}

func TestSummaryService_StylesFollowConfig(t *testing.T) {
	cfg := extendedConfig()
	cfg.Styles = []string{"paragraph", "bullet", "numbered"}
	svc, _ := newTestService(cfg)

	_, err := svc.Create(context.Background(), uuid.New(), sampleText, "medium", "bullet")
	assert.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), sampleText, "medium", "bullets")
	assert.ErrorIs(t, err, ErrInvalidStyle)
}

func TestSummaryService_GetByIDScopedToOwner(t *testing.T) {
	svc, _ := newTestService(extendedConfig())
	owner := uuid.New()
	stranger := uuid.New()

	created, err := svc.Create(context.Background(), owner, sampleText, "medium", "paragraph")
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByID(context.Background(), stranger, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummaryService_QueryPaginatesPerUser(t *testing.T) {
	svc, _ := newTestService(extendedConfig())
	owner := uuid.New()
	other := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, owner, sampleText, "medium", "paragraph")
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, other, sampleText, "medium", "paragraph")
	require.NoError(t, err)

	page, err := svc.Query(ctx, owner, repository.SummaryFilter{}, repository.SummaryQueryOptions{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, 3, page.TotalResults)
	assert.Equal(t, 2, page.TotalPages)
}

func TestSummaryService_UpdateTitle(t *testing.T) {
	svc, _ := newTestService(extendedConfig())
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, sampleText, "medium", "paragraph")
	require.NoError(t, err)

	updated, err := svc.UpdateTitle(ctx, owner, created.ID, "My notes")
	require.NoError(t, err)
	assert.Equal(t, "My notes", updated.TitleOrEmpty())

	_, err = svc.UpdateTitle(ctx, owner, created.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.UpdateTitle(ctx, owner, created.ID, strings.Repeat("x", 201))
	assert.ErrorIs(t, err, ErrTitleTooLong)

	_, err = svc.UpdateTitle(ctx, uuid.New(), created.ID, "Someone else")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummaryService_UpdateTitleDisabledByConfig(t *testing.T) {
	cfg := extendedConfig()
	cfg.AllowTitleUpdate = false
	svc, _ := newTestService(cfg)

	_, err := svc.UpdateTitle(context.Background(), uuid.New(), uuid.New(), "New title")
	assert.ErrorIs(t, err, ErrUpdateDisabled)
}

func TestSummaryService_Delete(t *testing.T) {
	svc, repo := newTestService(extendedConfig())
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, sampleText, "medium", "paragraph")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	assert.Empty(t, repo.items)

	assert.ErrorIs(t, svc.Delete(ctx, owner, created.ID), ErrNotFound)
}

func TestSummaryService_GenerateTextDoesNotPersist(t *testing.T) {
	svc, repo := newTestService(extendedConfig())

	result, err := svc.GenerateText(context.Background(), sampleText, "short", "paragraph")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Summary)
	assert.Empty(t, repo.items)
}
