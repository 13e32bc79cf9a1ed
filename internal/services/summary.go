package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/summarly/summarly-backend/internal/config"
	"github.com/summarly/summarly-backend/internal/models"
	"github.com/summarly/summarly-backend/internal/repository"
	"github.com/summarly/summarly-backend/internal/summarizer"
)

const (
	defaultLength = models.LengthMedium
	defaultStyle  = models.StyleParagraph

	// titleWords is how many leading words of the original text form the title
	titleWords = 5
	maxTitle   = 200
)

// SummaryService implements the summary operations shared by the REST
// controllers and the MCP tools.
type SummaryService struct {
	repo   repository.SummaryRepository
	engine summarizer.Engine
	cfg    config.SummaryConfig
	logger *logrus.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(repo repository.SummaryRepository, engine summarizer.Engine, cfg config.SummaryConfig, logger *logrus.Logger) *SummaryService {
	return &SummaryService{
		repo:   repo,
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// Config exposes the active contract points (max length, styles, whether
// title updates are enabled) to the surfaces built on this service.
func (s *SummaryService) Config() config.SummaryConfig {
	return s.cfg
}

// validateInput applies the active generation's text and parameter bounds
func (s *SummaryService) validateInput(text, length, style string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if len(text) > s.cfg.MaxTextLength {
		return ErrTextTooLong
	}
	if len(text) < s.cfg.MinTextLength {
		return ErrTextTooShort
	}
	switch length {
	case models.LengthShort, models.LengthMedium, models.LengthLong:
	default:
		return ErrInvalidLength
	}
	if !s.cfg.StyleAllowed(style) {
		return fmt.Errorf("%w: %s", ErrInvalidStyle, style)
	}
	return nil
}

// Create generates a summary for the text and persists it for the user
func (s *SummaryService) Create(ctx context.Context, userID uuid.UUID, text, length, style string) (*models.Summary, error) {
	if length == "" {
		length = defaultLength
	}
	if style == "" {
		style = defaultStyle
	}
	if err := s.validateInput(text, length, style); err != nil {
		return nil, err
	}

	result, err := s.engine.Summarize(ctx, text, length, style)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	summary := &models.Summary{
		UserID:         userID,
		OriginalText:   text,
		Summary:        result.Summary,
		Length:         length,
		Style:          style,
		WordCount:      result.WordCount,
		CharacterCount: result.CharacterCount,
		Title:          sql.NullString{String: deriveTitle(text), Valid: true},
	}

	if err := s.repo.Create(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"summary_id": summary.ID,
		"user_id":    userID,
		"length":     length,
		"style":      style,
	}).Info("Summary created")

	return summary, nil
}

// deriveTitle takes the first few words of the text, with an ellipsis when
// more remain
func deriveTitle(text string) string {
	words := strings.Fields(text)
	n := titleWords
	if n > len(words) {
		n = len(words)
	}
	title := strings.Join(words[:n], " ")
	if len(words) > titleWords {
		title += "..."
	}
	if len(title) > maxTitle {
		title = title[:maxTitle]
	}
	return title
}

// Query returns one page of the user's summary history
func (s *SummaryService) Query(ctx context.Context, userID uuid.UUID, filter repository.SummaryFilter, opts repository.SummaryQueryOptions) (*models.SummaryPage, error) {
	page, err := s.repo.Query(ctx, filter, opts, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	return page, nil
}

// GetByID returns the user's summary, or ErrNotFound. A summary owned by a
// different user is reported as not found.
func (s *SummaryService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Summary, error) {
	summary, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summary: %w", err)
	}
	if summary == nil {
		return nil, ErrNotFound
	}
	return summary, nil
}

// UpdateTitle changes the summary's title. Only available when the active
// generation supports updates.
func (s *SummaryService) UpdateTitle(ctx context.Context, userID, id uuid.UUID, title string) (*models.Summary, error) {
	if !s.cfg.AllowTitleUpdate {
		return nil, ErrUpdateDisabled
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitle {
		return nil, fmt.Errorf("%w: limit is %d characters", ErrTitleTooLong, maxTitle)
	}

	updated, err := s.repo.Update(ctx, id, userID, map[string]interface{}{"title": title})
	if err != nil {
		return nil, fmt.Errorf("failed to update summary: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete permanently removes the user's summary
func (s *SummaryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"summary_id": id, "user_id": userID}).Info("Summary deleted")
	return nil
}

// GenerateText runs the engine without persisting anything
func (s *SummaryService) GenerateText(ctx context.Context, text, length, style string) (summarizer.Result, error) {
	if length == "" {
		length = defaultLength
	}
	if style == "" {
		style = defaultStyle
	}
	if err := s.validateInput(text, length, style); err != nil {
		return summarizer.Result{}, err
	}
	return s.engine.Summarize(ctx, text, length, style)
}
