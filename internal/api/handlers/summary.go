package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/summarly/summarly-backend/internal/api/middleware"
	"github.com/summarly/summarly-backend/internal/models"
	"github.com/summarly/summarly-backend/internal/repository"
	"github.com/summarly/summarly-backend/internal/services"
)

// SummaryHandler exposes the REST surface over the summary service
type SummaryHandler struct {
	summaryService *services.SummaryService
	validate       *validator.Validate
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryService *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		validate:       validator.New(),
	}
}

type generateSummaryRequest struct {
	Text   string `json:"text" validate:"required"`
	Length string `json:"length" validate:"omitempty,oneof=short medium long"`
	Style  string `json:"style"`
}

type updateSummaryRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// summaryResponse mirrors the wire format of the summary API
type summaryResponse struct {
	ID             string `json:"id"`
	OriginalText   string `json:"originalText"`
	Summary        string `json:"summary"`
	Length         string `json:"length,omitempty"`
	Style          string `json:"style,omitempty"`
	Title          string `json:"title,omitempty"`
	WordCount      int    `json:"wordCount"`
	CharacterCount int    `json:"characterCount"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

func toSummaryResponse(s *models.Summary, withUpdated bool) summaryResponse {
	resp := summaryResponse{
		ID:             s.ID.String(),
		OriginalText:   s.OriginalText,
		Summary:        s.Summary,
		Length:         s.Length,
		Style:          s.Style,
		Title:          s.TitleOrEmpty(),
		WordCount:      s.WordCount,
		CharacterCount: s.CharacterCount,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
	if withUpdated {
		resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// Generate handles POST /api/v1/summary/generate
func (h *SummaryHandler) Generate(c *fiber.Ctx) error {
	userCtx := middleware.GetUserContext(c)
	if userCtx == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	var req generateSummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.summaryService.Create(c.Context(), userCtx.UserID, req.Text, req.Length, req.Style)
	if err != nil {
		return summaryError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toSummaryResponse(summary, false))
}

// History handles GET /api/v1/summary/history
func (h *SummaryHandler) History(c *fiber.Ctx) error {
	userCtx := middleware.GetUserContext(c)
	if userCtx == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	filter := repository.SummaryFilter{Search: c.Query("search")}
	if from := c.Query("dateFrom"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dateFrom must be an ISO timestamp"})
		}
		filter.DateFrom = &t
	}
	if to := c.Query("dateTo"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dateTo must be an ISO timestamp"})
		}
		filter.DateTo = &t
	}

	opts := repository.SummaryQueryOptions{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
		SortBy:   c.Query("sortBy", "newest"),
		SortType: c.Query("sortType"),
	}

	page, err := h.summaryService.Query(c.Context(), userCtx.UserID, filter, opts)
	if err != nil {
		return summaryError(c, err)
	}

	results := make([]summaryResponse, 0, len(page.Results))
	for _, s := range page.Results {
		results = append(results, toSummaryResponse(s, false))
	}

	return c.JSON(fiber.Map{
		"results":      results,
		"page":         page.Page,
		"limit":        page.Limit,
		"totalPages":   page.TotalPages,
		"totalResults": page.TotalResults,
	})
}

// GetByID handles GET /api/v1/summary/:id
func (h *SummaryHandler) GetByID(c *fiber.Ctx) error {
	userCtx := middleware.GetUserContext(c)
	if userCtx == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid summary ID"})
	}

	summary, err := h.summaryService.GetByID(c.Context(), userCtx.UserID, id)
	if err != nil {
		return summaryError(c, err)
	}

	return c.JSON(toSummaryResponse(summary, false))
}

// Update handles PATCH /api/v1/summary/:id
func (h *SummaryHandler) Update(c *fiber.Ctx) error {
	userCtx := middleware.GetUserContext(c)
	if userCtx == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid summary ID"})
	}

	var req updateSummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.summaryService.UpdateTitle(c.Context(), userCtx.UserID, id, req.Title)
	if err != nil {
		return summaryError(c, err)
	}

	return c.JSON(toSummaryResponse(summary, true))
}

// Delete handles DELETE /api/v1/summary/:id
func (h *SummaryHandler) Delete(c *fiber.Ctx) error {
	userCtx := middleware.GetUserContext(c)
	if userCtx == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid summary ID"})
	}

	if err := h.summaryService.Delete(c.Context(), userCtx.UserID, id); err != nil {
		return summaryError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// summaryError maps domain errors onto HTTP statuses
func summaryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTextTooLong):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyText),
		errors.Is(err, services.ErrTextTooShort),
		errors.Is(err, services.ErrInvalidLength),
		errors.Is(err, services.ErrInvalidStyle),
		errors.Is(err, services.ErrEmptyTitle),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrUpdateDisabled):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
