// Package tools declares the MCP tool catalogue over the summary service.
// The same operations back the REST controllers; here they are exposed as
// schema-described tools for MCP clients.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/summarly/summarly-backend/internal/mcp"
	"github.com/summarly/summarly-backend/internal/models"
	"github.com/summarly/summarly-backend/internal/repository"
	"github.com/summarly/summarly-backend/internal/services"
)

// summarySchema describes the full summary object returned by create
var summarySchema = mcp.MustSchema(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":             map[string]interface{}{"type": "string"},
		"originalText":   map[string]interface{}{"type": "string"},
		"summary":        map[string]interface{}{"type": "string"},
		"length":         map[string]interface{}{"type": "string"},
		"style":          map[string]interface{}{"type": "string"},
		"wordCount":      map[string]interface{}{"type": "number"},
		"characterCount": map[string]interface{}{"type": "number"},
		"createdAt":      map[string]interface{}{"type": "string"},
	},
})

// historyItemSchema describes the summary shape used in history and lookups
var historyItemSchema = mcp.MustSchema(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":             map[string]interface{}{"type": "string"},
		"originalText":   map[string]interface{}{"type": "string"},
		"summary":        map[string]interface{}{"type": "string"},
		"title":          map[string]interface{}{"type": "string"},
		"wordCount":      map[string]interface{}{"type": "number"},
		"characterCount": map[string]interface{}{"type": "number"},
		"createdAt":      map[string]interface{}{"type": "string"},
	},
})

// SummaryTools builds the tool list bound to the summary service. The
// update tool is only present when the active generation supports it.
func SummaryTools(svc *services.SummaryService) []*mcp.Tool {
	cfg := svc.Config()

	styles := make([]interface{}, 0, len(cfg.Styles))
	for _, s := range cfg.Styles {
		styles = append(styles, s)
	}

	textProperty := map[string]interface{}{
		"type":      "string",
		"minLength": cfg.MinTextLength,
		"maxLength": cfg.MaxTextLength,
	}

	list := []*mcp.Tool{
		{
			ID:          "summary_create",
			Name:        "Create Summary",
			Description: "Generate a text summary with specified parameters and save it",
			InputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text":   textProperty,
					"length": map[string]interface{}{"type": "string", "enum": []interface{}{"short", "medium", "long"}, "default": "medium"},
					"style":  map[string]interface{}{"type": "string", "enum": styles, "default": "paragraph"},
					"userId": map[string]interface{}{"type": "string", "format": "uuid"},
				},
				"required": []interface{}{"text", "userId"},
			}),
			OutputSchema: summarySchema,
			Handler:      createHandler(svc),
		},
		{
			ID:          "summary_get_all",
			Name:        "Get Summary History",
			Description: "Get user's summary history with filtering and pagination",
			InputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"userId":   map[string]interface{}{"type": "string", "format": "uuid"},
					"page":     map[string]interface{}{"type": "integer", "minimum": 1, "default": 1},
					"limit":    map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 100, "default": 10},
					"search":   map[string]interface{}{"type": "string"},
					"dateFrom": map[string]interface{}{"type": "string", "format": "date-time"},
					"dateTo":   map[string]interface{}{"type": "string", "format": "date-time"},
					"sortBy": map[string]interface{}{
						"type":    "string",
						"enum":    []interface{}{"newest", "oldest", "title", "createdAt", "updatedAt", "wordCount", "characterCount"},
						"default": "newest",
					},
					"sortType": map[string]interface{}{"type": "string", "enum": []interface{}{"asc", "desc"}, "default": "desc"},
				},
				"required": []interface{}{"userId"},
			}),
			OutputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"results":      map[string]interface{}{"type": "array", "items": historyItemSchema.Document()},
					"page":         map[string]interface{}{"type": "number"},
					"limit":        map[string]interface{}{"type": "number"},
					"totalPages":   map[string]interface{}{"type": "number"},
					"totalResults": map[string]interface{}{"type": "number"},
				},
			}),
			Handler: historyHandler(svc),
		},
		{
			ID:          "summary_get_by_id",
			Name:        "Get Summary By ID",
			Description: "Get a specific summary by its ID (user can only access their own summaries)",
			InputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":     map[string]interface{}{"type": "string", "format": "uuid"},
					"userId": map[string]interface{}{"type": "string", "format": "uuid"},
				},
				"required": []interface{}{"id", "userId"},
			}),
			OutputSchema: historyItemSchema,
			Handler:      getByIDHandler(svc),
		},
		{
			ID:          "summary_delete",
			Name:        "Delete Summary",
			Description: "Delete a specific summary by its ID (user can only delete their own summaries)",
			InputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":     map[string]interface{}{"type": "string", "format": "uuid"},
					"userId": map[string]interface{}{"type": "string", "format": "uuid"},
				},
				"required": []interface{}{"id", "userId"},
			}),
			OutputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"success": map[string]interface{}{"type": "boolean"},
				},
			}),
			Handler: deleteHandler(svc),
		},
		{
			ID:          "summary_generate_text",
			Name:        "Generate Summary Text",
			Description: "Generate a summary without saving it",
			InputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text":   textProperty,
					"length": map[string]interface{}{"type": "string", "enum": []interface{}{"short", "medium", "long"}, "default": "medium"},
					"style":  map[string]interface{}{"type": "string", "enum": styles, "default": "paragraph"},
				},
				"required": []interface{}{"text"},
			}),
			OutputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"summary":        map[string]interface{}{"type": "string"},
					"wordCount":      map[string]interface{}{"type": "number"},
					"characterCount": map[string]interface{}{"type": "number"},
				},
			}),
			Handler: generateTextHandler(svc),
		},
	}

	if cfg.AllowTitleUpdate {
		list = append(list, &mcp.Tool{
			ID:          "summary_update",
			Name:        "Update Summary",
			Description: "Update a summary's title (user can only update their own summaries)",
			InputSchema: mcp.MustSchema(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":     map[string]interface{}{"type": "string", "format": "uuid"},
					"userId": map[string]interface{}{"type": "string", "format": "uuid"},
					"title":  map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 200},
				},
				"required": []interface{}{"id", "userId", "title"},
			}),
			OutputSchema: historyItemSchema,
			Handler:      updateHandler(svc),
		})
	}

	return list
}

func createHandler(svc *services.SummaryService) mcp.HandlerFunc {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		userID, err := argUUID(args, "userId")
		if err != nil {
			return nil, err
		}
		summary, err := svc.Create(ctx, userID, argString(args, "text"), argString(args, "length"), argString(args, "style"))
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"id":             summary.ID.String(),
			"originalText":   summary.OriginalText,
			"summary":        summary.Summary,
			"length":         summary.Length,
			"style":          summary.Style,
			"wordCount":      summary.WordCount,
			"characterCount": summary.CharacterCount,
			"createdAt":      summary.CreatedAt.Format(time.RFC3339),
		}, nil
	}
}

func historyHandler(svc *services.SummaryService) mcp.HandlerFunc {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		userID, err := argUUID(args, "userId")
		if err != nil {
			return nil, err
		}

		filter := repository.SummaryFilter{Search: argString(args, "search")}
		if from := argString(args, "dateFrom"); from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return nil, fmt.Errorf("dateFrom must be an ISO timestamp")
			}
			filter.DateFrom = &t
		}
		if to := argString(args, "dateTo"); to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return nil, fmt.Errorf("dateTo must be an ISO timestamp")
			}
			filter.DateTo = &t
		}

		opts := repository.SummaryQueryOptions{
			Page:     argInt(args, "page", 1),
			Limit:    argInt(args, "limit", 10),
			SortBy:   argString(args, "sortBy"),
			SortType: argString(args, "sortType"),
		}

		page, err := svc.Query(ctx, userID, filter, opts)
		if err != nil {
			return nil, err
		}

		results := make([]map[string]interface{}, 0, len(page.Results))
		for _, s := range page.Results {
			results = append(results, historyItem(s))
		}
		return map[string]interface{}{
			"results":      results,
			"page":         page.Page,
			"limit":        page.Limit,
			"totalPages":   page.TotalPages,
			"totalResults": page.TotalResults,
		}, nil
	}
}

func getByIDHandler(svc *services.SummaryService) mcp.HandlerFunc {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		userID, err := argUUID(args, "userId")
		if err != nil {
			return nil, err
		}
		id, err := argUUID(args, "id")
		if err != nil {
			return nil, err
		}
		summary, err := svc.GetByID(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		return historyItem(summary), nil
	}
}

func updateHandler(svc *services.SummaryService) mcp.HandlerFunc {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		userID, err := argUUID(args, "userId")
		if err != nil {
			return nil, err
		}
		id, err := argUUID(args, "id")
		if err != nil {
			return nil, err
		}
		summary, err := svc.UpdateTitle(ctx, userID, id, argString(args, "title"))
		if err != nil {
			return nil, err
		}
		return historyItem(summary), nil
	}
}

func deleteHandler(svc *services.SummaryService) mcp.HandlerFunc {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		userID, err := argUUID(args, "userId")
		if err != nil {
			return nil, err
		}
		id, err := argUUID(args, "id")
		if err != nil {
			return nil, err
		}
		if err := svc.Delete(ctx, userID, id); err != nil {
			return nil, err
		}
		return map[string]interface{}{"success": true}, nil
	}
}

func generateTextHandler(svc *services.SummaryService) mcp.HandlerFunc {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		result, err := svc.GenerateText(ctx, argString(args, "text"), argString(args, "length"), argString(args, "style"))
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"summary":        result.Summary,
			"wordCount":      result.WordCount,
			"characterCount": result.CharacterCount,
		}, nil
	}
}

func historyItem(s *models.Summary) map[string]interface{} {
	return map[string]interface{}{
		"id":             s.ID.String(),
		"originalText":   s.OriginalText,
		"summary":        s.Summary,
		"title":          s.TitleOrEmpty(),
		"wordCount":      s.WordCount,
		"characterCount": s.CharacterCount,
		"createdAt":      s.CreatedAt.Format(time.RFC3339),
	}
}

func argString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argInt(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func argUUID(args map[string]interface{}, key string) (uuid.UUID, error) {
	raw := argString(args, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", key)
	}
	return id, nil
}
