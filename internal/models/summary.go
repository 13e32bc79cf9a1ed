package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Summary length options
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Summary style options. The first three are the extended API styles,
// bullet/numbered are the classic aliases accepted by the engine.
const (
	StyleParagraph = "paragraph"
	StyleBullets   = "bullets"
	StyleOutline   = "outline"
	StyleBullet    = "bullet"
	StyleNumbered  = "numbered"
)

// Summary represents a stored text summary owned by a single user
type Summary struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	UserID         uuid.UUID      `json:"user_id" db:"user_id"`
	OriginalText   string         `json:"original_text" db:"original_text"`
	Summary        string         `json:"summary" db:"summary"`
	Length         string         `json:"length" db:"length"`
	Style          string         `json:"style" db:"style"`
	WordCount      int            `json:"word_count" db:"word_count"`
	CharacterCount int            `json:"character_count" db:"character_count"`
	Title          sql.NullString `json:"-" db:"title"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// TitleOrEmpty returns the derived title, or "" when none was stored
func (s *Summary) TitleOrEmpty() string {
	if s.Title.Valid {
		return s.Title.String
	}
	return ""
}

// SummaryPage is a single page of query results
type SummaryPage struct {
	Results      []*Summary `json:"results"`
	Page         int        `json:"page"`
	Limit        int        `json:"limit"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}
