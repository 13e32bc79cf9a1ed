package services

import "errors"

// Domain errors surfaced by the services. REST handlers map them onto HTTP
// statuses; MCP tool handlers fold them into isError results.
var (
	// ErrNotFound covers both missing rows and rows owned by another user,
	// so existence of foreign data is never leaked.
	ErrNotFound = errors.New("summary not found")

	// ErrForbidden is used where ownership is checked after the fetch
	ErrForbidden = errors.New("access denied")

	ErrEmptyText      = errors.New("text cannot be empty")
	ErrTextTooLong    = errors.New("text too long or invalid parameters")
	ErrTextTooShort   = errors.New("text is too short")
	ErrInvalidLength  = errors.New("length must be short, medium or long")
	ErrInvalidStyle   = errors.New("style is not supported")
	ErrUpdateDisabled = errors.New("summary updates are not enabled")
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrTitleTooLong   = errors.New("title is too long")
)
