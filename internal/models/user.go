package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose
	FullName     string    `json:"full_name" db:"full_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserRole constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Rights granted per role. Summary endpoints require getSummaries for
// reads and manageSummaries for writes.
const (
	RightGetSummaries    = "getSummaries"
	RightManageSummaries = "manageSummaries"
	RightGetUsers        = "getUsers"
	RightManageUsers     = "manageUsers"
)

var roleRights = map[string][]string{
	RoleUser:  {RightGetSummaries, RightManageSummaries},
	RoleAdmin: {RightGetUsers, RightManageUsers, RightGetSummaries, RightManageSummaries},
}

// RoleHasRight reports whether the given role carries the given right
func RoleHasRight(role, right string) bool {
	for _, r := range roleRights[role] {
		if r == right {
			return true
		}
	}
	return false
}

// UserContext represents the authenticated user for authorization checks
type UserContext struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Role     string
}
