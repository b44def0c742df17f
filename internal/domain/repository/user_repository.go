package repository

import (
	"context"

	"github.com/cityassist/backend/internal/domain/entity"
)

// ProfileUpdate carries a partial profile change. Name is always
// written; the pointer fields are written only when non-nil, so an
// absent field keeps its stored value while an explicit empty list
// replaces with empty.
type ProfileUpdate struct {
	Name            string
	Age             *int
	MedicalFlags    *[]string
	CommutePatterns *[]string
}

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create inserts the user and fills in ID/CreatedAt/UpdatedAt.
	// Returns ErrDuplicateEmail on a unique violation.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateProfile applies a partial update atomically and returns the
	// resulting row. Returns ErrNotFound if the user does not exist.
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*entity.User, error)
	// ReplacePreferences overwrites both preference maps wholesale.
	ReplacePreferences(ctx context.Context, userID string, notification, alert map[string]string) error
}
