package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract of the user domain
type Repository interface {
	// Create inserts u. Staff users get an author profile in the same transaction.
	// Returns ErrEmailAlreadyExists or ErrUsernameAlreadyExists on conflicts.
	Create(ctx context.Context, u *User) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindFirstStaff returns the earliest joined staff user
	FindFirstStaff(ctx context.Context) (*User, error)

	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	// Delete hard deletes; authored posts keep their rows with author nulled
	Delete(ctx context.Context, id uuid.UUID) error
}
