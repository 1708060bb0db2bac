package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/user/model"
)

type UserRepository interface {
	// Create persists a new user. A duplicate email is reported as
	// model.ErrEmailTaken.
	Create(ctx context.Context, user *model.User) error

	// GetByID gets a user by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail gets a user by email, for login.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
