package users

import (
	"context"

	"github.com/habbababbai/entertainment-tracker/internal/server/models"
)

// Repository is the persistence collaborator for accounts. Implementations
// must make IncrementTokenVersion and UpdatePasswordHash single atomic
// statements; the version counter is never read-modify-written in
// application code.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// IncrementTokenVersion bumps the revocation counter by exactly 1 and
	// returns the new value.
	IncrementTokenVersion(ctx context.Context, id string) (int64, error)

	// UpdatePasswordHash replaces the stored hash and bumps the revocation
	// counter in the same statement, so a reset always invalidates every
	// outstanding token.
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error

	Delete(ctx context.Context, id string) error
}
