package users

import (
	"context"

	"github.com/dmitrijs2005/securevault/internal/models"
)

// Repository is the user slice of the persistence store. Implementations
// assign IDs on create and enforce username uniqueness.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, userID string) error
}
