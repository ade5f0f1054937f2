package entries

import (
	"context"

	"github.com/dmitrijs2005/securevault/internal/models"
)

// Repository is the vault-entry slice of the persistence store. Every lookup
// and mutation is scoped by the owning user's ID; an entry belonging to a
// different user is indistinguishable from a missing one.
type Repository interface {
	Create(ctx context.Context, entry *models.VaultEntry) (*models.VaultEntry, error)
	GetByUser(ctx context.Context, userID string) ([]*models.VaultEntry, error)
	GetByID(ctx context.Context, userID, entryID string) (*models.VaultEntry, error)
	GetOldestByService(ctx context.Context, userID, serviceName string) (*models.VaultEntry, error)
	UpdateSecrets(ctx context.Context, entry *models.VaultEntry) error
	Delete(ctx context.Context, userID, entryID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
