// Package repomanager binds the per-aggregate repositories to a database
// handle and owns schema migrations. Transactions are supported by passing a
// dbx.DBTX obtained from dbx.WithTx instead of the root *sql.DB.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/repositories/entries"
	"github.com/dmitrijs2005/securevault/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
}

// New returns the repository manager for the configured database driver
// ("pgx" for PostgreSQL, "sqlite" for the embedded store).
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case "pgx", "postgres":
		return &PostgresRepositoryManager{}, nil
	case "sqlite":
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
