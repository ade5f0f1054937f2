package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const pgEntryColumns = `id, user_id, service_name, username, encrypted_password, encrypted_notes, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, entry *models.VaultEntry) (*models.VaultEntry, error) {

	entry.ID = uuid.NewString()

	query :=
		`INSERT INTO vault_entries (id, user_id, service_name, username, encrypted_password, encrypted_notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.UserID, entry.ServiceName, entry.Username,
		entry.EncryptedPassword, entry.EncryptedNotes).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	query := `SELECT ` + pgEntryColumns + `
		 FROM vault_entries
		 WHERE user_id = $1
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultEntry
	for rows.Next() {
		entry := &models.VaultEntry{}
		if err := scanEntry(rows, entry); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, entryID string) (*models.VaultEntry, error) {
	query := `SELECT ` + pgEntryColumns + `
		 FROM vault_entries
		 WHERE user_id = $1 AND id = $2
		 `

	entry := &models.VaultEntry{}
	err := scanEntry(r.db.QueryRowContext(ctx, query, userID, entryID), entry)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

// GetOldestByService returns the user's oldest entry for the given service
// name, making duplicate-name lookups deterministic.
func (r *PostgresRepository) GetOldestByService(ctx context.Context, userID, serviceName string) (*models.VaultEntry, error) {
	query := `SELECT ` + pgEntryColumns + `
		 FROM vault_entries
		 WHERE user_id = $1 AND service_name = $2
		 ORDER BY created_at, id
		 LIMIT 1
		 `

	entry := &models.VaultEntry{}
	err := scanEntry(r.db.QueryRowContext(ctx, query, userID, serviceName), entry)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) UpdateSecrets(ctx context.Context, entry *models.VaultEntry) error {
	query :=
		`UPDATE vault_entries
		 SET encrypted_password = $1, encrypted_notes = $2, updated_at = now()
		 WHERE user_id = $3 AND id = $4
		 `

	result, err := r.db.ExecContext(ctx, query,
		entry.EncryptedPassword, entry.EncryptedNotes, entry.UserID, entry.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, entryID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM vault_entries WHERE user_id = $1 AND id = $2`, userID, entryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vault_entries WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner, entry *models.VaultEntry) error {
	return row.Scan(&entry.ID, &entry.UserID, &entry.ServiceName, &entry.Username,
		&entry.EncryptedPassword, &entry.EncryptedNotes, &entry.CreatedAt, &entry.UpdatedAt)
}
