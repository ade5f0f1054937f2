package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/models"
	"github.com/google/uuid"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteEntryColumns = `id, user_id, service_name, username, encrypted_password, encrypted_notes, created_at, updated_at`

func (r *SQLiteRepository) Create(ctx context.Context, entry *models.VaultEntry) (*models.VaultEntry, error) {

	entry.ID = uuid.NewString()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query :=
		`INSERT INTO vault_entries (id, user_id, service_name, username, encrypted_password, encrypted_notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.ServiceName, entry.Username,
		entry.EncryptedPassword, entry.EncryptedNotes, entry.CreatedAt, entry.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *SQLiteRepository) GetByUser(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	query := `SELECT ` + sqliteEntryColumns + `
		 FROM vault_entries
		 WHERE user_id = ?
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

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, entryID string) (*models.VaultEntry, error) {
	query := `SELECT ` + sqliteEntryColumns + `
		 FROM vault_entries
		 WHERE user_id = ? AND id = ?
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

func (r *SQLiteRepository) GetOldestByService(ctx context.Context, userID, serviceName string) (*models.VaultEntry, error) {
	query := `SELECT ` + sqliteEntryColumns + `
		 FROM vault_entries
		 WHERE user_id = ? AND service_name = ?
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

func (r *SQLiteRepository) UpdateSecrets(ctx context.Context, entry *models.VaultEntry) error {
	query :=
		`UPDATE vault_entries
		 SET encrypted_password = ?, encrypted_notes = ?, updated_at = ?
		 WHERE user_id = ? AND id = ?
		`

	result, err := r.db.ExecContext(ctx, query,
		entry.EncryptedPassword, entry.EncryptedNotes, time.Now().UTC(), entry.UserID, entry.ID)
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

func (r *SQLiteRepository) Delete(ctx context.Context, userID, entryID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM vault_entries WHERE user_id = ? AND id = ?`, userID, entryID)
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

func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vault_entries WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
