package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/cryptox"
	"github.com/dmitrijs2005/securevault/internal/models"
	"github.com/dmitrijs2005/securevault/internal/repositories/repomanager"
)

// VaultService encrypts and decrypts vault entries under a master key
// supplied by the caller on every invocation, and performs entry CRUD.
// Every mutating operation is scoped by the owning user's ID; a foreign or
// unknown entry ID yields common.ErrNotFound either way.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager) *VaultService {
	return &VaultService{db: db, repomanager: m}
}

// AddEntry encrypts password and notes under masterKey and stores a new
// entry. ServiceName and username stay in plaintext. Empty notes are stored
// as an absent ciphertext rather than an encryption of "".
func (s *VaultService) AddEntry(ctx context.Context, userID, serviceName, username, password, notes string, masterKey []byte) (string, error) {
	encryptedPassword, err := cryptox.Encrypt([]byte(password), masterKey)
	if err != nil {
		return "", fmt.Errorf("error encrypting password: %w", err)
	}

	var encryptedNotes []byte
	if notes != "" {
		encryptedNotes, err = cryptox.Encrypt([]byte(notes), masterKey)
		if err != nil {
			return "", fmt.Errorf("error encrypting notes: %w", err)
		}
	}

	entry := &models.VaultEntry{
		UserID:            userID,
		ServiceName:       serviceName,
		Username:          username,
		EncryptedPassword: encryptedPassword,
		EncryptedNotes:    encryptedNotes,
	}

	created, err := s.repomanager.Entries(s.db).Create(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("error creating entry: %w", err)
	}

	return created.ID, nil
}

// GetAllEntries returns the user's entries with secret fields decrypted.
// If any single row fails to decrypt the whole call fails with
// common.ErrDecryptionFailed: a corrupt row means tampering or a key
// mismatch, and silently hiding entries would mask it.
func (s *VaultService) GetAllEntries(ctx context.Context, userID string, masterKey []byte) ([]*models.DecryptedEntry, error) {
	stored, err := s.repomanager.Entries(s.db).GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching entries: %w", err)
	}

	result := make([]*models.DecryptedEntry, 0, len(stored))
	for _, entry := range stored {
		decrypted, err := decryptEntry(entry, masterKey)
		if err != nil {
			return nil, err
		}
		result = append(result, decrypted)
	}

	return result, nil
}

// GetEntryByService looks up the user's entry with the exact service name.
// When several entries share a name the oldest wins. A missing entry yields
// common.ErrNotFound.
func (s *VaultService) GetEntryByService(ctx context.Context, userID, serviceName string, masterKey []byte) (*models.DecryptedEntry, error) {
	entry, err := s.repomanager.Entries(s.db).GetOldestByService(ctx, userID, serviceName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching entry: %w", err)
	}

	return decryptEntry(entry, masterKey)
}

// UpdateEntry re-encrypts and replaces only the provided fields of the
// user's entry and refreshes updated_at. A nil field is left untouched;
// when both fields are nil nothing is written, not even updated_at.
// Updating an entry that does not belong to userID fails with
// common.ErrNotFound before anything is written.
func (s *VaultService) UpdateEntry(ctx context.Context, userID, entryID string, newPassword, newNotes *string, masterKey []byte) error {
	repo := s.repomanager.Entries(s.db)

	entry, err := repo.GetByID(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error fetching entry: %w", err)
	}

	if newPassword == nil && newNotes == nil {
		return nil
	}

	if newPassword != nil {
		encrypted, err := cryptox.Encrypt([]byte(*newPassword), masterKey)
		if err != nil {
			return fmt.Errorf("error encrypting password: %w", err)
		}
		entry.EncryptedPassword = encrypted
	}

	if newNotes != nil {
		if *newNotes == "" {
			entry.EncryptedNotes = nil
		} else {
			encrypted, err := cryptox.Encrypt([]byte(*newNotes), masterKey)
			if err != nil {
				return fmt.Errorf("error encrypting notes: %w", err)
			}
			entry.EncryptedNotes = encrypted
		}
	}

	if err := repo.UpdateSecrets(ctx, entry); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error updating entry: %w", err)
	}

	return nil
}

// DeleteEntry removes the user's entry. Same ownership semantics as
// UpdateEntry.
func (s *VaultService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := s.repomanager.Entries(s.db).Delete(ctx, userID, entryID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}

func decryptEntry(entry *models.VaultEntry, masterKey []byte) (*models.DecryptedEntry, error) {
	password, err := cryptox.Decrypt(entry.EncryptedPassword, masterKey)
	if err != nil {
		return nil, err
	}

	var notes []byte
	if len(entry.EncryptedNotes) > 0 {
		notes, err = cryptox.Decrypt(entry.EncryptedNotes, masterKey)
		if err != nil {
			return nil, err
		}
	}

	return &models.DecryptedEntry{
		ID:          entry.ID,
		ServiceName: entry.ServiceName,
		Username:    entry.Username,
		Password:    string(password),
		Notes:       string(notes),
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}, nil
}
