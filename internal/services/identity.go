// Package services contains the business logic of SecureVault.
// IdentityService handles registration, authentication and master-key
// custody; VaultService handles entry encryption and CRUD.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/cryptox"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/models"
	"github.com/dmitrijs2005/securevault/internal/repositories/repomanager"
	"github.com/dmitrijs2005/securevault/internal/shared"
)

// UserIdentity is the opaque identity returned by a successful login.
type UserIdentity struct {
	ID       string
	Username string
}

// IdentityService registers and authenticates users. On successful login it
// unwraps the user's master key and hands it to the caller; the service
// itself never retains key material between calls.
type IdentityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager) *IdentityService {
	return &IdentityService{db: db, repomanager: m}
}

// dummy credentials keep the unknown-user login path as expensive as the
// known-user path, so response timing does not reveal whether a username
// exists.
var (
	dummySalt = []byte("securevault-pad!")
	dummyHash = make([]byte, cryptox.KeySize)
)

// Register creates a new account: hashes the password with a fresh salt,
// generates a master key, wraps it under a password-derived key and persists
// the complete user record in a single write. A taken username yields
// common.ErrUsernameTaken.
func (s *IdentityService) Register(ctx context.Context, username string, password []byte) error {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return common.ErrUsernameTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("error checking username: %w", err)
	}

	hash, salt, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	masterKey, err := cryptox.GenerateKey()
	if err != nil {
		return common.ErrInternal
	}
	defer shared.WipeByteArray(masterKey)

	masterKeySalt, err := cryptox.GenerateSalt()
	if err != nil {
		return common.ErrInternal
	}

	wrappingKey, err := cryptox.DeriveKeyFromPassword(password, masterKeySalt)
	if err != nil {
		return common.ErrInternal
	}
	defer shared.WipeByteArray(wrappingKey)

	encryptedMasterKey, err := cryptox.EncryptMasterKey(masterKey, wrappingKey)
	if err != nil {
		return common.ErrInternal
	}

	user := &models.User{
		Username:           username,
		PasswordHash:       hash,
		Salt:               salt,
		MasterKeySalt:      masterKeySalt,
		EncryptedMasterKey: encryptedMasterKey,
	}

	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return common.ErrUsernameTaken
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// Login authenticates username/password and unwraps the stored master key.
// Unknown user, wrong password and a corrupted master-key blob all surface
// the same common.ErrAuthFailed. The returned master key belongs to the
// caller, which scopes its lifetime.
func (s *IdentityService) Login(ctx context.Context, username string, password []byte) (*UserIdentity, []byte, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// burn the same KDF cost as the real verification
			cryptox.VerifyPassword(password, dummyHash, dummySalt)
			return nil, nil, common.ErrAuthFailed
		}
		return nil, nil, common.ErrInternal
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash, user.Salt) {
		return nil, nil, common.ErrAuthFailed
	}

	wrappingKey, err := cryptox.DeriveKeyFromPassword(password, user.MasterKeySalt)
	if err != nil {
		return nil, nil, common.ErrInternal
	}
	defer shared.WipeByteArray(wrappingKey)

	masterKey, err := cryptox.DecryptMasterKey(user.EncryptedMasterKey, wrappingKey)
	if err != nil {
		// should not happen after a correct password check; treat a
		// corrupted blob like bad credentials
		return nil, nil, common.ErrAuthFailed
	}

	return &UserIdentity{ID: user.ID, Username: user.Username}, masterKey, nil
}

// DeleteAccount removes the user and every vault entry they own in one
// transaction, so no orphaned entries can remain.
func (s *IdentityService) DeleteAccount(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Entries(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("error deleting entries: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrNotFound
			}
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}
