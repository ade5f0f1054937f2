package services

import (
	"bytes"
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/models"
	entriesrepo "github.com/dmitrijs2005/securevault/internal/repositories/entries"
	"github.com/dmitrijs2005/securevault/internal/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/securevault/internal/repositories/users"
	"github.com/google/uuid"
)

// in-memory repositories backing the service tests; they honor the same
// contracts as the SQL implementations (uniqueness, ownership scoping,
// insertion-ordered listings).

type memUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // by username
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{users: make(map[string]*models.User)}
}

func (r *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return nil, common.ErrUsernameTaken
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	r.users[user.Username] = user
	return user, nil
}

func (r *memUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

func (r *memUsersRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for username, user := range r.users {
		if user.ID == userID {
			delete(r.users, username)
			return nil
		}
	}
	return common.ErrNotFound
}

type memEntriesRepo struct {
	mu      sync.Mutex
	entries []*models.VaultEntry // insertion order == created_at order
}

func newMemEntriesRepo() *memEntriesRepo {
	return &memEntriesRepo{}
}

func (r *memEntriesRepo) Create(ctx context.Context, entry *models.VaultEntry) (*models.VaultEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = uuid.NewString()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	stored := *entry
	stored.EncryptedPassword = bytes.Clone(entry.EncryptedPassword)
	stored.EncryptedNotes = bytes.Clone(entry.EncryptedNotes)
	r.entries = append(r.entries, &stored)
	return entry, nil
}

func (r *memEntriesRepo) GetByUser(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.VaultEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memEntriesRepo) GetByID(ctx context.Context, userID, entryID string) (*models.VaultEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.UserID == userID && e.ID == entryID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memEntriesRepo) GetOldestByService(ctx context.Context, userID, serviceName string) (*models.VaultEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.UserID == userID && e.ServiceName == serviceName {
			copied := *e
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memEntriesRepo) UpdateSecrets(ctx context.Context, entry *models.VaultEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.UserID == entry.UserID && e.ID == entry.ID {
			e.EncryptedPassword = bytes.Clone(entry.EncryptedPassword)
			e.EncryptedNotes = bytes.Clone(entry.EncryptedNotes)
			e.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *memEntriesRepo) Delete(ctx context.Context, userID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.UserID == userID && e.ID == entryID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *memEntriesRepo) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

// corrupt flips a byte in the stored ciphertext of the given entry,
// simulating on-disk damage.
func (r *memEntriesRepo) corrupt(entryID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ID == entryID {
			e.EncryptedPassword[len(e.EncryptedPassword)-1] ^= 0xff
			return
		}
	}
}

type fakeRepoManager struct {
	users   usersrepo.Repository
	entries entriesrepo.Repository
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newMemUsersRepo(), entries: newMemEntriesRepo()}
}

func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return f.users }

func (f *fakeRepoManager) Entries(db dbx.DBTX) entriesrepo.Repository { return f.entries }
