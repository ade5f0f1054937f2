package entries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func entryRows(id string, created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "service_name", "username", "encrypted_password", "encrypted_notes", "created_at", "updated_at"}).
		AddRow(id, "u-1", "github", "alice", []byte("ct-pw"), []byte("ct-notes"), created, created)
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^INSERT\s+INTO\s+vault_entries\s*\(id,\s*user_id,\s*service_name,\s*username,\s*encrypted_password,\s*encrypted_notes\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "u-1", "github", "alice", []byte("ct-pw"), []byte(nil)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	entry := &models.VaultEntry{
		UserID:            "u-1",
		ServiceName:       "github",
		Username:          "alice",
		EncryptedPassword: []byte("ct-pw"),
	}

	got, err := repo.Create(context.Background(), entry)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestGetByUser_OrdersByAge(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+vault_entries\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s*$`

	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(entryRows("e-1", time.Now()))

	got, err := repo.GetByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByUser error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e-1" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestGetByID_ScopedByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+vault_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`

	// a foreign user id matches no row
	mock.ExpectQuery(q).
		WithArgs("u-2", "e-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "u-2", "e-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetOldestByService(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+vault_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+service_name\s*=\s*\$2\s+ORDER\s+BY\s+created_at,\s*id\s+LIMIT\s+1\s*$`

	mock.ExpectQuery(q).
		WithArgs("u-1", "github").
		WillReturnRows(entryRows("e-oldest", time.Now()))

	got, err := repo.GetOldestByService(context.Background(), "u-1", "github")
	if err != nil {
		t.Fatalf("GetOldestByService error: %v", err)
	}
	if got.ID != "e-oldest" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestUpdateSecrets_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+vault_entries\s+SET\s+encrypted_password\s*=\s*\$1,\s*encrypted_notes\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+user_id\s*=\s*\$3\s+AND\s+id\s*=\s*\$4\s*$`

	mock.ExpectExec(q).
		WithArgs([]byte("new-pw"), []byte(nil), "u-2", "e-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	entry := &models.VaultEntry{ID: "e-1", UserID: "u-2", EncryptedPassword: []byte("new-pw")}
	err := repo.UpdateSecrets(context.Background(), entry)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_ScopedByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+vault_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs("u-1", "e-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "u-1", "e-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(q).
		WithArgs("u-2", "e-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u-2", "e-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+vault_entries\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteByUser(context.Background(), "u-1"); err != nil {
		t.Fatalf("DeleteByUser error: %v", err)
	}
}
