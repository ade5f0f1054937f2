package models

import "time"

// VaultEntry is a stored credential. ServiceName and Username stay in
// plaintext so entries can be listed and searched without decryption;
// EncryptedPassword and EncryptedNotes are ciphertext under the owner's
// master key. EncryptedNotes may be empty.
type VaultEntry struct {
	ID                string
	UserID            string
	ServiceName       string
	Username          string
	EncryptedPassword []byte
	EncryptedNotes    []byte
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DecryptedEntry is the in-memory view of a VaultEntry after its secret
// fields were decrypted. It is owned by the request scope that produced it
// and must not be persisted.
type DecryptedEntry struct {
	ID          string
	ServiceName string
	Username    string
	Password    string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
