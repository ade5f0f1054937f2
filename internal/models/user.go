// Package models defines the persisted records of SecureVault.
package models

import "time"

// User is the stored account record. PasswordHash/Salt authenticate the
// login password; MasterKeySalt and EncryptedMasterKey hold the wrapped
// per-user master key. The plaintext master key is never persisted.
type User struct {
	ID                 string
	Username           string
	PasswordHash       []byte
	Salt               []byte
	MasterKeySalt      []byte
	EncryptedMasterKey []byte
	CreatedAt          time.Time
}
