// Package cryptox implements the cryptographic primitives of SecureVault:
// password hashing and verification, password-based key derivation,
// authenticated encryption of master keys and entry fields, and secure
// random key/salt generation.
//
// All symmetric encryption uses AES-256-GCM with a fresh random nonce per
// call. Password hashing and key derivation use argon2id. None of the
// functions here know anything about users or vault entries.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"errors"

	"github.com/dmitrijs2005/securevault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of symmetric keys (AES-256).
	KeySize = 32

	// SaltSize is the length of salts for hashing and key derivation.
	SaltSize = 16

	nonceSize = 12

	// formatVersion prefixes every ciphertext so algorithm parameters can
	// change later without breaking stored data.
	formatVersion = 0x01
)

var (
	errEmptyPassword = errors.New("cryptox: empty password")
	errEmptySalt     = errors.New("cryptox: empty salt")
	errBadKeySize    = errors.New("cryptox: invalid key size")
)

// argon2id parameters, shared by password hashing and key derivation.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// GenerateKey returns a fresh random symmetric key of KeySize bytes.
func GenerateKey() ([]byte, error) {
	return randBytes(KeySize)
}

// GenerateSalt returns a fresh random salt of SaltSize bytes.
func GenerateSalt() ([]byte, error) {
	return randBytes(SaltSize)
}

// HashPassword derives a slow, salted one-way hash of the password using
// argon2id and a fresh random salt. The same password hashed twice yields
// different hashes because of the per-call salt.
func HashPassword(password []byte) (hash, salt []byte, err error) {
	if len(password) == 0 {
		return nil, nil, errEmptyPassword
	}
	salt, err = GenerateSalt()
	if err != nil {
		return nil, nil, err
	}
	hash = argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize)
	return hash, salt, nil
}

// VerifyPassword recomputes the argon2id hash of password under salt and
// compares it to hash in constant time. A wrong password returns false,
// never an error.
func VerifyPassword(password, hash, salt []byte) bool {
	if len(password) == 0 || len(hash) == 0 || len(salt) == 0 {
		return false
	}
	candidate := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

// DeriveKeyFromPassword deterministically derives a KeySize-byte key from
// password and salt. Same inputs always produce the same key; the result is
// re-derived at every login and never stored.
func DeriveKeyFromPassword(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, errEmptyPassword
	}
	if len(salt) == 0 {
		return nil, errEmptySalt
	}
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize), nil
}

// Encrypt seals plaintext under key with AES-256-GCM. The returned ciphertext
// is self-contained: [version||nonce||sealed], so the caller needs nothing
// but the key to decrypt. A fresh nonce is generated on every call.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce, err := randBytes(nonceSize)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+nonceSize+len(plaintext)+aesgcm.Overhead())
	out = append(out, formatVersion)
	out = append(out, nonce...)
	out = aesgcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// Decrypt opens a ciphertext produced by Encrypt. Any mismatch (wrong key,
// truncated data, flipped byte, unknown version) yields
// common.ErrDecryptionFailed and no plaintext.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < 1+nonceSize+aesgcm.Overhead() {
		return nil, common.ErrDecryptionFailed
	}
	if ciphertext[0] != formatVersion {
		return nil, common.ErrDecryptionFailed
	}

	nonce := ciphertext[1 : 1+nonceSize]
	sealed := ciphertext[1+nonceSize:]

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		// never leak the AEAD-specific failure detail
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptMasterKey wraps a master key under the password-derived wrapping key.
func EncryptMasterKey(masterKey, wrappingKey []byte) ([]byte, error) {
	return Encrypt(masterKey, wrappingKey)
}

// DecryptMasterKey unwraps a master key previously sealed with
// EncryptMasterKey. Fails with common.ErrDecryptionFailed if the wrapping
// key is wrong or the ciphertext was tampered with.
func DecryptMasterKey(ciphertext, wrappingKey []byte) ([]byte, error) {
	return Decrypt(ciphertext, wrappingKey)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, errBadKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func randBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
