// Package session implements the Session Context: it maps opaque bearer
// tokens to an authenticated user and that user's unlocked master key for
// the duration of a login.
//
// Tokens are generated from a cryptographically secure random source and
// carry no relation to the user's credentials. Every session has a bounded
// lifetime; in-memory key material is zeroed on revocation, expiry and
// shutdown.
package session

import (
	"context"
	"time"

	"github.com/dmitrijs2005/securevault/internal/shared"
)

// tokenBytes random bytes per token, hex-encoded to a 64-char string.
const tokenBytes = 32

// Session associates a bearer token with an authenticated user and the
// master key unlocked at login.
type Session struct {
	Token     string
	UserID    string
	Username  string
	MasterKey []byte
	ExpiresAt time.Time
}

// Manager is the session store consumed by the calling layer. Lookup returns
// common.ErrInvalidToken for unknown tokens and common.ErrSessionExpired for
// expired ones.
type Manager interface {
	Create(ctx context.Context, userID, username string, masterKey []byte) (string, error)
	Lookup(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
	Close(ctx context.Context) error
}

func newToken() (string, error) {
	return shared.MakeRandHexString(tokenBytes)
}
