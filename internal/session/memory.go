package session

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/shared"
)

// MemoryStore keeps sessions in process memory. A background janitor evicts
// expired sessions and zeroes their master keys; Close wipes everything.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

const janitorInterval = time.Minute

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}

	go s.janitor()

	return s
}

func (s *MemoryStore) Create(ctx context.Context, userID, username string, masterKey []byte) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", common.ErrInternal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = &Session{
		Token:     token,
		UserID:    userID,
		Username:  username,
		MasterKey: bytes.Clone(masterKey),
		ExpiresAt: time.Now().Add(s.ttl),
	}

	return token, nil
}

func (s *MemoryStore) Lookup(ctx context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}

	if time.Now().After(sess.ExpiresAt) {
		s.evictLocked(token)
		return nil, common.ErrSessionExpired
	}

	// the caller's request scope owns the returned copy
	return &Session{
		Token:     sess.Token,
		UserID:    sess.UserID,
		Username:  sess.Username,
		MasterKey: bytes.Clone(sess.MasterKey),
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *MemoryStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return common.ErrInvalidToken
	}

	s.evictLocked(token)
	return nil
}

// Close stops the janitor and wipes every remaining session.
func (s *MemoryStore) Close(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	defer s.mu.Unlock()

	for token := range s.sessions {
		s.evictLocked(token)
	}

	return nil
}

func (s *MemoryStore) evictLocked(token string) {
	if sess, ok := s.sessions[token]; ok {
		shared.WipeByteArray(sess.MasterKey)
		delete(s.sessions, token)
	}
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, sess := range s.sessions {
				if now.After(sess.ExpiresAt) {
					s.evictLocked(token)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
