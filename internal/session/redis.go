package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	redis "github.com/redis/go-redis/v9"
)

// RedisStore externalizes sessions to Redis so the core stays stateless and
// multiple instances can share logins. Expiry is enforced server-side with a
// key TTL. Unlike MemoryStore, evicted key material cannot be zeroed; the
// Redis deployment is expected to be as protected as the database.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type redisSession struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	MasterKey []byte    `json:"master_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{
		client: client,
		prefix: "securevault:session:",
		ttl:    ttl,
	}, nil
}

func (s *RedisStore) Create(ctx context.Context, userID, username string, masterKey []byte) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", common.ErrInternal
	}

	payload, err := json.Marshal(redisSession{
		UserID:    userID,
		Username:  username,
		MasterKey: masterKey,
		ExpiresAt: time.Now().Add(s.ttl),
	})
	if err != nil {
		return "", common.ErrInternal
	}

	if err := s.client.Set(ctx, s.prefix+token, payload, s.ttl).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (*Session, error) {
	payload, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}

	var stored redisSession
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, common.ErrInternal
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.client.Del(ctx, s.prefix+token).Err()
		return nil, common.ErrSessionExpired
	}

	return &Session{
		Token:     token,
		UserID:    stored.UserID,
		Username:  stored.Username,
		MasterKey: stored.MasterKey,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	deleted, err := s.client.Del(ctx, s.prefix+token).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return common.ErrInvalidToken
	}
	return nil
}

func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}
