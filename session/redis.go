package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every Redis transport failure surfaced by
// [RedisStore].
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisStore is a Redis-backed [Store] for deployments where sessions must
// survive process restart. Each session lives under its own key with a
// native Redis TTL; a per-user set indexes tokens for RevokeAllForUser.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	tokens TokenSource
}

// NewRedisStore creates a [RedisStore] on the given client. prefix
// namespaces all keys.
func NewRedisStore(client redis.UniversalClient, prefix string, tokens TokenSource) *RedisStore {
	return &RedisStore{
		redis:  client,
		prefix: prefix,
		tokens: tokens,
	}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + ":s:" + token
}

func (s *RedisStore) userKey(username string) string {
	return s.prefix + ":u:" + username
}

// Create generates a token and persists the session with a native Redis
// TTL. A ttl of zero or less stores nothing and returns a token that will
// never validate, preserving the immediately-expired contract. A token
// that already has a session returns [ErrTokenCollision].
func (s *RedisStore) Create(ctx context.Context, username string, roles []string, ttl time.Duration) (string, error) {
	token, err := s.tokens()
	if err != nil {
		return "", err
	}

	if ttl <= 0 {
		return token, nil
	}

	now := time.Now()
	sess := &Session{
		Token:        token,
		Username:     username,
		Roles:        append([]string(nil), roles...),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		LastActivity: now,
	}

	data, err := Encode(sess)
	if err != nil {
		return "", err
	}

	stored, err := s.redis.SetNX(ctx, s.key(token), data, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !stored {
		return "", ErrTokenCollision
	}

	if err := s.redis.SAdd(ctx, s.userKey(username), token).Err(); err != nil {
		_ = s.redis.Del(ctx, s.key(token)).Err()
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return token, nil
}

// Validate reports whether token identifies a live session, advancing
// LastActivity and preserving the remaining TTL on success. Corrupt or
// expired entries are removed and reported invalid.
func (s *RedisStore) Validate(ctx context.Context, token string) (bool, error) {
	key := s.key(token)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		_ = s.redis.Del(ctx, key).Err()
		return false, nil
	}

	now := time.Now()
	if !now.Before(sess.ExpiresAt) {
		_ = s.removeSession(ctx, token, sess.Username)
		return false, nil
	}

	pttl, err := s.redis.PTTL(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if pttl <= 0 {
		return false, nil
	}

	if now.After(sess.LastActivity) {
		sess.LastActivity = now
	}

	updated, err := Encode(sess)
	if err != nil {
		return false, err
	}

	// XX keeps the refresh write from resurrecting a session revoked
	// between the read and this point.
	refreshed, err := s.redis.SetXX(ctx, key, updated, pttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !refreshed {
		return false, nil
	}

	return true, nil
}

// Get fetches a session without mutating TTL or LastActivity.
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		return nil, err
	}
	sess.Token = token

	if !time.Now().Before(sess.ExpiresAt) {
		_ = s.removeSession(ctx, token, sess.Username)
		return nil, ErrNotFound
	}

	return sess, nil
}

// Revoke removes a session and its index entry. Unknown tokens are a no-op.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		// Corrupt entry: best-effort removal of the key alone.
		if delErr := s.redis.Del(ctx, s.key(token)).Err(); delErr != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, delErr)
		}
		return nil
	}

	return s.removeSession(ctx, token, sess.Username)
}

// RevokeAllForUser removes every indexed session for username.
func (s *RedisStore) RevokeAllForUser(ctx context.Context, username string) error {
	userKey := s.userKey(username)

	tokens, err := s.redis.SMembers(ctx, userKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, token := range tokens {
			pipe.Del(ctx, s.key(token))
		}
		pipe.Del(ctx, userKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// ActiveCount scans session keys and counts matches. O(n) over the
// keyspace; intended for diagnostics, not request hot paths.
func (s *RedisStore) ActiveCount(ctx context.Context) (int, error) {
	pattern := s.prefix + ":s:*"
	var (
		cursor uint64
		total  int
	)

	for {
		keys, next, err := s.redis.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return total, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *RedisStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

func (s *RedisStore) removeSession(ctx context.Context, token, username string) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(token))
		pipe.SRem(ctx, s.userKey(username), token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
