package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps issued token ids in a per-user set and marks revoked ids
// with keys that expire together with the token.
//
//	tokens:user:<id>   SET of jti
//	tokens:exp:<jti>   expiry unix seconds
//	tokens:revoked:<jti>
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

// DialRedis parses url, connects and pings.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return rdb, nil
}

func userKey(userID uint) string { return fmt.Sprintf("tokens:user:%d", userID) }
func expKey(jti string) string { return "tokens:exp:" + jti }
func revokedKey(jti string) string { return "tokens:revoked:" + jti }

func (s *RedisStore) Track(ctx context.Context, userID uint, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	key := userKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, jti)
	pipe.Set(ctx, expKey(jti), expiresAt.Unix(), ttl)
	// every token shares one TTL, so the newest token bounds the set
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track token: %w", err)
	}
	return nil
}

func (s *RedisStore) RevokeUser(ctx context.Context, userID uint) error {
	key := userKey(userID)
	jtis, err := s.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("list user tokens: %w", err)
	}
	if len(jtis) == 0 {
		return nil
	}
	now := s.now()
	pipe := s.rdb.TxPipeline()
	for _, jti := range jtis {
		ttl := time.Duration(0)
		if exp, err := s.rdb.Get(ctx, expKey(jti)).Int64(); err == nil {
			ttl = time.Unix(exp, 0).Sub(now)
		}
		if ttl <= 0 {
			// already expired, nothing left to revoke
			continue
		}
		pipe.Set(ctx, revokedKey(jti), 1, ttl)
	}
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := s.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
