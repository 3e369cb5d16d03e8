package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore invalidates session tokens before they expire (logout).
type RevocationStore interface {
	// Revoke marks a token's jti as revoked. ttl should be the remaining
	// time until the token's natural expiry.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks whether a token's jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationStore implements RevocationStore using Redis, so revoked
// sessions stay revoked across instances and restarts.
type RedisRevocationStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisRevocationConfig holds Redis connection settings for the store
type RedisRevocationConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRevocationStore creates a Redis-backed revocation store
func NewRedisRevocationStore(cfg RedisRevocationConfig) (*RedisRevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for session revocation: %w", err)
	}

	return &RedisRevocationStore{
		client:    client,
		keyPrefix: "session:revoked:",
	}, nil
}

func (s *RedisRevocationStore) key(jti string) string {
	return s.keyPrefix + jti
}

// Revoke marks a jti as revoked until its natural expiry. A non-positive
// ttl is a no-op: redis treats expiration 0 as "no expiry" and the key
// would outlive the token forever.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks whether a jti has been revoked.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}

// Ensure RedisRevocationStore implements RevocationStore
var _ RevocationStore = (*RedisRevocationStore)(nil)

// InMemoryRevocationStore provides an in-memory implementation for
// development and tests. Not suitable for multiple instances.
type InMemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry of the revocation entry
}

// NewInMemoryRevocationStore creates a new in-memory revocation store
func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{
		revoked: make(map[string]time.Time),
	}
}

// Revoke marks a jti as revoked.
func (s *InMemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks whether a jti is revoked, expiring stale entries.
func (s *InMemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, exists := s.revoked[jti]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

// Ensure InMemoryRevocationStore implements RevocationStore
var _ RevocationStore = (*InMemoryRevocationStore)(nil)
