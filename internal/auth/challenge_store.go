package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sondreb/foodie/internal/cache"
)

const (
	challengeKeyPrefix = "challenge:"
	challengeBytes     = 32
	// DefaultChallengeTTL is how long an issued challenge can be answered.
	DefaultChallengeTTL = 60 * time.Second
)

// ChallengeStoreInterface defines the interface for login challenge storage.
type ChallengeStoreInterface interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, challenge string) (bool, error)
}

// ChallengeStore keeps one-time login challenges in Redis.
type ChallengeStore struct {
	cache *cache.Client
	ttl   time.Duration
}

var _ ChallengeStoreInterface = (*ChallengeStore)(nil)

// NewChallengeStore creates a new challenge store.
func NewChallengeStore(cache *cache.Client, ttl time.Duration) *ChallengeStore {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &ChallengeStore{cache: cache, ttl: ttl}
}

// Issue generates a random challenge and stores it with the configured TTL.
func (s *ChallengeStore) Issue(ctx context.Context) (string, error) {
	buf := make([]byte, challengeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate challenge: %w", err)
	}
	challenge := hex.EncodeToString(buf)

	if err := s.cache.Set(ctx, challengeKeyPrefix+challenge, []byte("1"), s.ttl); err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}
	return challenge, nil
}

// Consume removes the challenge and reports whether it was outstanding.
// A challenge can be consumed at most once.
func (s *ChallengeStore) Consume(ctx context.Context, challenge string) (bool, error) {
	if challenge == "" {
		return false, nil
	}
	data, err := s.cache.GetDel(ctx, challengeKeyPrefix+challenge)
	if err != nil {
		return false, fmt.Errorf("consume challenge: %w", err)
	}
	return data != nil, nil
}
