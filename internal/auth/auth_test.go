package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sondreb/foodie/internal/cache"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("testpass123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=4$"))
	assert.True(t, VerifyPassword("testpass123", hash))

	for _, other := range []string{"", "testpass124", "TESTPASS123", "testpass123 "} {
		assert.False(t, VerifyPassword(other, hash), "password %q must not verify", other)
	}
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuu5Ck0Cq1hGZ1r2pPv5cT4OlbKtb0nVi"},
		{"wrong version", "$argon2id$v=18$m=65536,t=3,p=4$c29tZXNhbHQ$aGFzaA"},
		{"bad params", "$argon2id$v=19$m=x,t=3,p=4$c29tZXNhbHQ$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifyPassword("anything", tt.hash))
		})
	}
}

func TestDummyHash_IsWellFormed(t *testing.T) {
	assert.False(t, VerifyPassword("anything", DummyHash))
	assert.Len(t, strings.Split(DummyHash, "$"), 6)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken("u-1", "alice", []string{RoleUser, RoleAdmin})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.HasRole(RoleAdmin))
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.GenerateToken("u-1", "alice", []string{RoleUser})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("other-secret", time.Hour)
	token, err := issuer.GenerateToken("u-1", "alice", nil)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = NewJWTService("test-secret", time.Hour).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey(DefaultKeyLength)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(key)
	require.NoError(t, err)
	assert.Len(t, raw, DefaultKeyLength)

	_, err = GenerateKey(MinKeyLength - 1)
	assert.Error(t, err)
	_, err = GenerateKey(MaxKeyLength + 1)
	assert.Error(t, err)
}

func TestVerifyProof(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	encodedPub := base64.StdEncoding.EncodeToString(pub)
	sig := base64.StdEncoding.EncodeToString(ed25519.Sign(priv, []byte("challenge-1")))

	assert.True(t, VerifyProof(encodedPub, "challenge-1", sig))
	assert.False(t, VerifyProof(encodedPub, "challenge-2", sig))
	assert.False(t, VerifyProof("not-base64!", "challenge-1", sig))
	assert.False(t, VerifyProof(encodedPub, "challenge-1", "short"))
}

func TestChallengeStore_IssueConsumeOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewChallengeStore(cache.NewFromRedis(rdb), time.Minute)
	ctx := context.Background()

	challenge, err := store.Issue(ctx)
	require.NoError(t, err)
	assert.Len(t, challenge, challengeBytes*2)
	assert.True(t, mr.Exists(challengeKeyPrefix+challenge))

	ok, err := store.Consume(ctx, challenge)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, challenge)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChallengeStore_Expires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewChallengeStore(cache.NewFromRedis(rdb), 0)
	ctx := context.Background()

	challenge, err := store.Issue(ctx)
	require.NoError(t, err)

	mr.FastForward(DefaultChallengeTTL + time.Second)

	ok, err := store.Consume(ctx, challenge)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCookieFactory(t *testing.T) {
	prod := NewCookieFactory(true, time.Hour)
	c := prod.Session("abc")
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	dev := NewCookieFactory(false, time.Hour)
	c = dev.Session("abc")
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	cleared := dev.Cleared()
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}
