package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid/ctms/pkg/iam/user"
	"github.com/talentgrid/ctms/pkg/kernel"
)

type fakeRevocationStore struct {
	revoked map[string]time.Duration
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]time.Duration{}}
}

func (s *fakeRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.revoked[tokenID] = ttl
	return nil
}

func (s *fakeRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func testUser() *user.User {
	return user.New("Amara", "Perera", kernel.NewEmail("amara@example.com"), "hash", user.RoleHR)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", newFakeRevocationStore())
	u := testUser()

	token, err := svc.GenerateToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	authCtx, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, u.ID, authCtx.UserID)
	assert.Equal(t, user.RoleHR, authCtx.Role)
	assert.NotEmpty(t, authCtx.TokenID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), authCtx.Expires, time.Minute)
	assert.False(t, authCtx.IsAdmin())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", nil)
	verifier := NewTokenService("secret-b", nil)

	token, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewTokenService("test-secret", nil)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	store := newFakeRevocationStore()
	svc := NewTokenService("test-secret", store)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	authCtx, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(context.Background(), authCtx))

	ttl, ok := store.revoked[authCtx.TokenID]
	require.True(t, ok)
	assert.Greater(t, ttl, 23*time.Hour)

	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
}

func TestRevokeToken_ExpiredTokenIsNoop(t *testing.T) {
	store := newFakeRevocationStore()
	svc := NewTokenService("test-secret", store)

	authCtx := &AuthContext{TokenID: "old", Expires: time.Now().Add(-time.Hour)}
	require.NoError(t, svc.RevokeToken(context.Background(), authCtx))
	assert.Empty(t, store.revoked)
}

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, svc.Compare(hash, "hunter2hunter2"))
	assert.False(t, svc.Compare(hash, "wrong-password"))
}
