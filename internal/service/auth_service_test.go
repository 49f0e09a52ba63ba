package service

import (
	"context"
	"testing"
	"time"

	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryDenylist 测试用的进程内黑名单
type memoryDenylist struct {
	revoked map[string]time.Duration
}

func (m *memoryDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

func newAuth(t *testing.T) (*AuthService, *memoryDenylist) {
	t.Helper()
	db := testutil.DB(t)
	deny := &memoryDenylist{revoked: map[string]time.Duration{}}
	return NewAuthService(repository.NewUserRepository(db), testutil.Config(t), deny), deny
}

func TestRegisterValidatesAndRejectsDuplicates(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	in := RegisterInput{
		Username:        "alice",
		Email:           "Alice@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
	u, err := auth.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.Password)

	dupName := in
	dupName.Email = "other@example.com"
	_, err = auth.Register(ctx, dupName)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	dupEmail := in
	dupEmail.Username = "alice2"
	_, err = auth.Register(ctx, dupEmail)
	assert.ErrorIs(t, err, ErrEmailRegistered)

	bad := []RegisterInput{
		{Username: "a", Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret1"},
		{Username: "bob", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1"},
		{Username: "bob", Email: "bob@example.com", Password: "123", ConfirmPassword: "123"},
		{Username: "bob", Email: "bob@example.com", Password: "secret1", ConfirmPassword: "secret2"},
	}
	for _, b := range bad {
		_, err := auth.Register(ctx, b)
		assert.ErrorIs(t, err, util.ErrInvalidInput, "%+v", b)
	}
}

func TestLoginAndLogout(t *testing.T) {
	auth, deny := newAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterInput{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		IsInstructor:    true,
	})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, _, err = auth.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	token, user, err := auth.Login(ctx, " BOB@example.com ", "hunter22")
	require.NoError(t, err)
	assert.True(t, user.IsInstructor)

	claims, err := util.ParseJWT(token, auth.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, auth.IsRevoked(ctx, claims.ID))

	require.NoError(t, auth.Logout(ctx, claims))
	assert.True(t, auth.IsRevoked(ctx, claims.ID))
	assert.Contains(t, deny.revoked, claims.ID)

	expired := &util.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "old",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	require.NoError(t, auth.Logout(ctx, expired))
	assert.NotContains(t, deny.revoked, "old")
}

func TestIsRevokedWithoutDenylist(t *testing.T) {
	auth := &AuthService{}
	assert.False(t, auth.IsRevoked(context.Background(), "anything"))
	assert.NoError(t, auth.Logout(context.Background(), &util.Claims{}))
}
