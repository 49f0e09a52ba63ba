package util

import (
	"testing"
	"time"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Username: "alice", IsInstructor: true}

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsInstructor)
	assert.NotEmpty(t, claims.ID)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(&model.User{Username: "bob"}, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestJWTIDsAreUnique(t *testing.T) {
	user := &model.User{Username: "carol"}
	a, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)
	b, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	ca, _ := ParseJWT(a, "secret")
	cb, _ := ParseJWT(b, "secret")
	assert.NotEqual(t, ca.ID, cb.ID)
}
