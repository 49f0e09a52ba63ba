package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(ctx context.Context, jti string) bool {
	return r[jti]
}

func newRouter(revoked RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware(secret, revoked), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).Username)
	})
	r.GET("/teach", AuthMiddleware(secret, revoked), InstructorMiddleware(), func(c *gin.Context) {
		util.Success(c, "ok")
	})
	r.GET("/maybe", TryAuthMiddleware(secret, revoked), func(c *gin.Context) {
		if util.GetUserFromContext(c) == nil {
			util.Success(c, "guest")
			return
		}
		util.Success(c, "member")
	})
	return r
}

func token(t *testing.T, instructor bool) (string, *util.Claims) {
	t.Helper()
	tok, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: 1}, Username: "alice", IsInstructor: instructor}, secret, time.Hour)
	require.NoError(t, err)
	claims, err := util.ParseJWT(tok, secret)
	require.NoError(t, err)
	return tok, claims
}

func do(r http.Handler, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(nil)
	tok, _ := token(t, false)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "garbage").Code)
	assert.Equal(t, http.StatusOK, do(r, "/private", tok).Code)
	assert.Equal(t, http.StatusOK, do(r, "/private?token="+tok, "").Code)
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	tok, claims := token(t, false)
	r := newRouter(revokedSet{claims.ID: true})

	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", tok).Code)
	assert.Contains(t, do(r, "/maybe", tok).Body.String(), "guest")
}

func TestInstructorMiddleware(t *testing.T) {
	r := newRouter(nil)
	student, _ := token(t, false)
	lecturer, _ := token(t, true)

	assert.Equal(t, http.StatusForbidden, do(r, "/teach", student).Code)
	assert.Equal(t, http.StatusOK, do(r, "/teach", lecturer).Code)
}

func TestTryAuthMiddleware(t *testing.T) {
	r := newRouter(nil)
	tok, _ := token(t, false)

	assert.Contains(t, do(r, "/maybe", "").Body.String(), "guest")
	assert.Contains(t, do(r, "/maybe", "bad").Body.String(), "guest")
	assert.Contains(t, do(r, "/maybe", tok).Body.String(), "member")
}
