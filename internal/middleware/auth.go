package middleware

import (
	"context"
	"strings"
	"time"

	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RevocationChecker 判断 token 是否已注销，nil 表示不检查
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) bool
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	// 证书下载链接在浏览器中直接打开时只能带 query
	return c.Query("token")
}

func parseClaims(c *gin.Context, secret string, revoked RevocationChecker) *util.Claims {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil
	}

	claims, err := util.ParseJWT(tokenString, secret)
	if err != nil {
		logger.Log.Debug("JWT parse failed", zap.Error(err))
		return nil
	}
	if revoked != nil && revoked.IsRevoked(c.Request.Context(), claims.ID) {
		return nil
	}
	return claims
}

func AuthMiddleware(secret string, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := parseClaims(c, secret, revoked)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware 可选认证，游客也能访问
func TryAuthMiddleware(secret string, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := parseClaims(c, secret, revoked); claims != nil {
			c.Set("user", claims)
		}
		c.Next()
	}
}

func InstructorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if !user.IsInstructor {
			util.Error(c, 403, "Instructor access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(ctx context.Context, userID uint, at time.Time) error
}

func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		claims := util.GetUserFromContext(c)
		if claims == nil {
			return
		}
		// 异步更新，不阻塞主流程
		userID := claims.UserID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repo.UpdateLastSeen(ctx, userID, time.Now()); err != nil {
				logger.Log.Debug("Failed to update last seen", zap.Uint("userID", userID), zap.Error(err))
			}
		}()
	}
}
