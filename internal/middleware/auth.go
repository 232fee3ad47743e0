package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mafia_web/internal/models"
	"mafia_web/internal/service"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "userID"
)

// Authenticator 由權杖解析出目前用戶
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// DefaultPublicPaths 不需要驗證的路徑
var DefaultPublicPaths = []string{"/", "/health", "/metrics", "/users", "/token"}

// AuthMiddleware 是一個 Gin 中間件，用於驗證請求的 JWT token
//
// publicPaths 中的路徑（完全相符）直接放行，其餘請求須帶有 Bearer token。
func AuthMiddleware(auth Authenticator, publicPaths []string, log *zap.Logger) gin.HandlerFunc {
	public := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = true
	}

	return func(c *gin.Context) {
		if public[c.Request.URL.Path] {
			c.Next()
			return
		}

		// 從請求頭中獲取 Authorization 字段
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "not authenticated")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			unauthorized(c, "authorization header format must be Bearer {token}")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if service.KindOf(err) == service.KindCredentials {
				unauthorized(c, "could not validate credentials")
				return
			}
			log.Error("authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		// 將用戶信息設置到上下文中
		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// CurrentUser 取出經驗證的用戶，未經驗證時回傳 nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
