package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coligo-portal/internal/model"
	"coligo-portal/internal/service"
	"coligo-portal/pkg/jwt"
	"coligo-portal/pkg/metrics"
	"coligo-portal/pkg/response"
)

const (
	currentUserKey = "current_user"
	// TokenCookie 登录时写入的 Cookie 名
	TokenCookie = "token"
)

// UserLoader 按 Token 中的 user_id 加载用户
// 用户不存在时返回 service.ErrUserNotFound
type UserLoader interface {
	LoadUser(ctx context.Context, userID string) (*model.User, error)
}

// Protect 认证中间件
// 优先读取 Authorization: Bearer <token>，否则读取 token Cookie；校验通过后把用户挂到上下文
func Protect(jwtMgr *jwt.Manager, users UserLoader, m *metrics.Metrics, logger *zap.Logger) gin.HandlerFunc {
	reject := func(c *gin.Context, reason, message string) {
		if m != nil {
			m.AuthFailures.WithLabelValues(reason).Inc()
		}
		response.Unauthorized(c, message)
		c.Abort()
	}

	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			reject(c, "missing_token", response.MsgNotAuthorized)
			return
		}

		claims, err := jwtMgr.Verify(token)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				reason = "expired_token"
			}
			reject(c, reason, response.MsgNotAuthorized)
			return
		}

		user, err := users.LoadUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				reject(c, "user_not_found", response.MsgUserNotFound)
				return
			}
			logger.Error("鉴权时加载用户失败", zap.String("user_id", claims.UserID), zap.Error(err))
			response.InternalError(c)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// extractToken Bearer 头优先，其次 Cookie
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer") {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser 读取 Protect 挂载的用户
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// SetCurrentUser 挂载当前用户（测试中绕过 Protect）
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(currentUserKey, user)
}

// RoleAuth 角色权限中间件，须挂在 Protect 之后
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Unauthorized(c, response.MsgNotAuthorized)
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, fmt.Sprintf("User role %s is not authorized to access this route", user.Role))
		c.Abort()
	}
}
