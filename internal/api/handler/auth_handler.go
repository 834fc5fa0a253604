package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coligo-portal/config"
	"coligo-portal/internal/api/middleware"
	"coligo-portal/internal/dto"
	"coligo-portal/internal/service"
	"coligo-portal/pkg/metrics"
	"coligo-portal/pkg/response"
)

// CookieOptions 登录 Cookie 属性
type CookieOptions struct {
	MaxAge int // 秒，与 Token 有效期一致
	Secure bool
}

func cookieOptions(cfg *config.Config) CookieOptions {
	return CookieOptions{
		MaxAge: int(cfg.Auth.TokenTTL.Seconds()),
		Secure: cfg.Server.IsProduction(),
	}
}

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	cookie  CookieOptions
	metrics *metrics.Metrics
}

// NewAuthHandler 创建 AuthHandler，m 可为 nil
func NewAuthHandler(authSvc service.AuthService, cookie CookieOptions, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookie: cookie, metrics: m}
}

// Login 演示登录，不需要请求体
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	result, err := h.authSvc.Login(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	if h.metrics != nil {
		h.metrics.LoginsTotal.Inc()
	}

	h.setTokenCookie(c, result.Token, h.cookie.MaxAge)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		Token:   result.Token,
		User:    result.User,
	})
}

// Logout 登出并清除 Cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), user.UserID); err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	h.setTokenCookie(c, "", -1)
	response.OKEmpty(c)
}

// GetCurrentUser 当前登录用户
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, response.MsgUserNotFound)
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, value, maxAge, "/", "", h.cookie.Secure, true)
}
