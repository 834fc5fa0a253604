package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"coligo-portal/internal/api/middleware"
	"coligo-portal/internal/model"
	"coligo-portal/pkg/response"
)

// MsgInvalidBody 请求体不是合法 JSON
const MsgInvalidBody = "Invalid request body"

// MustGetUser 从 Gin 上下文中取出 Protect 挂载的用户。
// 未挂载时写入 401 响应，调用方应在 ok=false 时直接 return。
func MustGetUser(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, response.MsgNotAuthorized)
		return nil, false
	}
	return user, true
}

// bindJSON 绑定请求体；空请求体视为空对象，交给字段校验给出逐条提示
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(err)
		response.BadRequest(c, MsgInvalidBody)
		return false
	}
	return true
}
