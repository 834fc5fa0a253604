package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 统一错误文案（与前端约定一致）
const (
	MsgServerError   = "Server Error"
	MsgNotAuthorized = "Not authorized to access this route"
	MsgUserNotFound  = "User not found"
)

// Response 统一响应结构
// 成功: {success:true, data} / {success:true, count, data}
// 失败: {success:false, error}，error 为字符串或字符串数组（字段校验）
type Response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// OKEmpty 200 成功，data 为空对象
func OKEmpty(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{}})
}

// OKList 200 列表响应，附带 count
func OKList(c *gin.Context, list interface{}, count int) {
	c.JSON(http.StatusOK, Response{Success: true, Count: &count, Data: list})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{Success: false, Error: message})
}

// ValidationFailed 400 字段校验失败，逐条返回提示
func ValidationFailed(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: messages})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500，不暴露内部错误细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, MsgServerError)
}
