package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"coligo-portal/internal/service"
	"coligo-portal/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportQuizzes 导出测验为 Excel（管理员、教师）
// GET /api/export/quizzes?course=xxx
func (h *ExportHandler) ExportQuizzes(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportQuizzes(c.Request.Context(), c.Query("course"))
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	sendFile(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportCalendar 导出测验截止日期日历
// GET /api/export/calendar?course=xxx
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), c.Query("course"))
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	sendFile(c, filename, contentTypeICS, buf.Bytes())
}

// sendFile 设置下载响应头并写入内容
func sendFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}
