package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"coligo-portal/internal/dto"
	"coligo-portal/internal/service"
	apperrors "coligo-portal/pkg/errors"
	"coligo-portal/pkg/response"
)

const msgAnnouncementNotFound = "Announcement not found"

// AnnouncementHandler 公告模块 HTTP 处理器
type AnnouncementHandler struct {
	annSvc service.AnnouncementService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(annSvc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{annSvc: annSvc}
}

// ListAnnouncements 公告列表（新的在前）
// GET /api/announcements
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	list, err := h.annSvc.List(c.Request.Context())
	if err != nil {
		h.handleAnnouncementError(c, err, "")
		return
	}
	response.OKList(c, list, len(list))
}

// GetAnnouncement 公告详情
// GET /api/announcements/:id
func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	result, err := h.annSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAnnouncementError(c, err, "")
		return
	}
	response.OK(c, result)
}

// CreateAnnouncement 创建公告，作者为当前用户
// POST /api/announcements
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.annSvc.Create(c.Request.Context(), &req, user)
	if err != nil {
		h.handleAnnouncementError(c, err, "create")
		return
	}
	response.Created(c, result)
}

// UpdateAnnouncement 更新公告（作者本人或管理员）
// PUT /api/announcements/:id
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var req dto.UpdateAnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.annSvc.Update(c.Request.Context(), c.Param("id"), &req, user)
	if err != nil {
		h.handleAnnouncementError(c, err, "update")
		return
	}
	response.OK(c, result)
}

// DeleteAnnouncement 删除公告（作者本人或管理员）
// DELETE /api/announcements/:id
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	if err := h.annSvc.Delete(c.Request.Context(), c.Param("id"), user); err != nil {
		h.handleAnnouncementError(c, err, "delete")
		return
	}
	response.OKEmpty(c)
}

// handleAnnouncementError 无权修改返回 401（与测验的 403 不同）
func (h *AnnouncementHandler) handleAnnouncementError(c *gin.Context, err error, action string) {
	if ve, ok := apperrors.AsValidation(err); ok {
		response.ValidationFailed(c, ve.Messages)
		return
	}
	switch {
	case errors.Is(err, service.ErrAnnouncementNotFound):
		response.NotFound(c, msgAnnouncementNotFound)
	case errors.Is(err, service.ErrAnnouncementForbidden):
		response.Unauthorized(c, "Not authorized to "+action+" this announcement")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
