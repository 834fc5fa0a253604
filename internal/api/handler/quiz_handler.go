package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"coligo-portal/internal/dto"
	"coligo-portal/internal/service"
	apperrors "coligo-portal/pkg/errors"
	"coligo-portal/pkg/response"
)

const msgQuizNotFound = "Quiz not found"

// QuizHandler 测验模块 HTTP 处理器
type QuizHandler struct {
	quizSvc service.QuizService
}

// NewQuizHandler 创建 QuizHandler
func NewQuizHandler(quizSvc service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// ListQuizzes 测验列表（按截止日期升序）
// GET /api/quizzes?course=xxx
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	var req dto.QuizListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	list, err := h.quizSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleQuizError(c, err, "")
		return
	}
	response.OKList(c, list, len(list))
}

// GetQuiz 测验详情
// GET /api/quizzes/:id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	result, err := h.quizSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleQuizError(c, err, "")
		return
	}
	response.OK(c, result)
}

// CreateQuiz 创建测验（管理员、教师）
// POST /api/quizzes
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var req dto.CreateQuizRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.quizSvc.Create(c.Request.Context(), &req, user)
	if err != nil {
		h.handleQuizError(c, err, "create")
		return
	}
	response.Created(c, result)
}

// UpdateQuiz 更新测验（管理员、教师）
// PUT /api/quizzes/:id
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var req dto.UpdateQuizRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.quizSvc.Update(c.Request.Context(), c.Param("id"), &req, user)
	if err != nil {
		h.handleQuizError(c, err, "update")
		return
	}
	response.OK(c, result)
}

// DeleteQuiz 删除测验（管理员、教师）
// DELETE /api/quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	if err := h.quizSvc.Delete(c.Request.Context(), c.Param("id"), user); err != nil {
		h.handleQuizError(c, err, "delete")
		return
	}
	response.OKEmpty(c)
}

func (h *QuizHandler) handleQuizError(c *gin.Context, err error, action string) {
	if ve, ok := apperrors.AsValidation(err); ok {
		response.ValidationFailed(c, ve.Messages)
		return
	}
	switch {
	case errors.Is(err, service.ErrQuizForbidden):
		response.Forbidden(c, "Not authorized to "+action+" quizzes")
	case errors.Is(err, service.ErrQuizNotFound):
		response.NotFound(c, msgQuizNotFound)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
