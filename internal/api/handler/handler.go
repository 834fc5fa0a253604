package handler

import (
	"coligo-portal/config"
	"coligo-portal/internal/service"
	"coligo-portal/pkg/metrics"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Announcement *AnnouncementHandler
	Quiz         *QuizHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, m *metrics.Metrics) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth, cookieOptions(cfg), m),
		Announcement: NewAnnouncementHandler(svc.Announcement),
		Quiz:         NewQuizHandler(svc.Quiz),
		Export:       NewExportHandler(svc.Export),
	}
}
