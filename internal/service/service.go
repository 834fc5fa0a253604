package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coligo-portal/config"
	"coligo-portal/internal/repository"
	"coligo-portal/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Announcement AnnouncementService
	Quiz         QuizService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, logger),
		Announcement: NewAnnouncementService(repo, logger),
		Quiz:         NewQuizService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}

// isValidID 资源 ID 为标准 36 位 UUID，格式错误按不存在处理
// uuid.Parse 还接受 urn:uuid:、花括号与无连字符写法，这些形式 Postgres 会拒绝，需先排除
func isValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
