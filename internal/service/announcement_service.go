package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"coligo-portal/internal/dto"
	"coligo-portal/internal/model"
	"coligo-portal/internal/repository"
	"coligo-portal/pkg/validation"
)

// ── 公告模块业务错误 ──

var (
	ErrAnnouncementNotFound  = errors.New("公告不存在")
	ErrAnnouncementForbidden = errors.New("无权修改该公告")
)

// AnnouncementService 公告业务接口
// 读取不做权限判断；修改、删除限作者本人或管理员
type AnnouncementService interface {
	List(ctx context.Context) ([]dto.AnnouncementResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AnnouncementResponse, error)
	Create(ctx context.Context, req *dto.CreateAnnouncementRequest, caller *model.User) (*dto.AnnouncementResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest, caller *model.User) (*dto.AnnouncementResponse, error)
	Delete(ctx context.Context, id string, caller *model.User) error
}

type announcementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(repo *repository.Repository, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *announcementService) List(ctx context.Context) ([]dto.AnnouncementResponse, error) {
	list, err := s.repo.Announcement.List(ctx)
	if err != nil {
		s.logger.Error("列出公告失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AnnouncementResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAnnouncementResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *announcementService) GetByID(ctx context.Context, id string) (*dto.AnnouncementResponse, error) {
	ann, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAnnouncementResponse(ann), nil
}

// ────────────────────── Create ──────────────────────

func (s *announcementService) Create(ctx context.Context, req *dto.CreateAnnouncementRequest, caller *model.User) (*dto.AnnouncementResponse, error) {
	ann := &model.Announcement{
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Course:  req.Course,
	}
	if caller != nil {
		ann.AuthorID = caller.UserID
	}

	if err := validation.Struct(ann); err != nil {
		return nil, err
	}

	if err := s.repo.Announcement.Create(ctx, ann); err != nil {
		s.logger.Error("创建公告失败", zap.Error(err))
		return nil, err
	}

	ann.Author = caller
	return toAnnouncementResponse(ann), nil
}

// ────────────────────── Update ──────────────────────

func (s *announcementService) Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest, caller *model.User) (*dto.AnnouncementResponse, error) {
	ann, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModifyAnnouncement(caller, ann) {
		return nil, ErrAnnouncementForbidden
	}

	if req.Title != nil {
		ann.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		ann.Content = *req.Content
	}
	if req.Course != nil {
		ann.Course = *req.Course
	}

	if err := validation.Struct(ann); err != nil {
		return nil, err
	}

	if err := s.repo.Announcement.Update(ctx, ann); err != nil {
		s.logger.Error("更新公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toAnnouncementResponse(ann), nil
}

// ────────────────────── Delete ──────────────────────

func (s *announcementService) Delete(ctx context.Context, id string, caller *model.User) error {
	ann, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !CanModifyAnnouncement(caller, ann) {
		return ErrAnnouncementForbidden
	}

	if err := s.repo.Announcement.Delete(ctx, id); err != nil {
		s.logger.Error("删除公告失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *announcementService) find(ctx context.Context, id string) (*model.Announcement, error) {
	if !isValidID(id) {
		return nil, ErrAnnouncementNotFound
	}

	ann, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		s.logger.Error("查询公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return ann, nil
}

func toAnnouncementResponse(ann *model.Announcement) *dto.AnnouncementResponse {
	resp := &dto.AnnouncementResponse{
		ID:        ann.AnnouncementID,
		Title:     ann.Title,
		Content:   ann.Content,
		Course:    ann.Course,
		CreatedAt: ann.CreatedAt.Format(dto.TimeLayout),
		UpdatedAt: ann.UpdatedAt.Format(dto.TimeLayout),
	}
	if ann.Author != nil {
		resp.Author = &dto.AuthorResponse{
			ID:   ann.Author.UserID,
			Name: ann.Author.Name,
			Role: ann.Author.Role,
		}
	}
	return resp
}
