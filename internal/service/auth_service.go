package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"coligo-portal/config"
	"coligo-portal/internal/dto"
	"coligo-portal/internal/model"
	"coligo-portal/internal/repository"
	"coligo-portal/pkg/jwt"
)

var (
	ErrUserNotFound = errors.New("用户不存在")
)

// AuthService 认证业务接口
type AuthService interface {
	// Login 演示登录：不校验凭据，查找或创建固定的演示用户并签发 Token
	Login(ctx context.Context) (*dto.LoginResult, error)
	// Logout 清除登录标记；用户已不存在时静默成功
	Logout(ctx context.Context, userID string) error
	Me(ctx context.Context, userID string) (*dto.UserDetailResponse, error)
	// LoadUser 供鉴权中间件按 Token 中的 user_id 加载用户
	LoadUser(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context) (*dto.LoginResult, error) {
	// 1. 查找或创建演示用户
	user, err := s.findOrCreateDemoUser(ctx)
	if err != nil {
		return nil, err
	}

	// 2. 标记已登录
	user.IsAuthenticated = true
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新登录状态失败", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	// 3. 签发 Token
	token, err := s.jwtMgr.Issue(user.UserID)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录", zap.String("user_id", user.UserID))

	return &dto.LoginResult{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

// findOrCreateDemoUser 并发首次登录时依赖 email 唯一索引收敛到同一行
func (s *authService) findOrCreateDemoUser(ctx context.Context) (*model.User, error) {
	demo := s.cfg.Auth.DemoUser
	email := strings.ToLower(strings.TrimSpace(demo.Email))

	user, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询演示用户失败", zap.Error(err))
		return nil, err
	}

	user = &model.User{
		Name:  demo.Name,
		Email: email,
		Role:  demo.Role,
	}
	err = s.repo.User.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		s.logger.Error("创建演示用户失败", zap.Error(err))
		return nil, err
	}

	// 另一个请求已创建，重新读取
	user, err = s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("重新读取演示用户失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, userID string) error {
	user, err := s.LoadUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}

	user.IsAuthenticated = false
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新登出状态失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserDetailResponse, error) {
	user, err := s.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserDetailResponse{
		ID:              user.UserID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		IsAuthenticated: user.IsAuthenticated,
		CreatedAt:       user.CreatedAt.Format(dto.TimeLayout),
		UpdatedAt:       user.UpdatedAt.Format(dto.TimeLayout),
	}, nil
}

// ────────────────────── LoadUser ──────────────────────

func (s *authService) LoadUser(ctx context.Context, userID string) (*model.User, error) {
	if !isValidID(userID) {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// ── 内部辅助方法 ──

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    user.UserID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
