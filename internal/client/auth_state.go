package client

import (
	"context"
	"sync"

	"coligo-portal/internal/dto"
)

// 登录/登出失败的默认文案
const (
	MsgLoginFailed  = "Login failed"
	MsgLogoutFailed = "Logout failed"
)

// AuthSnapshot 认证状态快照
type AuthSnapshot struct {
	User            *dto.UserResponse
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// AuthAPI AuthState 依赖的接口子集
type AuthAPI interface {
	Login(ctx context.Context) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
	OnUnauthorized(fn func())
}

// AuthState 客户端认证状态
// 启动时仅凭本地是否存在 Token 判定已登录，不向服务端校验；之后任一请求收到 401 会清空会话
type AuthState struct {
	api    AuthAPI
	tokens TokenStore

	mu    sync.RWMutex
	state AuthSnapshot
}

// NewAuthState 从 TokenStore 恢复状态并订阅 401 事件
func NewAuthState(api AuthAPI, tokens TokenStore) (*AuthState, error) {
	token, err := tokens.Load()
	if err != nil {
		return nil, err
	}

	s := &AuthState{
		api:    api,
		tokens: tokens,
		state: AuthSnapshot{
			Token:           token,
			IsAuthenticated: token != "",
		},
	}
	api.OnUnauthorized(s.clearSession)
	return s, nil
}

// Snapshot 返回当前状态副本
func (s *AuthState) Snapshot() AuthSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// IsAuthenticated 是否处于登录状态
func (s *AuthState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Login 登录：pending → fulfilled（持久化 Token）/ rejected（记录错误）
func (s *AuthState) Login(ctx context.Context) error {
	s.setPending()

	resp, err := s.api.Login(ctx)
	if err == nil {
		err = s.tokens.Save(resp.Token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Loading = false
	if err != nil {
		s.state.Error = messageOr(err, MsgLoginFailed)
		return err
	}

	user := resp.User
	s.state.User = &user
	s.state.Token = resp.Token
	s.state.IsAuthenticated = true
	s.state.Error = ""
	return nil
}

// Logout 登出：成功后清空会话与本地 Token；失败时仅记录错误，登录状态保持不变
func (s *AuthState) Logout(ctx context.Context) error {
	s.setPending()

	err := s.api.Logout(ctx)
	if err == nil {
		err = s.tokens.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Loading = false
	if err != nil {
		s.state.Error = messageOr(err, MsgLogoutFailed)
		return err
	}

	s.state.User = nil
	s.state.Token = ""
	s.state.IsAuthenticated = false
	s.state.Error = ""
	return nil
}

// Reset 清除 loading 与 error，不影响会话
func (s *AuthState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Error = ""
}

func (s *AuthState) setPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = ""
}

// clearSession 401 回调：Token 已由 APIClient 清除，这里只重置内存状态
func (s *AuthState) clearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = nil
	s.state.Token = ""
	s.state.IsAuthenticated = false
}
