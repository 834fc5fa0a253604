package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"coligo-portal/internal/dto"
)

// DefaultBaseURL 本地开发服务地址
const DefaultBaseURL = "http://localhost:5001"

// APIError 服务端返回的非 2xx 响应
// Message 取自响应体的 error 字段；数组形式的校验错误以 "; " 连接
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("请求失败: HTTP %d", e.Status)
	}
	return fmt.Sprintf("请求失败: HTTP %d: %s", e.Status, e.Message)
}

// messageOr 优先使用服务端错误文案
func messageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// APIClient 门户 HTTP 客户端
// 每个请求从 TokenStore 读取 Token 作为 Bearer 头；收到 401 时清除 Token 并通知订阅者
type APIClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	mu             sync.Mutex
	onUnauthorized []func()
}

// Option APIClient 可选配置
type Option func(*APIClient)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *APIClient) { c.http = hc }
}

// NewAPIClient 创建客户端，baseURL 为空时使用 DefaultBaseURL
func NewAPIClient(baseURL string, tokens TokenStore, opts ...Option) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized 注册 401 回调
func (c *APIClient) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

// ── 接口 ──

// Login POST /api/auth/login
func (c *APIClient) Login(ctx context.Context) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout POST /api/auth/logout
func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me GET /api/auth/me
func (c *APIClient) Me(ctx context.Context) (*dto.UserDetailResponse, error) {
	var out dto.DataResponse[dto.UserDetailResponse]
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// FetchAnnouncements GET /api/announcements
func (c *APIClient) FetchAnnouncements(ctx context.Context) ([]dto.AnnouncementResponse, error) {
	var out dto.ListResponse[dto.AnnouncementResponse]
	if err := c.do(ctx, http.MethodGet, "/api/announcements", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FetchQuizzes GET /api/quizzes，course 为空时不过滤
func (c *APIClient) FetchQuizzes(ctx context.Context, course string) ([]dto.QuizResponse, error) {
	path := "/api/quizzes"
	if course != "" {
		path += "?" + url.Values{"course": {course}}.Encode()
	}

	var out dto.ListResponse[dto.QuizResponse]
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ── 内部实现 ──

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("编码请求体失败: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Load()
		if err != nil {
			return fmt.Errorf("读取 Token 失败: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

func (c *APIClient) handleUnauthorized() {
	if c.tokens != nil {
		_ = c.tokens.Clear()
	}

	c.mu.Lock()
	hooks := append([]func(){}, c.onUnauthorized...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// errorMessage 解析 {success:false, error: string | []string}
func errorMessage(data []byte) string {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Error) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(body.Error, &msg); err == nil {
		return msg
	}
	var msgs []string
	if err := json.Unmarshal(body.Error, &msgs); err == nil {
		return strings.Join(msgs, "; ")
	}
	return ""
}
