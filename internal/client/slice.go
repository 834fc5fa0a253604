package client

import (
	"context"
	"sync"

	"coligo-portal/internal/dto"
)

// Status 异步请求状态
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// 列表拉取失败的默认文案
const (
	MsgFetchAnnouncementsFailed = "Failed to fetch announcements"
	MsgFetchQuizzesFailed       = "Failed to fetch quizzes"
)

// SliceState 列表数据状态
type SliceState[T any] struct {
	Items   []T
	Status  Status
	Loading bool
	Error   string
}

// Slice 单一资源列表的拉取状态
type Slice[T any] struct {
	fallback string

	mu    sync.RWMutex
	state SliceState[T]
	// inflight 在途请求数；settled/settledErr 为最近一次完成请求的结果
	inflight   int
	settled    Status
	settledErr string
}

// NewSlice 创建 Slice，fallback 为服务端未返回错误文案时使用的提示
func NewSlice[T any](fallback string) *Slice[T] {
	return &Slice[T]{
		fallback: fallback,
		state:    SliceState[T]{Items: []T{}, Status: StatusIdle},
		settled:  StatusIdle,
	}
}

// NewAnnouncementSlice 公告列表
func NewAnnouncementSlice() *Slice[dto.AnnouncementResponse] {
	return NewSlice[dto.AnnouncementResponse](MsgFetchAnnouncementsFailed)
}

// NewQuizSlice 测验列表
func NewQuizSlice() *Slice[dto.QuizResponse] {
	return NewSlice[dto.QuizResponse](MsgFetchQuizzesFailed)
}

// Fetch 调用 fn 并按结果更新状态
// ctx 在 fn 返回前已取消时丢弃本次结果，不覆盖期间其他请求写入的数据
func (s *Slice[T]) Fetch(ctx context.Context, fn func(context.Context) ([]T, error)) error {
	s.mu.Lock()
	s.inflight++
	s.state.Status = StatusPending
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	items, err := fn(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	s.state.Loading = s.inflight > 0

	if ctx.Err() != nil {
		// 没有其他请求在途且状态仍停在 pending 时，回到最近一次完成的结果
		if s.inflight == 0 && s.state.Status == StatusPending {
			s.state.Status = s.settled
			s.state.Error = s.settledErr
		}
		return ctx.Err()
	}

	if err != nil {
		s.settle(StatusRejected, messageOr(err, s.fallback))
		return err
	}

	if items == nil {
		items = []T{}
	}
	s.state.Items = items
	s.settle(StatusFulfilled, "")
	return nil
}

func (s *Slice[T]) settle(status Status, errMsg string) {
	s.settled = status
	s.settledErr = errMsg
	s.state.Status = status
	s.state.Error = errMsg
}

// State 返回当前状态副本
func (s *Slice[T]) State() SliceState[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Items = append([]T(nil), s.state.Items...)
	if st.Items == nil {
		st.Items = []T{}
	}
	return st
}
