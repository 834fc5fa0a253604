package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coligo-portal/internal/model"
	"coligo-portal/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	// 注入的错误
	getErr    error
	createErr error
	updateErr error
	creates   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	user.UpdatedAt = time.Now()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

// count 去重后的用户数
func (m *mockUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// ── Mock AnnouncementRepository ──

type mockAnnouncementRepo struct {
	announcements map[string]*model.Announcement
	users         *mockUserRepo
	listErr       error
	getErr        error
	seq           int
}

func newMockAnnouncementRepo(users *mockUserRepo) *mockAnnouncementRepo {
	return &mockAnnouncementRepo{
		announcements: make(map[string]*model.Announcement),
		users:         users,
	}
}

func (m *mockAnnouncementRepo) Create(_ context.Context, ann *model.Announcement) error {
	if ann.AnnouncementID == "" {
		ann.AnnouncementID = uuid.NewString()
	}
	// 保证创建时间严格递增
	m.seq++
	ts := time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	ann.CreatedAt, ann.UpdatedAt = ts, ts
	cp := *ann
	cp.Author = nil
	m.announcements[ann.AnnouncementID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) populate(ann *model.Announcement) *model.Announcement {
	cp := *ann
	if u, ok := m.users.users[ann.AuthorID]; ok {
		cp.Author = &model.User{UserID: u.UserID, Name: u.Name, Role: u.Role}
	}
	return &cp
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if a, ok := m.announcements[id]; ok {
		return m.populate(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) List(_ context.Context) ([]model.Announcement, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.Announcement, 0, len(m.announcements))
	for _, a := range m.announcements {
		result = append(result, *m.populate(a))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockAnnouncementRepo) Update(_ context.Context, ann *model.Announcement) error {
	cp := *ann
	cp.Author = nil
	m.announcements[ann.AnnouncementID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) Delete(_ context.Context, id string) error {
	delete(m.announcements, id)
	return nil
}

// ── Mock QuizRepository ──

type mockQuizRepo struct {
	quizzes map[string]*model.Quiz
	listErr error
	getErr  error
}

func newMockQuizRepo() *mockQuizRepo {
	return &mockQuizRepo{quizzes: make(map[string]*model.Quiz)}
}

func (m *mockQuizRepo) Create(_ context.Context, quiz *model.Quiz) error {
	if quiz.QuizID == "" {
		quiz.QuizID = uuid.NewString()
	}
	_ = quiz.BeforeSave(nil)
	cp := *quiz
	m.quizzes[quiz.QuizID] = &cp
	return nil
}

func (m *mockQuizRepo) GetByID(_ context.Context, id string) (*model.Quiz, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if q, ok := m.quizzes[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuizRepo) List(_ context.Context, course string) ([]model.Quiz, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Quiz
	for _, q := range m.quizzes {
		if course != "" && q.Course != course {
			continue
		}
		result = append(result, *q)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (m *mockQuizRepo) Update(_ context.Context, quiz *model.Quiz) error {
	_ = quiz.BeforeSave(nil)
	cp := *quiz
	m.quizzes[quiz.QuizID] = &cp
	return nil
}

func (m *mockQuizRepo) Delete(_ context.Context, id string) error {
	delete(m.quizzes, id)
	return nil
}

// ── 测试辅助 ──

type mockRepos struct {
	users         *mockUserRepo
	announcements *mockAnnouncementRepo
	quizzes       *mockQuizRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	users := newMockUserRepo()
	mocks := &mockRepos{
		users:         users,
		announcements: newMockAnnouncementRepo(users),
		quizzes:       newMockQuizRepo(),
	}
	return &repository.Repository{
		User:         mocks.users,
		Announcement: mocks.announcements,
		Quiz:         mocks.quizzes,
	}, mocks
}

// seedUser 直接写入一个用户
func seedUser(m *mockUserRepo, name, role string) *model.User {
	u := &model.User{
		UserID: uuid.NewString(),
		Name:   name,
		Email:  name + "@example.com",
		Role:   role,
	}
	m.users[u.UserID] = u
	cp := *u
	return &cp
}
