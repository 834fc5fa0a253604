//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coligo-portal/internal/model"
	"coligo-portal/internal/repository"
	"coligo-portal/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=coligo_test sslmode=disable"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, database.MigrateUp, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// createUser 创建测试用户并注册清理
func createUser(t *testing.T, role string) *model.User {
	t.Helper()
	user := &model.User{
		Name:  "测试用户",
		Email: fmt.Sprintf("test%d@example.com", time.Now().UnixNano()),
		Role:  role,
	}
	if err := testDB.Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("author_id = ?", user.UserID).Delete(&model.Announcement{})
		testDB.Where("user_id = ?", user.UserID).Delete(&model.User{})
	})
	return user
}

// ═══════════════════════════════════════════════════════════
// Test: User
// ═══════════════════════════════════════════════════════════

func TestUser_DuplicateEmail(t *testing.T) {
	user := createUser(t, model.RoleStudent)
	repo := repository.NewRepository(testDB)

	dup := &model.User{Name: "again", Email: user.Email, Role: model.RoleStudent}
	err := repo.User.Create(context.Background(), dup)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("期望 ErrDuplicatedKey，得到: %v", err)
	}
}

func TestUser_GetByEmail(t *testing.T) {
	user := createUser(t, model.RoleTeacher)
	repo := repository.NewRepository(testDB)

	found, err := repo.User.GetByEmail(context.Background(), user.Email)
	if err != nil {
		t.Fatalf("GetByEmail 失败: %v", err)
	}
	if found.UserID != user.UserID {
		t.Errorf("ID 不匹配: expected %s, got %s", user.UserID, found.UserID)
	}

	_, err = repo.User.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Announcement
// ═══════════════════════════════════════════════════════════

func TestAnnouncement_ListNewestFirstWithAuthor(t *testing.T) {
	author := createUser(t, model.RoleTeacher)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	older := &model.Announcement{Title: "older", Content: "c", AuthorID: author.UserID, Course: "Math"}
	if err := repo.Announcement.Create(ctx, older); err != nil {
		t.Fatalf("创建公告失败: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	newer := &model.Announcement{Title: "newer", Content: "c", AuthorID: author.UserID, Course: "Math"}
	if err := repo.Announcement.Create(ctx, newer); err != nil {
		t.Fatalf("创建公告失败: %v", err)
	}

	list, err := repo.Announcement.List(ctx)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}

	posNewer, posOlder := -1, -1
	for i, a := range list {
		switch a.AnnouncementID {
		case newer.AnnouncementID:
			posNewer = i
			if a.Author == nil || a.Author.Name != author.Name || a.Author.Role != model.RoleTeacher {
				t.Errorf("作者未正确填充: %+v", a.Author)
			}
			if a.Author != nil && a.Author.Email != "" {
				t.Errorf("作者不应包含 email")
			}
		case older.AnnouncementID:
			posOlder = i
		}
	}
	if posNewer < 0 || posOlder < 0 || posNewer > posOlder {
		t.Errorf("期望新公告在前: newer=%d older=%d", posNewer, posOlder)
	}
}

func TestAnnouncement_UpdateAndDelete(t *testing.T) {
	author := createUser(t, model.RoleStudent)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	ann := &model.Announcement{Title: "t", Content: "c", AuthorID: author.UserID, Course: "Physics"}
	if err := repo.Announcement.Create(ctx, ann); err != nil {
		t.Fatalf("创建公告失败: %v", err)
	}

	found, err := repo.Announcement.GetByID(ctx, ann.AnnouncementID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	found.Title = "updated"
	if err := repo.Announcement.Update(ctx, found); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	again, _ := repo.Announcement.GetByID(ctx, ann.AnnouncementID)
	if again.Title != "updated" {
		t.Errorf("标题未更新: %s", again.Title)
	}

	if err := repo.Announcement.Delete(ctx, ann.AnnouncementID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := repo.Announcement.GetByID(ctx, ann.AnnouncementID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("删除后期望 ErrRecordNotFound，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Quiz
// ═══════════════════════════════════════════════════════════

func TestQuiz_ListFilterAndOrder(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	course := fmt.Sprintf("Course-%d", time.Now().UnixNano())

	later := &model.Quiz{Title: "later", Course: course, Topic: "t", DueDate: time.Now().Add(48 * time.Hour)}
	sooner := &model.Quiz{Title: "sooner", Course: course, Topic: "t", DueDate: time.Now().Add(24 * time.Hour)}
	other := &model.Quiz{Title: "other", Course: course + "-x", Topic: "t", DueDate: time.Now()}
	for _, q := range []*model.Quiz{later, sooner, other} {
		if err := repo.Quiz.Create(ctx, q); err != nil {
			t.Fatalf("创建测验失败: %v", err)
		}
		id := q.QuizID
		t.Cleanup(func() { testDB.Where("quiz_id = ?", id).Delete(&model.Quiz{}) })
	}

	list, err := repo.Quiz.List(ctx, course)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 条，得到 %d", len(list))
	}
	if list[0].QuizID != sooner.QuizID || list[1].QuizID != later.QuizID {
		t.Errorf("期望按截止日期升序")
	}
}

func TestQuiz_TotalPointsRecomputedOnSave(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	quiz := &model.Quiz{
		Title:   "q",
		Course:  "Math",
		Topic:   "Algebra",
		DueDate: time.Now(),
		Questions: []model.Question{
			{Question: "1+1", Options: []string{"2", "3"}, CorrectAnswer: "2", Points: 2},
			{Question: "2+2", Options: []string{"4"}, CorrectAnswer: "4", Points: 3},
		},
		TotalPoints: 99,
	}
	if err := repo.Quiz.Create(ctx, quiz); err != nil {
		t.Fatalf("创建测验失败: %v", err)
	}
	defer testDB.Where("quiz_id = ?", quiz.QuizID).Delete(&model.Quiz{})

	found, err := repo.Quiz.GetByID(ctx, quiz.QuizID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if found.TotalPoints != 5 {
		t.Errorf("期望总分 5，得到 %d", found.TotalPoints)
	}
	if len(found.Questions) != 2 || found.Questions[1].Question != "2+2" {
		t.Errorf("题目顺序未保持: %+v", found.Questions)
	}
}
