package repository

import (
	"context"

	"gorm.io/gorm"

	"coligo-portal/internal/model"
)

// QuizRepository 测验数据访问接口
type QuizRepository interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	GetByID(ctx context.Context, id string) (*model.Quiz, error)
	// List 按截止日期升序，course 非空时精确匹配
	List(ctx context.Context, course string) ([]model.Quiz, error)
	Update(ctx context.Context, quiz *model.Quiz) error
	Delete(ctx context.Context, id string) error
}

type quizRepo struct {
	db *gorm.DB
}

// NewQuizRepo 创建 QuizRepository 实例
func NewQuizRepo(db *gorm.DB) QuizRepository {
	return &quizRepo{db: db}
}

func (r *quizRepo) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepo) GetByID(ctx context.Context, id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", id).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) List(ctx context.Context, course string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	db := r.db.WithContext(ctx)

	if course != "" {
		db = db.Where("course = ?", course)
	}

	err := db.Order("due_date ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepo) Update(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).Save(quiz).Error
}

func (r *quizRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("quiz_id = ?", id).
		Delete(&model.Quiz{}).Error
}
