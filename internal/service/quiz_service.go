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

// ── 测验模块业务错误 ──

var (
	ErrQuizNotFound  = errors.New("测验不存在")
	ErrQuizForbidden = errors.New("无权管理测验")
)

// QuizService 测验业务接口
// 写操作先判断角色，再判断是否存在，最后校验字段
type QuizService interface {
	List(ctx context.Context, req *dto.QuizListRequest) ([]dto.QuizResponse, error)
	GetByID(ctx context.Context, id string) (*dto.QuizResponse, error)
	Create(ctx context.Context, req *dto.CreateQuizRequest, caller *model.User) (*dto.QuizResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateQuizRequest, caller *model.User) (*dto.QuizResponse, error)
	Delete(ctx context.Context, id string, caller *model.User) error
}

type quizService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQuizService 创建 QuizService 实例
func NewQuizService(repo *repository.Repository, logger *zap.Logger) QuizService {
	return &quizService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *quizService) List(ctx context.Context, req *dto.QuizListRequest) ([]dto.QuizResponse, error) {
	course := ""
	if req != nil {
		course = req.Course
	}

	quizzes, err := s.repo.Quiz.List(ctx, course)
	if err != nil {
		s.logger.Error("列出测验失败", zap.String("course", course), zap.Error(err))
		return nil, err
	}

	result := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		result = append(result, *toQuizResponse(&quizzes[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *quizService) GetByID(ctx context.Context, id string) (*dto.QuizResponse, error) {
	quiz, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(quiz), nil
}

// ────────────────────── Create ──────────────────────

func (s *quizService) Create(ctx context.Context, req *dto.CreateQuizRequest, caller *model.User) (*dto.QuizResponse, error) {
	if !CanManageQuizzes(caller) {
		return nil, ErrQuizForbidden
	}

	quiz := &model.Quiz{
		Title:        strings.TrimSpace(req.Title),
		Course:       req.Course,
		Topic:        req.Topic,
		DueDate:      req.DueDate,
		Instructions: req.Instructions,
		Questions:    toQuestions(req.Questions),
	}
	quiz.RecomputeTotalPoints()

	if err := validation.Struct(quiz); err != nil {
		return nil, err
	}

	if err := s.repo.Quiz.Create(ctx, quiz); err != nil {
		s.logger.Error("创建测验失败", zap.Error(err))
		return nil, err
	}

	return toQuizResponse(quiz), nil
}

// ────────────────────── Update ──────────────────────

func (s *quizService) Update(ctx context.Context, id string, req *dto.UpdateQuizRequest, caller *model.User) (*dto.QuizResponse, error) {
	if !CanManageQuizzes(caller) {
		return nil, ErrQuizForbidden
	}

	quiz, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = strings.TrimSpace(*req.Title)
	}
	if req.Course != nil {
		quiz.Course = *req.Course
	}
	if req.Topic != nil {
		quiz.Topic = *req.Topic
	}
	if req.DueDate != nil {
		quiz.DueDate = *req.DueDate
	}
	if req.Instructions != nil {
		quiz.Instructions = *req.Instructions
	}
	if req.Questions != nil {
		quiz.Questions = toQuestions(*req.Questions)
	}
	quiz.RecomputeTotalPoints()

	if err := validation.Struct(quiz); err != nil {
		return nil, err
	}

	if err := s.repo.Quiz.Update(ctx, quiz); err != nil {
		s.logger.Error("更新测验失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toQuizResponse(quiz), nil
}

// ────────────────────── Delete ──────────────────────

func (s *quizService) Delete(ctx context.Context, id string, caller *model.User) error {
	if !CanManageQuizzes(caller) {
		return ErrQuizForbidden
	}

	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Quiz.Delete(ctx, id); err != nil {
		s.logger.Error("删除测验失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *quizService) find(ctx context.Context, id string) (*model.Quiz, error) {
	if !isValidID(id) {
		return nil, ErrQuizNotFound
	}

	quiz, err := s.repo.Quiz.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		s.logger.Error("查询测验失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return quiz, nil
}

// toQuestions 保持题目顺序，未给分值的题目按默认分值计
func toQuestions(reqs []dto.QuestionRequest) []model.Question {
	questions := make([]model.Question, 0, len(reqs))
	for _, q := range reqs {
		points := model.DefaultQuestionPoints
		if q.Points != nil {
			points = *q.Points
		}
		questions = append(questions, model.Question{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        points,
		})
	}
	return questions
}

func toQuizResponse(quiz *model.Quiz) *dto.QuizResponse {
	questions := make([]dto.QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		questions = append(questions, dto.QuestionResponse{
			Question:      q.Question,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
		})
	}

	return &dto.QuizResponse{
		ID:           quiz.QuizID,
		Title:        quiz.Title,
		Course:       quiz.Course,
		Topic:        quiz.Topic,
		DueDate:      quiz.DueDate.Format(dto.TimeLayout),
		Instructions: quiz.Instructions,
		Questions:    questions,
		TotalPoints:  quiz.TotalPoints,
		CreatedAt:    quiz.CreatedAt.Format(dto.TimeLayout),
		UpdatedAt:    quiz.UpdatedAt.Format(dto.TimeLayout),
	}
}
