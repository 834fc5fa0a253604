package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultQuestionPoints 未指定分值时的默认分值
const DefaultQuestionPoints = 1

// Question 题目（以 JSONB 数组存储，保持顺序）
type Question struct {
	Question      string   `json:"question"      validate:"required"`
	Options       []string `json:"options"       validate:"required,min=1"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Points        int      `json:"points"        validate:"min=0"`
}

// Quiz 测验表，对应 quizzes
// 没有所有者字段，修改权限只看角色
type Quiz struct {
	QuizID       string                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title        string                        `gorm:"type:varchar(100);not null"          json:"title"        validate:"required,max=100"`
	Course       string                        `gorm:"type:varchar(100);not null;index"    json:"course"       validate:"required"`
	Topic        string                        `gorm:"type:varchar(200);not null"          json:"topic"        validate:"required"`
	DueDate      time.Time                     `gorm:"not null;index"                      json:"dueDate"      validate:"required"`
	Instructions string                        `gorm:"type:text;not null;default:''"       json:"instructions"`
	Questions    datatypes.JSONSlice[Question] `gorm:"type:jsonb;not null;default:'[]'"    json:"questions"    validate:"dive"`
	TotalPoints  int                           `gorm:"not null;default:0"                  json:"totalPoints"`
	BaseModel
}

// TableName 指定表名
func (Quiz) TableName() string { return "quizzes" }

// RecomputeTotalPoints 按题目分值重算总分
func (q *Quiz) RecomputeTotalPoints() {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	q.TotalPoints = total
}

// BeforeSave 每次写入前重算总分，TotalPoints 不允许单独设置
func (q *Quiz) BeforeSave(_ *gorm.DB) error {
	q.RecomputeTotalPoints()
	return nil
}

// ValidationMessages 校验提示文案
func (Quiz) ValidationMessages() map[string]string {
	return map[string]string{
		"Title.required":         "Please add a title",
		"Title.max":              "Title cannot be more than 100 characters",
		"Course.required":        "Please specify the course",
		"Topic.required":         "Please specify the topic",
		"DueDate.required":       "Please specify a due date",
		"Question.required":      "Please provide a question",
		"Options.required":       "Please provide options",
		"Options.min":            "Please provide options",
		"CorrectAnswer.required": "Please provide the correct answer",
		"Points.min":             "Points cannot be negative",
	}
}
