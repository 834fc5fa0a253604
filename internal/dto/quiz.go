package dto

import "time"

// ── 测验模块 DTO ──

// QuestionRequest 题目请求，Points 缺省为 1
type QuestionRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Points        *int     `json:"points"`
}

// CreateQuizRequest 创建测验请求
// TotalPoints 仅为兼容旧客户端而接收，服务端总是按题目重算
type CreateQuizRequest struct {
	Title        string            `json:"title"`
	Course       string            `json:"course"`
	Topic        string            `json:"topic"`
	DueDate      time.Time         `json:"dueDate"`
	Instructions string            `json:"instructions"`
	Questions    []QuestionRequest `json:"questions"`
	TotalPoints  *int              `json:"totalPoints,omitempty"`
}

// UpdateQuizRequest 更新测验请求（仅更新出现的字段）
type UpdateQuizRequest struct {
	Title        *string            `json:"title"`
	Course       *string            `json:"course"`
	Topic        *string            `json:"topic"`
	DueDate      *time.Time         `json:"dueDate"`
	Instructions *string            `json:"instructions"`
	Questions    *[]QuestionRequest `json:"questions"`
	TotalPoints  *int               `json:"totalPoints,omitempty"`
}

// QuizListRequest 测验列表查询参数
type QuizListRequest struct {
	Course string `form:"course"`
}

// QuestionResponse 题目响应
type QuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Points        int      `json:"points"`
}

// QuizResponse 测验响应
type QuizResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Course       string             `json:"course"`
	Topic        string             `json:"topic"`
	DueDate      string             `json:"dueDate"`
	Instructions string             `json:"instructions"`
	Questions    []QuestionResponse `json:"questions"`
	TotalPoints  int                `json:"totalPoints"`
	CreatedAt    string             `json:"createdAt"`
	UpdatedAt    string             `json:"updatedAt"`
}
