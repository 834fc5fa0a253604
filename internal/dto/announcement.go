package dto

// ── 公告模块 DTO ──

// CreateAnnouncementRequest 创建公告请求
// 字段约束在模型层统一校验，便于返回逐字段提示
type CreateAnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Course  string `json:"course"`
}

// UpdateAnnouncementRequest 更新公告请求（仅更新出现的字段）
type UpdateAnnouncementRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Course  *string `json:"course"`
}

// AuthorResponse 公告作者（populate 后的 name/role）
type AuthorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// AnnouncementResponse 公告响应
type AnnouncementResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Author    *AuthorResponse `json:"author"`
	Course    string          `json:"course"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}
