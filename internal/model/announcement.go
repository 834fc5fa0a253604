package model

// Announcement 公告表，对应 announcements
// AuthorID 仅在创建时引用现有用户，之后不再校验
type Announcement struct {
	AnnouncementID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title          string `gorm:"type:varchar(100);not null" json:"title"   validate:"required,max=100"`
	Content        string `gorm:"type:text;not null"         json:"content" validate:"required"`
	AuthorID       string `gorm:"type:uuid;not null;index"   json:"-"       validate:"required"`
	Course         string `gorm:"type:varchar(100);not null" json:"course"  validate:"required"`
	BaseModel

	// 关联（读取时填充 name/role）
	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty" validate:"-"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "announcements" }

// ValidationMessages 校验提示文案
func (Announcement) ValidationMessages() map[string]string {
	return map[string]string{
		"Title.required":    "Please add a title",
		"Title.max":         "Title cannot be more than 100 characters",
		"Content.required":  "Please add content",
		"AuthorID.required": "Please specify the author",
		"Course.required":   "Please specify the course",
	}
}
