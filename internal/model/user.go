package model

// 用户角色
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User 用户表，对应 users
// IsAuthenticated 只由登录/登出修改，鉴权以 Token 为准
type User struct {
	UserID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name            string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email           string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Role            string `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	IsAuthenticated bool   `gorm:"not null;default:false"                         json:"isAuthenticated"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
