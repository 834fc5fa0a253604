package service

import "coligo-portal/internal/model"

// ── 权限判定 ──
//
// 公告与测验使用两套不同的规则，失败时的状态码也不同（401 / 403），不要合并。

// CanModifyAnnouncement 作者本人或管理员可修改、删除公告
func CanModifyAnnouncement(caller *model.User, ann *model.Announcement) bool {
	if caller == nil || ann == nil {
		return false
	}
	return caller.IsAdmin() || ann.AuthorID == caller.UserID
}

// CanManageQuizzes 管理员和教师可创建、修改、删除测验
func CanManageQuizzes(caller *model.User) bool {
	if caller == nil {
		return false
	}
	return caller.Role == model.RoleAdmin || caller.Role == model.RoleTeacher
}
