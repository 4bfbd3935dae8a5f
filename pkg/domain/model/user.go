/*
 * @Description:
 * @Author: 苏屿
 * @Date: 2025-09-05 16:52:08
 * @LastEditTime: 2025-10-19 17:30:26
 * @LastEditors: 苏屿
 */
package model

import "time"

// 用户组约定：管理员组ID为 1，普通学生组ID为 2。
const (
	UserGroupAdmin   uint = 1
	UserGroupStudent uint = 2
)

// User 是用户的核心领域模型。
type User struct {
	ID           uint
	Nickname     string
	Email        string
	PasswordHash string
	AvatarURL    *string
	UserGroupID  uint
	CreatedAt    time.Time
}

// IsAdmin 检查用户是否属于管理员组。
func (u *User) IsAdmin() bool {
	return u.UserGroupID == UserGroupAdmin
}
