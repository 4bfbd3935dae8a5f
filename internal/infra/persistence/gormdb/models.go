/*
 * @Description: gorm 持久化对象定义
 * @Author: 苏屿
 * @Date: 2025-09-16 10:21:44
 * @LastEditTime: 2025-12-03 11:09:28
 * @LastEditors: 苏屿
 */
package gormdb

import (
	"time"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
)

// CommentPO 是评论表的持久化对象。
// 评论通过 (topic_id, post_id) 与帖子关联，父子关系只存 parent_id，
// 树形结构由服务层组装。
type CommentPO struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	TopicID     uint   `gorm:"not null;index:idx_topic_post,priority:1"`
	PostID      uint   `gorm:"not null;index:idx_topic_post,priority:2"`
	ParentID    *uint  `gorm:"index"`
	UserID      *uint  `gorm:"index"`
	Nickname    string `gorm:"type:varchar(50);not null"`
	Email       *string
	AvatarURL   *string
	IPAddress   string `gorm:"type:varchar(45)"`
	Content     string `gorm:"type:text;not null"`
	ContentHTML string `gorm:"type:text;not null"`
	LikeCount   int    `gorm:"not null;default:0"`
	Status      int    `gorm:"not null;index"`
	IsDeleted   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	EditedAt    *time.Time
}

func (CommentPO) TableName() string {
	return "comments"
}

func (p *CommentPO) toDomain() *model.Comment {
	return &model.Comment{
		ID:       p.ID,
		TopicID:  p.TopicID,
		PostID:   p.PostID,
		ParentID: p.ParentID,
		UserID:   p.UserID,
		Author: model.Author{
			Nickname:  p.Nickname,
			Email:     p.Email,
			AvatarURL: p.AvatarURL,
			IP:        p.IPAddress,
		},
		Content:     p.Content,
		ContentHTML: p.ContentHTML,
		LikeCount:   p.LikeCount,
		Status:      model.CommentStatus(p.Status),
		IsDeleted:   p.IsDeleted,
		CreatedAt:   p.CreatedAt,
		EditedAt:    p.EditedAt,
	}
}

// UserPO 是用户表的持久化对象。
type UserPO struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Nickname     string `gorm:"type:varchar(50);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	AvatarURL    *string
	UserGroupID  uint `gorm:"not null;index"`
	CreatedAt    time.Time
}

func (UserPO) TableName() string {
	return "users"
}

func (p *UserPO) toDomain() *model.User {
	return &model.User{
		ID:           p.ID,
		Nickname:     p.Nickname,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		AvatarURL:    p.AvatarURL,
		UserGroupID:  p.UserGroupID,
		CreatedAt:    p.CreatedAt,
	}
}

// NotificationPO 是站内通知表的持久化对象。
type NotificationPO struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	RecipientID uint   `gorm:"not null;index:idx_recipient_read,priority:1"`
	Type        string `gorm:"type:varchar(32);not null"`
	Title       string `gorm:"type:varchar(255);not null"`
	Content     string `gorm:"type:text"`
	CommentID   *uint
	TopicID     uint `gorm:"not null"`
	PostID      uint `gorm:"not null"`
	IsRead      bool `gorm:"not null;default:false;index:idx_recipient_read,priority:2"`
	CreatedAt   time.Time
}

func (NotificationPO) TableName() string {
	return "notifications"
}

func (p *NotificationPO) toDomain() *model.Notification {
	return &model.Notification{
		ID:          p.ID,
		RecipientID: p.RecipientID,
		Type:        model.NotificationType(p.Type),
		Title:       p.Title,
		Content:     p.Content,
		CommentID:   p.CommentID,
		TopicID:     p.TopicID,
		PostID:      p.PostID,
		IsRead:      p.IsRead,
		CreatedAt:   p.CreatedAt,
	}
}

// SettingPO 是站点配置表的持久化对象。
type SettingPO struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ConfigKey string `gorm:"type:varchar(128);not null;uniqueIndex"`
	Value     string `gorm:"type:text"`
	Comment   string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SettingPO) TableName() string {
	return "settings"
}

func (p *SettingPO) toDomain() *model.Setting {
	return &model.Setting{
		ID:        p.ID,
		ConfigKey: p.ConfigKey,
		Value:     p.Value,
		Comment:   p.Comment,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// AllModels 列出需要迁移的全部持久化对象，供启动时 AutoMigrate 使用。
func AllModels() []interface{} {
	return []interface{}{
		&CommentPO{},
		&UserPO{},
		&NotificationPO{},
		&SettingPO{},
	}
}
