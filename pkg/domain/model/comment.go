/*
 * @Description:
 * @Author: 苏屿
 * @Date: 2025-09-05 16:40:21
 * @LastEditTime: 2025-11-12 23:08:47
 * @LastEditors: 苏屿
 */
package model

import "time"

// CommentStatus 定义了评论的状态，使用自定义类型代替魔法数字(int)，更类型安全。
type CommentStatus int

const (
	CommentStatusPublished CommentStatus = 1 // 已发布
	CommentStatusPending   CommentStatus = 2 // 待审核
)

// Comment 是评论的核心领域模型。
// 评论通过 (TopicID, PostID) 与帖子关联；ParentID 为空表示顶级评论。
type Comment struct {
	ID uint // 在领域内，我们使用数据库的 uint ID 作为其唯一标识。

	// --- 核心关联字段 ---
	TopicID uint
	PostID  uint

	// --- 关系 ---
	ParentID *uint
	UserID   *uint

	// --- 评论者信息（发表时的快照，与用户资料解耦） ---
	Author Author

	// --- 内容 ---
	Content     string // Markdown 原文
	ContentHTML string // 渲染后的安全 HTML
	LikeCount   int

	// --- 元数据 ---
	Status    CommentStatus
	IsDeleted bool // 软删除：内容以占位符呈现，节点保留（子回复可能仍引用它）
	CreatedAt time.Time
	EditedAt  *time.Time
}

// Author 代表了评论的作者信息
type Author struct {
	Nickname  string
	Email     *string
	AvatarURL *string
	IP        string
}

// --- 领域逻辑方法 ---

// IsPublished 检查评论是否已发布。
func (c *Comment) IsPublished() bool {
	return c.Status == CommentStatusPublished
}

// IsTopLevel 检查是否为顶级评论。
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// IsAuthoredBy 检查评论是否由指定用户发表。
func (c *Comment) IsAuthoredBy(userID uint) bool {
	return c.UserID != nil && *c.UserID == userID
}
