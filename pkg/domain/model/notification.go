package model

import "time"

// NotificationType 标识站内通知的类型。
type NotificationType string

const (
	NotificationTypeReply      NotificationType = "comment_reply" // 评论被回复
	NotificationTypeNewComment NotificationType = "new_comment"   // 新顶级评论（通知管理员）
)

// Notification 是站内通知的领域模型。
// 通知只是一个副作用接收端：评论引擎本身不关心它如何展示。
type Notification struct {
	ID          uint
	RecipientID uint
	Type        NotificationType
	Title       string
	Content     string // 纯文本摘要，不含 HTML
	CommentID   *uint
	TopicID     uint
	PostID      uint
	IsRead      bool
	CreatedAt   time.Time
}
