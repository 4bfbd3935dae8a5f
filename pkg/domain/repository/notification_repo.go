package repository

import (
	"context"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
)

// NotificationRepository 定义了站内通知的持久化操作接口。
type NotificationRepository interface {
	// Create 写入一条站内通知
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// ListByRecipient 分页查询某用户的通知，按创建时间倒序
	ListByRecipient(ctx context.Context, recipientID uint, page, pageSize int) ([]*model.Notification, int64, error)

	// CountUnread 统计某用户的未读通知数量
	CountUnread(ctx context.Context, recipientID uint) (int64, error)

	// MarkRead 将一组通知标记为已读
	MarkRead(ctx context.Context, recipientID uint, ids []uint) error
}
