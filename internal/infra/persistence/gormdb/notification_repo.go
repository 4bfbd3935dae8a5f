/*
 * @Description: 站内通知仓储的 gorm 实现
 * @Author: 苏屿
 * @Date: 2025-09-16 15:40:52
 * @LastEditTime: 2025-11-21 10:02:17
 * @LastEditors: 苏屿
 */
package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
)

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓储的 gorm 实现。
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	po := &NotificationPO{
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		Title:       n.Title,
		Content:     n.Content,
		CommentID:   n.CommentID,
		TopicID:     n.TopicID,
		PostID:      n.PostID,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return nil, fmt.Errorf("写入通知失败: %w", err)
	}
	return po.toDomain(), nil
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID uint, page, pageSize int) ([]*model.Notification, int64, error) {
	base := r.db.WithContext(ctx).Model(&NotificationPO{}).
		Where("recipient_id = ?", recipientID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计通知失败: %w", err)
	}

	var pos []*NotificationPO
	err := base.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询通知列表失败: %w", err)
	}

	items := make([]*model.Notification, 0, len(pos))
	for _, po := range pos {
		items = append(items, po.toDomain())
	}
	return items, total, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&NotificationPO{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计未读通知失败: %w", err)
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, recipientID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	// 带上 recipient_id 条件，防止把别人的通知标记为已读
	err := r.db.WithContext(ctx).Model(&NotificationPO{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("标记通知已读失败: %w", err)
	}
	return nil
}
