/*
 * @Description: 站内通知服务
 * @Author: 苏屿
 * @Date: 2025-09-10 11:02:33
 * @LastEditTime: 2025-11-25 19:38:21
 * @LastEditors: 苏屿
 */
package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
)

// Service 通知服务接口
type Service interface {
	// NotifyNewComment 通知全体管理员有新的顶级评论
	NotifyNewComment(ctx context.Context, comment *model.Comment, excerpt string) error

	// NotifyReply 通知被回复者有新回复
	NotifyReply(ctx context.Context, comment, parent *model.Comment, excerpt string) error

	// ListByRecipient 分页获取某用户的通知
	ListByRecipient(ctx context.Context, userID uint, page, pageSize int) ([]*model.Notification, int64, error)

	// CountUnread 统计某用户的未读通知数
	CountUnread(ctx context.Context, userID uint) (int64, error)

	// MarkRead 将一组通知标记为已读
	MarkRead(ctx context.Context, userID uint, ids []uint) error
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

// NewService 创建通知服务
func NewService(repo repository.NotificationRepository, userRepo repository.UserRepository) Service {
	return &notificationService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// NotifyNewComment 为每个管理员写入一条"新评论"通知。
// 管理员自己发的评论不通知自己。
func (s *notificationService) NotifyNewComment(ctx context.Context, comment *model.Comment, excerpt string) error {
	admins, err := s.userRepo.FindByGroupID(ctx, model.UserGroupAdmin)
	if err != nil {
		return fmt.Errorf("查询管理员列表失败: %w", err)
	}

	commentID := comment.ID
	for _, admin := range admins {
		if comment.UserID != nil && *comment.UserID == admin.ID {
			continue
		}
		n := &model.Notification{
			RecipientID: admin.ID,
			Type:        model.NotificationTypeNewComment,
			Title:       fmt.Sprintf("%s 发表了新评论", comment.Author.Nickname),
			Content:     excerpt,
			CommentID:   &commentID,
			TopicID:     comment.TopicID,
			PostID:      comment.PostID,
		}
		if _, err := s.repo.Create(ctx, n); err != nil {
			log.Printf("警告：写入管理员通知失败（管理员ID: %d）: %v", admin.ID, err)
		}
	}
	return nil
}

// NotifyReply 为被回复者写入一条"评论被回复"通知。
// 被回复者是匿名访客（无账号）或自己回复自己时跳过。
func (s *notificationService) NotifyReply(ctx context.Context, comment, parent *model.Comment, excerpt string) error {
	if parent == nil || parent.UserID == nil {
		return nil
	}
	if comment.UserID != nil && *comment.UserID == *parent.UserID {
		return nil
	}

	commentID := comment.ID
	n := &model.Notification{
		RecipientID: *parent.UserID,
		Type:        model.NotificationTypeReply,
		Title:       fmt.Sprintf("%s 回复了你的评论", comment.Author.Nickname),
		Content:     excerpt,
		CommentID:   &commentID,
		TopicID:     comment.TopicID,
		PostID:      comment.PostID,
	}
	if _, err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("写入回复通知失败: %w", err)
	}
	return nil
}

// ListByRecipient 分页获取某用户的通知
func (s *notificationService) ListByRecipient(ctx context.Context, userID uint, page, pageSize int) ([]*model.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListByRecipient(ctx, userID, page, pageSize)
}

// CountUnread 统计某用户的未读通知数
func (s *notificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead 将一组通知标记为已读
func (s *notificationService) MarkRead(ctx context.Context, userID uint, ids []uint) error {
	return s.repo.MarkRead(ctx, userID, ids)
}
