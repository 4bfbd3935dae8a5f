/*
 * @Description: 评论仓储的 gorm 实现
 * @Author: 苏屿
 * @Date: 2025-09-16 11:02:19
 * @LastEditTime: 2025-12-04 10:38:54
 * @LastEditors: 苏屿
 */
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
)

type commentRepo struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓储的 gorm 实现。
func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, params *repository.CreateCommentParams) (*model.Comment, error) {
	po := &CommentPO{
		TopicID:     params.TopicID,
		PostID:      params.PostID,
		ParentID:    params.ParentID,
		UserID:      params.UserID,
		Nickname:    params.Nickname,
		Email:       params.Email,
		AvatarURL:   params.AvatarURL,
		IPAddress:   params.IPAddress,
		Content:     params.Content,
		ContentHTML: params.ContentHTML,
		Status:      params.Status,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return nil, fmt.Errorf("创建评论失败: %w", err)
	}
	return po.toDomain(), nil
}

func (r *commentRepo) FindPublishedByPost(ctx context.Context, topicID, postID uint) ([]*model.Comment, error) {
	var pos []*CommentPO
	err := r.db.WithContext(ctx).
		Where("topic_id = ? AND post_id = ? AND status = ?", topicID, postID, int(model.CommentStatusPublished)).
		Order("created_at ASC, id ASC").
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("查询帖子评论失败: %w", err)
	}
	return toDomainList(pos), nil
}

func (r *commentRepo) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var po CommentPO
	err := r.db.WithContext(ctx).First(&po, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询评论失败: %w", err)
	}
	return po.toDomain(), nil
}

func (r *commentRepo) FindManyByIDs(ctx context.Context, ids []uint) ([]*model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pos []*CommentPO
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("批量查询评论失败: %w", err)
	}
	return toDomainList(pos), nil
}

func (r *commentRepo) FindLatestPublished(ctx context.Context, page, pageSize int) ([]*model.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&CommentPO{}).
		Where("status = ? AND is_deleted = ?", int(model.CommentStatusPublished), false)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计最新评论失败: %w", err)
	}

	var pos []*CommentPO
	err := base.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询最新评论失败: %w", err)
	}
	return toDomainList(pos), total, nil
}

func (r *commentRepo) UpdateContent(ctx context.Context, id uint, content, contentHTML string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&CommentPO{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":      content,
			"content_html": contentHTML,
			"edited_at":    &now,
		})
	if result.Error != nil {
		return fmt.Errorf("更新评论内容失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return constant.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepo) SoftDelete(ctx context.Context, id uint) error {
	// 原文清空，只留占位符；节点保留，子回复仍可引用
	result := r.db.WithContext(ctx).Model(&CommentPO{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted":   true,
			"content":      "",
			"content_html": constant.DeletedCommentPlaceholder,
		})
	if result.Error != nil {
		return fmt.Errorf("软删除评论失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return constant.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepo) IncrementLikeCount(ctx context.Context, id uint, delta int) (int, error) {
	var newCount int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&CommentPO{}).
			Where("id = ?", id).
			Update("like_count", gorm.Expr("like_count + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return constant.ErrCommentNotFound
		}
		return tx.Model(&CommentPO{}).Where("id = ?", id).
			Select("like_count").Scan(&newCount).Error
	})
	if err != nil {
		return 0, fmt.Errorf("更新点赞数失败: %w", err)
	}
	return newCount, nil
}

func (r *commentRepo) FindWithConditions(ctx context.Context, params repository.AdminListParams) ([]*model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&CommentPO{})
	if params.Nickname != nil && *params.Nickname != "" {
		query = query.Where("nickname LIKE ?", "%"+*params.Nickname+"%")
	}
	if params.Content != nil && *params.Content != "" {
		query = query.Where("content LIKE ?", "%"+*params.Content+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计后台评论失败: %w", err)
	}

	var pos []*CommentPO
	err := query.
		Order("created_at DESC, id DESC").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询后台评论失败: %w", err)
	}
	return toDomainList(pos), total, nil
}

func (r *commentRepo) UpdateStatus(ctx context.Context, id uint, status int) (*model.Comment, error) {
	result := r.db.WithContext(ctx).Model(&CommentPO{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("更新评论状态失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, constant.ErrCommentNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *commentRepo) DeleteByIDs(ctx context.Context, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&CommentPO{})
	if result.Error != nil {
		return 0, fmt.Errorf("批量删除评论失败: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

func toDomainList(pos []*CommentPO) []*model.Comment {
	comments := make([]*model.Comment, 0, len(pos))
	for _, po := range pos {
		comments = append(comments, po.toDomain())
	}
	return comments
}
