/*
 * @Description:
 * @Author: 苏屿
 * @Date: 2025-09-05 17:06:12
 * @LastEditTime: 2025-11-26 21:44:09
 * @LastEditors: 苏屿
 */
package repository

import (
	"context"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
)

// CreateCommentParams 定义了创建评论所需的全部字段。
type CreateCommentParams struct {
	TopicID   uint
	PostID    uint
	UserID    *uint
	ParentID  *uint
	Nickname  string
	Email     *string
	AvatarURL *string
	Content   string
	// 渲染后的安全 HTML
	ContentHTML string
	IPAddress   string
	Status      int
}

// AdminListParams 定义了管理员在后台分页查询评论的条件。
type AdminListParams struct {
	Page     int
	PageSize int
	Nickname *string
	Content  *string
	Status   *int
}

// CommentRepository 定义了评论数据的持久化操作接口。
type CommentRepository interface {
	// Create 创建一条新评论
	Create(ctx context.Context, params *CreateCommentParams) (*model.Comment, error)

	// FindPublishedByPost 查找某帖子下所有已发布的评论（扁平列表，树由服务层组装）
	FindPublishedByPost(ctx context.Context, topicID, postID uint) ([]*model.Comment, error)

	// FindByID 根据数据库ID查找单条评论
	FindByID(ctx context.Context, id uint) (*model.Comment, error)

	// FindManyByIDs 根据一组数据库ID查找多条评论，用于批量查询
	FindManyByIDs(ctx context.Context, ids []uint) ([]*model.Comment, error)

	// FindLatestPublished 查找全站最新的已发布评论（分页，扁平列表）
	FindLatestPublished(ctx context.Context, page, pageSize int) ([]*model.Comment, int64, error)

	// UpdateContent 更新评论内容（编辑后同时更新 Markdown 原文与 HTML）
	UpdateContent(ctx context.Context, id uint, content, contentHTML string) error

	// SoftDelete 软删除：标记 IsDeleted，内容改为占位符，节点保留
	SoftDelete(ctx context.Context, id uint) error

	// IncrementLikeCount 将评论点赞数增加 delta，返回新值。
	// 点赞先累积在缓存中，由后台任务批量回写，因此需要支持一次加多。
	IncrementLikeCount(ctx context.Context, id uint, delta int) (int, error)

	// --- 管理员方法 ---

	// FindWithConditions 根据多种条件分页查询评论列表
	FindWithConditions(ctx context.Context, params AdminListParams) ([]*model.Comment, int64, error)

	// UpdateStatus 更新单条评论的状态（审核通过/退回待审核）
	UpdateStatus(ctx context.Context, id uint, status int) (*model.Comment, error)

	// DeleteByIDs 根据ID列表批量硬删除评论（仅后台使用）
	DeleteByIDs(ctx context.Context, ids []uint) (int, error)
}
