/*
 * @Description: 评论接口的请求与响应结构
 * @Author: 苏屿
 * @Date: 2025-09-09 10:18:47
 * @LastEditTime: 2025-11-28 23:55:02
 * @LastEditors: 苏屿
 */
package dto

import "time"

// CreateRequest 定义了发表评论（或回复）的请求体。
// 版块与帖子通过 URL 路径传递，不在请求体中。
type CreateRequest struct {
	ParentID *string `json:"parent_id"`
	Nickname string  `json:"nickname" binding:"required,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Content  string  `json:"content" binding:"required,max=10000"`
}

// UpdateRequest 定义了编辑评论的请求体。
type UpdateRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

// ListRequest 定义了评论分页查询的参数。
// Cursor 是服务端签发的不透明游标，客户端原样携带。
type ListRequest struct {
	Sort     string `form:"sort"`
	Cursor   string `form:"cursor"`
	PageSize int    `form:"page_size"`
}

// AdminListRequest 定义了后台评论列表的查询参数。
type AdminListRequest struct {
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
	Nickname *string `form:"nickname"`
	Content  *string `form:"content"`
	Status   *int    `form:"status"`
}

// UpdateStatusRequest 定义了后台审核评论的请求体。
type UpdateStatusRequest struct {
	Status int `json:"status" binding:"required,oneof=1 2"`
}

// Response 是对外的单条评论（扁平记录）。
// 树形结构由客户端的评论树引擎组装，服务端只保证 parent_id 正确。
type Response struct {
	ID          string     `json:"id"`
	ParentID    *string    `json:"parent_id,omitempty"`
	UserID      *string    `json:"user_id,omitempty"`
	Nickname    string     `json:"nickname"`
	EmailMD5    string     `json:"email_md5,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	ContentHTML string     `json:"content_html"`
	LikeCount   int        `json:"like_count"`
	Status      int        `json:"status"`
	IsDeleted   bool       `json:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`
}

// ListResponse 是一页评论：顶级评论游标分页，附带各自的全部回复。
type ListResponse struct {
	List []*Response `json:"list"`
	// Total 顶级评论总数（用于分页进度展示）
	Total int64 `json:"total"`
	// TotalWithChildren 含回复在内的评论总数
	TotalWithChildren int64 `json:"total_with_children"`
	PageSize          int   `json:"page_size"`
	// NextCursor 下一页游标；为空表示没有更多了
	NextCursor string `json:"next_cursor,omitempty"`
}

// LatestListResponse 是全站最新评论的扁平分页响应。
type LatestListResponse struct {
	List     []*Response `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// LikeResponse 是点赞接口的响应。
type LikeResponse struct {
	LikeCount int  `json:"like_count"`
	Liked     bool `json:"liked"`
}
