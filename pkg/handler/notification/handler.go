/*
 * @Description: 站内通知接口
 * @Author: 苏屿
 * @Date: 2025-09-12 10:26:54
 * @LastEditTime: 2025-12-01 18:12:40
 * @LastEditors: 苏屿
 */
package notification

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studylink-hub/studylink-app/internal/pkg/auth"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/idgen"
	"github.com/studylink-hub/studylink-app/pkg/response"
	"github.com/studylink-hub/studylink-app/pkg/service/notification"
)

// Handler 通知处理器
type Handler struct {
	notificationSvc notification.Service
}

// NewHandler 创建通知处理器
func NewHandler(notificationSvc notification.Service) *Handler {
	return &Handler{notificationSvc: notificationSvc}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CommentID *string   `json:"comment_id,omitempty"`
	TopicID   string    `json:"topic_id"`
	PostID    string    `json:"post_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResponse(n *model.Notification) (*notificationResponse, error) {
	publicID, err := idgen.GeneratePublicID(n.ID, idgen.EntityTypeNotification)
	if err != nil {
		return nil, err
	}
	topicID, err := idgen.GeneratePublicID(n.TopicID, idgen.EntityTypeTopic)
	if err != nil {
		return nil, err
	}
	postID, err := idgen.GeneratePublicID(n.PostID, idgen.EntityTypePost)
	if err != nil {
		return nil, err
	}

	resp := &notificationResponse{
		ID:        publicID,
		Type:      string(n.Type),
		Title:     n.Title,
		Content:   n.Content,
		TopicID:   topicID,
		PostID:    postID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.CommentID != nil {
		commentID, err := idgen.GeneratePublicID(*n.CommentID, idgen.EntityTypeComment)
		if err != nil {
			return nil, err
		}
		resp.CommentID = &commentID
	}
	return resp, nil
}

func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(auth.ClaimsKey)
	if !exists {
		return 0, false
	}
	claims, ok := value.(*auth.CustomClaims)
	if !ok {
		return 0, false
	}
	id, entityType, err := idgen.DecodePublicID(claims.UserID)
	if err != nil || entityType != idgen.EntityTypeUser {
		return 0, false
	}
	return id, true
}

// List
// @Summary      分页获取当前用户的通知
// @Tags         通知
// @Security     BearerAuth
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response "成功响应"
// @Router       /notifications [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "未登录或令牌无效")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.notificationSvc.ListByRecipient(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取通知列表失败: "+err.Error())
		return
	}

	list := make([]*notificationResponse, 0, len(items))
	for _, item := range items {
		resp, err := toNotificationResponse(item)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, "生成通知ID失败")
			return
		}
		list = append(list, resp)
	}

	response.Success(c, gin.H{
		"list":  list,
		"total": total,
	}, "获取成功")
}

// UnreadCount
// @Summary      获取当前用户的未读通知数
// @Tags         通知
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Router       /notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "未登录或令牌无效")
		return
	}

	count, err := h.notificationSvc.CountUnread(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "获取未读数失败: "+err.Error())
		return
	}
	response.Success(c, gin.H{"count": count}, "获取成功")
}

// MarkRead
// @Summary      将一组通知标记为已读
// @Tags         通知
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Router       /notifications/mark-read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "未登录或令牌无效")
		return
	}

	var req struct {
		IDs []string `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	internalIDs := make([]uint, 0, len(req.IDs))
	for _, publicID := range req.IDs {
		id, entityType, err := idgen.DecodePublicID(publicID)
		if err != nil || entityType != idgen.EntityTypeNotification {
			response.Fail(c, http.StatusBadRequest, "无效的通知ID: "+publicID)
			return
		}
		internalIDs = append(internalIDs, id)
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), userID, internalIDs); err != nil {
		response.Fail(c, http.StatusInternalServerError, "标记已读失败: "+err.Error())
		return
	}
	response.Success(c, nil, "标记成功")
}
