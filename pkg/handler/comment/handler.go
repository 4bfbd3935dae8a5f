/*
 * @Description: 评论接口
 * @Author: 苏屿
 * @Date: 2025-09-10 09:14:52
 * @LastEditTime: 2025-12-04 17:02:11
 * @LastEditors: 苏屿
 */
package comment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studylink-hub/studylink-app/internal/pkg/auth"
	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/handler/comment/dto"
	"github.com/studylink-hub/studylink-app/pkg/response"
	"github.com/studylink-hub/studylink-app/pkg/service/comment"
)

type Handler struct {
	svc *comment.Service
}

func NewHandler(svc *comment.Service) *Handler {
	return &Handler{svc: svc}
}

// claimsFromContext 取出中间件解析好的用户身份；匿名访客返回 nil。
func claimsFromContext(c *gin.Context) *auth.CustomClaims {
	value, exists := c.Get(auth.ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.CustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// failWith 把业务层的哨兵错误映射到 HTTP 状态码。
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constant.ErrInvalidPublicID), errors.Is(err, constant.ErrInvalidCursor),
		errors.Is(err, constant.ErrBadRequest), errors.Is(err, constant.ErrCommentTargetMismatch):
		response.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, constant.ErrUnauthorized), errors.Is(err, constant.ErrInvalidToken):
		response.Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, constant.ErrForbidden), errors.Is(err, constant.ErrNotCommentAuthor),
		errors.Is(err, constant.ErrCommentRateLimited):
		response.Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, constant.ErrNotFound), errors.Is(err, constant.ErrCommentNotFound):
		response.Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, constant.ErrConflict), errors.Is(err, constant.ErrCommentDeleted):
		response.Fail(c, http.StatusConflict, err.Error())
	default:
		response.Fail(c, http.StatusInternalServerError, err.Error())
	}
}

// List
// @Summary      获取帖子的评论列表（游标分页）
// @Description  顶级评论按游标分页，每条顶级评论附带其全部回复（扁平记录，树形由前端组装）
// @Tags         公开评论
// @Produce      json
// @Param        topic path string true "版块的公共ID"
// @Param        post path string true "帖子的公共ID"
// @Param        sort query string false "排序方式 newest|oldest|popular" default(newest)
// @Param        cursor query string false "上一页响应中的 next_cursor"
// @Param        page_size query int false "每页顶级评论数"
// @Success      200 {object} response.Response{data=dto.ListResponse} "成功响应"
// @Failure      400 {object} response.Response "游标或ID无效"
// @Router       /public/topics/{topic}/posts/{post}/comments [get]
func (h *Handler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	result, err := h.svc.ListPage(c.Request.Context(), c.Param("topic"), c.Param("post"), req.Sort, req.Cursor, req.PageSize)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, result, "获取成功")
}

// Create
// @Summary      发表评论或回复
// @Description  匿名访客需要提供昵称；登录用户的昵称与头像来自账号资料
// @Tags         公开评论
// @Accept       json
// @Produce      json
// @Param        topic path string true "版块的公共ID"
// @Param        post path string true "帖子的公共ID"
// @Param        body body dto.CreateRequest true "评论内容"
// @Success      200 {object} response.Response{data=dto.Response} "成功响应"
// @Failure      403 {object} response.Response "评论过于频繁"
// @Router       /public/topics/{topic}/posts/{post}/comments [post]
func (h *Handler) Create(c *gin.Context) {
	var req dto.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), c.Param("topic"), c.Param("post"), &req, c.ClientIP(), claimsFromContext(c))
	if err != nil {
		failWith(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, created, "评论发表成功")
}

// ListLatest
// @Summary      公开获取最新评论列表
// @Tags         公开评论
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=dto.LatestListResponse} "成功响应"
// @Router       /public/comments/latest [get]
func (h *Handler) ListLatest(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.svc.ListLatest(c.Request.Context(), page, pageSize)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, result, "获取成功")
}

// Like
// @Summary      为评论点赞
// @Description  按访客去重，重复点赞不会增加计数
// @Tags         公开评论
// @Produce      json
// @Param        id path string true "评论的公共ID"
// @Success      200 {object} response.Response{data=dto.LikeResponse} "成功响应"
// @Router       /public/comments/{id}/like [post]
func (h *Handler) Like(c *gin.Context) {
	// 登录用户按账号去重，匿名访客退化为按IP去重
	visitorKey := c.ClientIP()
	if claims := claimsFromContext(c); claims != nil {
		visitorKey = claims.UserID
	}

	result, err := h.svc.Like(c.Request.Context(), c.Param("id"), visitorKey)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, result, "点赞成功")
}

// Update
// @Summary      编辑自己的评论
// @Tags         评论
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "评论的公共ID"
// @Param        body body dto.UpdateRequest true "新的评论内容"
// @Success      200 {object} response.Response{data=dto.Response} "成功响应"
// @Failure      403 {object} response.Response "不是评论作者"
// @Router       /comments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req dto.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	updated, err := h.svc.Edit(c.Request.Context(), c.Param("id"), req.Content, claimsFromContext(c))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, updated, "评论更新成功")
}

// Delete
// @Summary      删除自己的评论（软删除）
// @Description  软删除后评论以占位文案继续出现在树中，回复不丢失
// @Tags         评论
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "评论的公共ID"
// @Success      200 {object} response.Response "成功响应"
// @Router       /comments/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, nil, "评论删除成功")
}

// AdminList
// @Summary      后台评论列表
// @Tags         评论管理
// @Security     BearerAuth
// @Produce      json
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        nickname query string false "按昵称过滤"
// @Param        content query string false "按内容过滤"
// @Param        status query int false "按状态过滤 1=已发布 2=待审核"
// @Success      200 {object} response.Response{data=dto.LatestListResponse} "成功响应"
// @Router       /comments [get]
func (h *Handler) AdminList(c *gin.Context) {
	var req dto.AdminListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	result, err := h.svc.AdminList(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, result, "获取成功")
}

// AdminUpdateStatus
// @Summary      审核评论（修改状态）
// @Tags         评论管理
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "评论的公共ID"
// @Param        body body dto.UpdateStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=dto.Response} "成功响应"
// @Router       /comments/{id}/status [put]
func (h *Handler) AdminUpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	updated, err := h.svc.AdminUpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, updated, "状态更新成功")
}

// AdminDelete
// @Summary      批量删除评论
// @Tags         评论管理
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body object{ids=[]string} true "评论公共ID列表"
// @Success      200 {object} response.Response "成功响应"
// @Router       /comments/batch-delete [post]
func (h *Handler) AdminDelete(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	deleted, err := h.svc.AdminDelete(c.Request.Context(), req.IDs)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted}, "删除成功")
}
