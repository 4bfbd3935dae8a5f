/*
 * @Description: 用户资料接口
 * @Author: 苏屿
 * @Date: 2025-09-11 16:05:42
 * @LastEditTime: 2025-11-30 10:44:26
 * @LastEditors: 苏屿
 */
package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studylink-hub/studylink-app/internal/configdef"
	"github.com/studylink-hub/studylink-app/internal/pkg/auth"
	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/idgen"
	"github.com/studylink-hub/studylink-app/pkg/response"
	"github.com/studylink-hub/studylink-app/pkg/service/user"
)

type Handler struct {
	userSvc user.UserService
}

func NewHandler(userSvc user.UserService) *Handler {
	return &Handler{userSvc: userSvc}
}

// currentUserID 从中间件写入的身份里解码出内部用户ID。
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

type profileResponse struct {
	ID        string  `json:"id"`
	Nickname  string  `json:"nickname"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	GroupName string  `json:"group_name"`
	IsAdmin   bool    `json:"is_admin"`
}

// groupName 把用户组ID翻译为展示名称。
func groupName(groupID uint) string {
	for _, g := range configdef.AllUserGroups {
		if g.ID == groupID {
			return g.Name
		}
	}
	return ""
}

func toProfileResponse(u *model.User) (*profileResponse, error) {
	publicID, err := idgen.GeneratePublicID(u.ID, idgen.EntityTypeUser)
	if err != nil {
		return nil, err
	}
	return &profileResponse{
		ID:        publicID,
		Nickname:  u.Nickname,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		GroupName: groupName(u.UserGroupID),
		IsAdmin:   u.IsAdmin(),
	}, nil
}

// GetProfile
// @Summary      获取当前登录用户的资料
// @Tags         用户
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Router       /user/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "未登录或令牌无效")
		return
	}

	u, err := h.userSvc.GetUserInfoByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "用户不存在")
			return
		}
		response.Fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := toProfileResponse(u)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "生成用户ID失败")
		return
	}
	response.Success(c, resp, "获取成功")
}

// UpdateProfile
// @Summary      更新昵称或头像
// @Tags         用户
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Router       /user/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "未登录或令牌无效")
		return
	}

	var req struct {
		Nickname  *string `json:"nickname" binding:"omitempty,max=50"`
		AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	u, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, req.Nickname, req.AvatarURL)
	if err != nil {
		if errors.Is(err, constant.ErrBadRequest) {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := toProfileResponse(u)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "生成用户ID失败")
		return
	}
	response.Success(c, resp, "资料更新成功")
}

// UpdatePassword
// @Summary      修改密码
// @Tags         用户
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Failure      403 {object} response.Response "旧密码不正确"
// @Router       /user/password [put]
func (h *Handler) UpdatePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "未登录或令牌无效")
		return
	}

	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	if err := h.userSvc.UpdatePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, constant.ErrForbidden) {
			response.Fail(c, http.StatusForbidden, err.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, nil, "密码修改成功")
}
