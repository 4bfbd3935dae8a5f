/*
 * @Description: 认证接口
 * @Author: 苏屿
 * @Date: 2025-09-11 15:37:20
 * @LastEditTime: 2025-12-04 17:21:48
 * @LastEditors: 苏屿
 */
package auth_handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/idgen"
	"github.com/studylink-hub/studylink-app/pkg/response"
	"github.com/studylink-hub/studylink-app/pkg/service/auth"
)

// AuthHandler 封装了所有认证相关的控制器方法
type AuthHandler struct {
	authSvc auth.AuthService
}

// NewAuthHandler 是 AuthHandler 的构造函数
func NewAuthHandler(authSvc auth.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Nickname string `json:"nickname" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type userResponse struct {
	ID        string  `json:"id"`
	Nickname  string  `json:"nickname"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	IsAdmin   bool    `json:"is_admin"`
}

func toUserResponse(u *model.User) (*userResponse, error) {
	publicID, err := idgen.GeneratePublicID(u.ID, idgen.EntityTypeUser)
	if err != nil {
		return nil, err
	}
	return &userResponse{
		ID:        publicID,
		Nickname:  u.Nickname,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		IsAdmin:   u.IsAdmin(),
	}, nil
}

// Register
// @Summary      注册学生账号
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        body body registerRequest true "注册信息"
// @Success      200 {object} response.Response "成功响应"
// @Failure      409 {object} response.Response "邮箱已被注册"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Nickname, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, constant.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, err.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := toUserResponse(user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "生成用户ID失败")
		return
	}
	response.Success(c, resp, "注册成功")
}

// Login
// @Summary      登录并获取会话令牌
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        body body loginRequest true "登录凭证"
// @Success      200 {object} response.Response "成功响应"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, constant.ErrWrongCredentials) {
			response.Fail(c, http.StatusUnauthorized, err.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	userResp, err := toUserResponse(result.User)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "生成用户ID失败")
		return
	}
	response.Success(c, gin.H{
		"user":          userResp,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"expires_at":    result.ExpiresAt,
	}, "登录成功")
}

// Refresh
// @Summary      用刷新令牌换取新的访问令牌
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        body body refreshRequest true "刷新令牌"
// @Success      200 {object} response.Response "成功响应"
// @Failure      401 {object} response.Response "刷新令牌无效或过期"
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	accessToken, expiresAt, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	response.Success(c, gin.H{
		"access_token": accessToken,
		"expires_at":   expiresAt,
	}, "令牌刷新成功")
}
