/*
 * @Description: JWT 认证中间件
 * @Author: 苏屿
 * @Date: 2025-09-11 11:08:33
 * @LastEditTime: 2025-12-02 15:27:49
 * @LastEditors: 苏屿
 */
package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studylink-hub/studylink-app/internal/pkg/auth"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/idgen"
	"github.com/studylink-hub/studylink-app/pkg/response"
	service_auth "github.com/studylink-hub/studylink-app/pkg/service/auth"
)

type Middleware struct {
	tokenSvc service_auth.TokenService
}

func NewMiddleware(tokenSvc service_auth.TokenService) *Middleware {
	return &Middleware{tokenSvc: tokenSvc}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// JWTAuth 是强制性的JWT认证中间件
func (m *Middleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "请求未携带Token，无权限访问")
			c.Abort()
			return
		}

		claims, err := m.tokenSvc.ParseAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "无效或过期的Token")
			c.Abort()
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}

// JWTAuthOptional 是可选的JWT认证中间件。
// 没有Token放行为游客；有Token但过期返回401，触发前端自动刷新。
func (m *Middleware) JWTAuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := m.tokenSvc.ParseAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Printf("[JWTAuthOptional] Token解析失败: %v, 返回401触发自动刷新", err)
			response.Fail(c, http.StatusUnauthorized, "Token已过期")
			c.Abort()
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}

// AdminAuth 是管理员权限验证中间件，必须排在 JWTAuth 之后。
func (m *Middleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(auth.ClaimsKey)
		if !exists {
			response.Fail(c, http.StatusForbidden, "权限信息获取失败")
			c.Abort()
			return
		}

		claims, ok := claimsValue.(*auth.CustomClaims)
		if !ok {
			response.Fail(c, http.StatusForbidden, "权限信息格式不正确")
			c.Abort()
			return
		}

		userGroupID, entityType, err := idgen.DecodePublicID(claims.UserGroupID)
		if err != nil || entityType != idgen.EntityTypeUserGroup {
			response.Fail(c, http.StatusForbidden, "权限信息无效：用户组ID无法解析")
			c.Abort()
			return
		}

		if userGroupID != model.UserGroupAdmin {
			log.Printf("[AdminAuth] 权限不足: 用户组ID %d 不是管理员组", userGroupID)
			response.Fail(c, http.StatusForbidden, "权限不足：此操作需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
