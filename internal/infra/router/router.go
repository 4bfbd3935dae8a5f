/*
 * @Description: 应用路由注册
 * @Author: 苏屿
 * @Date: 2025-09-17 09:28:46
 * @LastEditTime: 2025-12-04 18:36:22
 * @LastEditors: 苏屿
 */
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/studylink-hub/studylink-app/internal/app/middleware"
	auth_handler "github.com/studylink-hub/studylink-app/pkg/handler/auth"
	comment_handler "github.com/studylink-hub/studylink-app/pkg/handler/comment"
	notification_handler "github.com/studylink-hub/studylink-app/pkg/handler/notification"
	setting_handler "github.com/studylink-hub/studylink-app/pkg/handler/setting"
	user_handler "github.com/studylink-hub/studylink-app/pkg/handler/user"
)

// NoCacheMiddleware 全局反缓存中间件，确保所有API响应都不会被CDN缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	mw                  *middleware.Middleware
	authHandler         *auth_handler.AuthHandler
	userHandler         *user_handler.Handler
	commentHandler      *comment_handler.Handler
	notificationHandler *notification_handler.Handler
	settingHandler      *setting_handler.SettingHandler
}

// NewRouter 是 Router 的构造函数。
func NewRouter(
	mw *middleware.Middleware,
	authHandler *auth_handler.AuthHandler,
	userHandler *user_handler.Handler,
	commentHandler *comment_handler.Handler,
	notificationHandler *notification_handler.Handler,
	settingHandler *setting_handler.SettingHandler,
) *Router {
	return &Router{
		mw:                  mw,
		authHandler:         authHandler,
		userHandler:         userHandler,
		commentHandler:      commentHandler,
		notificationHandler: notificationHandler,
		settingHandler:      settingHandler,
	}
}

// Setup 注册全部路由。
func (r *Router) Setup(engine *gin.Engine) {
	api := engine.Group("/api")
	api.Use(NoCacheMiddleware())

	r.registerAuthRoutes(api)
	r.registerPublicRoutes(api)
	r.registerCommentRoutes(api)
	r.registerUserRoutes(api)
	r.registerNotificationRoutes(api)
	r.registerSettingRoutes(api)
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth").Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/refresh", r.authHandler.Refresh)
	}
}

func (r *Router) registerPublicRoutes(api *gin.RouterGroup) {
	public := api.Group("/public")
	{
		public.GET("/site-config", r.settingHandler.GetSiteConfig)
		public.GET("/comments/latest", r.commentHandler.ListLatest)
		public.POST("/comments/:id/like", r.mw.JWTAuthOptional(), r.commentHandler.Like)

		// 帖子页的评论读写：读对游客开放，写允许匿名但识别登录身份
		posts := public.Group("/topics/:topic/posts/:post")
		{
			posts.GET("/comments", r.commentHandler.List)
			posts.POST("/comments", r.mw.JWTAuthOptional(), r.commentHandler.Create)
		}
	}
}

func (r *Router) registerCommentRoutes(api *gin.RouterGroup) {
	// 作者自助操作：编辑与删除必须登录
	comments := api.Group("/comments").Use(r.mw.JWTAuth())
	{
		comments.PUT("/:id", r.commentHandler.Update)
		comments.DELETE("/:id", r.commentHandler.Delete)
	}

	// 后台管理
	commentsAdmin := api.Group("/comments").Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		commentsAdmin.GET("", r.commentHandler.AdminList)
		commentsAdmin.PUT("/:id/status", r.commentHandler.AdminUpdateStatus)
		commentsAdmin.POST("/batch-delete", r.commentHandler.AdminDelete)
	}
}

func (r *Router) registerUserRoutes(api *gin.RouterGroup) {
	user := api.Group("/user").Use(r.mw.JWTAuth())
	{
		user.GET("/profile", r.userHandler.GetProfile)
		user.PUT("/profile", r.userHandler.UpdateProfile)
		user.PUT("/password", r.userHandler.UpdatePassword)
	}
}

func (r *Router) registerNotificationRoutes(api *gin.RouterGroup) {
	notifications := api.Group("/notifications").Use(r.mw.JWTAuth())
	{
		notifications.GET("", r.notificationHandler.List)
		notifications.GET("/unread-count", r.notificationHandler.UnreadCount)
		notifications.POST("/mark-read", r.notificationHandler.MarkRead)
	}
}

func (r *Router) registerSettingRoutes(api *gin.RouterGroup) {
	settings := api.Group("/settings").Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		settings.PUT("", r.settingHandler.UpdateSettings)
	}
}
