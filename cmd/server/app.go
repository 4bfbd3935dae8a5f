/*
 * @Description: 应用组装与生命周期管理
 * @Author: 苏屿
 * @Date: 2025-09-17 10:40:09
 * @LastEditTime: 2025-12-05 09:17:32
 * @LastEditors: 苏屿
 */
package server

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/studylink-hub/studylink-app/internal/app/middleware"
	"github.com/studylink-hub/studylink-app/internal/app/task"
	"github.com/studylink-hub/studylink-app/internal/infra/persistence/database"
	"github.com/studylink-hub/studylink-app/internal/infra/persistence/gormdb"
	"github.com/studylink-hub/studylink-app/internal/infra/router"
	"github.com/studylink-hub/studylink-app/internal/pkg/event"
	"github.com/studylink-hub/studylink-app/pkg/config"
	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
	auth_handler "github.com/studylink-hub/studylink-app/pkg/handler/auth"
	comment_handler "github.com/studylink-hub/studylink-app/pkg/handler/comment"
	notification_handler "github.com/studylink-hub/studylink-app/pkg/handler/notification"
	setting_handler "github.com/studylink-hub/studylink-app/pkg/handler/setting"
	user_handler "github.com/studylink-hub/studylink-app/pkg/handler/user"
	"github.com/studylink-hub/studylink-app/pkg/idgen"
	auth_service "github.com/studylink-hub/studylink-app/pkg/service/auth"
	comment_service "github.com/studylink-hub/studylink-app/pkg/service/comment"
	"github.com/studylink-hub/studylink-app/pkg/service/notification"
	parser_service "github.com/studylink-hub/studylink-app/pkg/service/parser"
	"github.com/studylink-hub/studylink-app/pkg/service/setting"
	user_service "github.com/studylink-hub/studylink-app/pkg/service/user"
	"github.com/studylink-hub/studylink-app/pkg/service/utility"
)

// App 结构体，封装应用的所有核心组件。
type App struct {
	cfg       *config.Config
	engine    *gin.Engine
	scheduler *task.Scheduler
	eventBus  *event.EventBus
}

// NewApp 组装整个应用，返回 App、清理函数和错误。
func NewApp() (*App, func(), error) {
	// --- Phase 1: 配置与基础设施 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	db, err := database.NewGormDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	redisClient, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化 Redis 失败: %w", err)
	}
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)

	eventBus := event.NewEventBus()

	cleanup := func() {
		eventBus.Shutdown()
		if redisClient != nil {
			redisClient.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	// --- Phase 2: 迁移与仓储 ---
	if err := database.NewMigrationService(db).RunMigrations(context.Background()); err != nil {
		return nil, cleanup, fmt.Errorf("数据库迁移失败: %w", err)
	}

	commentRepo := gormdb.NewCommentRepository(db)
	userRepo := gormdb.NewUserRepository(db)
	notificationRepo := gormdb.NewNotificationRepository(db)
	settingRepo := gormdb.NewSettingRepository(db)

	// --- Phase 3: ID 编码器 ---
	// 种子存在数据库里，首次启动生成，之后保持不变，保证公共ID稳定
	idSeed, err := getOrCreateIDSeed(context.Background(), settingRepo)
	if err != nil {
		return nil, cleanup, fmt.Errorf("获取 IDSeed 失败: %w", err)
	}
	if err := idgen.InitSqidsEncoderWithSeed(idSeed); err != nil {
		return nil, cleanup, fmt.Errorf("初始化 ID 编码器失败: %w", err)
	}
	log.Println("✅ ID 编码器初始化成功")

	// --- Phase 4: 业务逻辑层 ---
	settingSvc := setting.NewSettingService(settingRepo, eventBus)
	if err := settingSvc.LoadAllSettings(context.Background()); err != nil {
		return nil, cleanup, fmt.Errorf("从数据库加载站点配置失败: %w", err)
	}

	parserSvc := parser_service.NewService(settingSvc, eventBus)
	notificationSvc := notification.NewService(notificationRepo, userRepo)
	commentSvc := comment_service.NewService(commentRepo, userRepo, settingSvc, cacheSvc, parserSvc, notificationSvc, eventBus)

	tokenSvc := auth_service.NewTokenService(userRepo, cfg)
	authSvc := auth_service.NewAuthService(userRepo, tokenSvc)
	userSvc := user_service.NewUserService(userRepo)

	// --- Phase 5: 接口层 ---
	mw := middleware.NewMiddleware(tokenSvc)
	appRouter := router.NewRouter(
		mw,
		auth_handler.NewAuthHandler(authSvc),
		user_handler.NewHandler(userSvc),
		comment_handler.NewHandler(commentSvc),
		notification_handler.NewHandler(notificationSvc),
		setting_handler.NewSettingHandler(settingSvc),
	)

	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.Cors())
	appRouter.Setup(engine)

	// --- Phase 6: 后台任务 ---
	// 服务端实例不承担离线队列重放（那是嵌入式客户端的事），queue 传 nil
	scheduler := task.NewScheduler(commentSvc, settingSvc, cacheSvc, nil)

	app := &App{
		cfg:       cfg,
		engine:    engine,
		scheduler: scheduler,
		eventBus:  eventBus,
	}
	return app, cleanup, nil
}

// getOrCreateIDSeed 读取或生成公共ID编码器的种子。
func getOrCreateIDSeed(ctx context.Context, settingRepo repository.SettingRepository) (string, error) {
	settings, err := settingRepo.FindAll(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range settings {
		if s.ConfigKey == constant.KeyIDSeed.String() && s.Value != "" {
			return s.Value, nil
		}
	}

	seed, err := idgen.GenerateRandomSeed()
	if err != nil {
		return "", err
	}
	if err := settingRepo.Update(ctx, map[string]string{constant.KeyIDSeed.String(): seed}); err != nil {
		return "", err
	}
	log.Println("✅ 已生成并持久化新的 IDSeed")
	return seed, nil
}

// Run 注册定时任务并启动 HTTP 服务。
func (a *App) Run() error {
	a.scheduler.RegisterJobs()
	a.scheduler.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}

// Stop 优雅地停止后台组件。
func (a *App) Stop() {
	a.scheduler.Stop()
}
