/*
 * @Description: 定时任务调度器
 * @Author: 苏屿
 * @Date: 2025-09-15 09:40:12
 * @LastEditTime: 2025-12-03 14:28:36
 * @LastEditors: 苏屿
 */
package task

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/service/comment"
	"github.com/studylink-hub/studylink-app/pkg/service/setting"
	"github.com/studylink-hub/studylink-app/pkg/service/utility"
)

// Scheduler 封装了 cron 实例和其依赖。
// 它是整个定时任务模块的核心协调者，负责任务的注册、启动和停止。
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	commentSvc *comment.Service
	settingSvc setting.SettingService
	cacheSvc   utility.CacheService
	queue      pendingFlusher // 可选，nil 表示本实例不承担离线队列重放
}

// NewScheduler 是 Scheduler 的构造函数。
func NewScheduler(
	commentSvc *comment.Service,
	settingSvc setting.SettingService,
	cacheSvc utility.CacheService,
	queue pendingFlusher,
) *Scheduler {
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.DelayIfStillRunning(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		cron:       c,
		logger:     logger,
		commentSvc: commentSvc,
		settingSvc: settingSvc,
		cacheSvc:   cacheSvc,
		queue:      queue,
	}
}

// RegisterJobs 在调度器中注册所有定义好的定时任务。
func (s *Scheduler) RegisterJobs() {
	s.logger.Info("Registering all periodic jobs...")

	// --- 任务1: 点赞增量落库，每分钟一次 ---
	syncLikesJob := NewSyncLikeCountsJob(s.commentSvc)
	if _, err := s.cron.AddJob("0 * * * * *", syncLikesJob); err != nil {
		s.logger.Error("Failed to add 'SyncLikeCountsJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'SyncLikeCountsJob'", "schedule", "every minute")

	// --- 任务2: 离线评论队列重放，间隔来自站点配置 ---
	if s.queue != nil {
		interval := s.settingSvc.GetInt(constant.KeyPendingFlushInterval.String())
		if interval <= 0 {
			interval = 60
		}
		spec := fmt.Sprintf("@every %ds", interval)
		flushJob := NewFlushPendingCommentsJob(s.queue)
		if _, err := s.cron.AddJob(spec, flushJob); err != nil {
			s.logger.Error("Failed to add 'FlushPendingCommentsJob'", slog.Any("error", err))
			os.Exit(1)
		}
		s.logger.Info("-> Successfully registered 'FlushPendingCommentsJob'", "schedule", spec)
	}

	// --- 任务3: 过期限流键清理，每天凌晨 3:00 ---
	cleanupJob := NewCleanupRateLimitKeysJob(s.cacheSvc)
	if _, err := s.cron.AddJob("0 0 3 * * *", cleanupJob); err != nil {
		s.logger.Error("Failed to add 'CleanupRateLimitKeysJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'CleanupRateLimitKeysJob'", "schedule", "every day at 3:00:00 AM")

	s.logger.Info("All periodic jobs registered.")
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器，等待执行中的任务结束。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}
