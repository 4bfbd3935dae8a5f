/*
 * @Description: 点赞增量落库任务
 * @Author: 苏屿
 * @Date: 2025-09-15 10:05:33
 * @LastEditTime: 2025-11-19 22:47:58
 * @LastEditors: 苏屿
 */
package task

import (
	"context"
	"log"
	"time"

	"github.com/studylink-hub/studylink-app/pkg/service/comment"
)

// SyncLikeCountsJob 负责把缓存里累积的点赞增量批量同步到数据库。
// 点赞接口只写缓存计数器，数据库的 like_count 靠本任务定期追平。
type SyncLikeCountsJob struct {
	commentSvc *comment.Service
}

// NewSyncLikeCountsJob 是任务的构造函数。
func NewSyncLikeCountsJob(commentSvc *comment.Service) *SyncLikeCountsJob {
	return &SyncLikeCountsJob{commentSvc: commentSvc}
}

// Name 方法返回任务的可读名称。
func (j *SyncLikeCountsJob) Name() string {
	return "SyncCommentLikeCountsToDBJob"
}

// Run 执行一轮同步。
func (j *SyncLikeCountsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.commentSvc.SyncLikeCounts(ctx); err != nil {
		log.Printf("错误: 任务 '%s' 同步点赞增量失败: %v", j.Name(), err)
	}
}
