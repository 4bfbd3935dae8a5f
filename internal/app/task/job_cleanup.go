/*
 * @Description: 过期限流键清理任务
 * @Author: 苏屿
 * @Date: 2025-09-15 11:01:27
 * @LastEditTime: 2025-11-19 23:02:13
 * @LastEditors: 苏屿
 */
package task

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/studylink-hub/studylink-app/pkg/service/utility"
)

const rateLimitKeyPattern = "comment:rate_limit:*"

// CleanupRateLimitKeysJob 清理已经过了时间窗口的评论限流键。
// 键本身带 TTL，本任务只是兜底，防止降级到内存缓存时键堆积。
type CleanupRateLimitKeysJob struct {
	cacheSvc utility.CacheService
}

// NewCleanupRateLimitKeysJob 是任务的构造函数。
func NewCleanupRateLimitKeysJob(cacheSvc utility.CacheService) *CleanupRateLimitKeysJob {
	return &CleanupRateLimitKeysJob{cacheSvc: cacheSvc}
}

// Name 方法返回任务的可读名称。
func (j *CleanupRateLimitKeysJob) Name() string {
	return "CleanupCommentRateLimitKeysJob"
}

// Run 扫描限流键并删除分钟窗口已过期的那些。
func (j *CleanupRateLimitKeysJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	keys, err := j.cacheSvc.Scan(ctx, rateLimitKeyPattern)
	if err != nil {
		log.Printf("错误: 任务 '%s' 扫描限流键失败: %v", j.Name(), err)
		return
	}

	currentWindow := time.Now().Format("200601021504")
	var removed int
	for _, key := range keys {
		// 键格式: comment:rate_limit:<ip>:<yyyymmddhhmm>
		idx := strings.LastIndex(key, ":")
		if idx < 0 {
			continue
		}
		window := key[idx+1:]
		if window >= currentWindow {
			continue
		}
		if err := j.cacheSvc.Delete(ctx, key); err != nil {
			log.Printf("警告: 任务 '%s' 删除键 '%s' 失败: %v", j.Name(), key, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("任务 '%s' 清理了 %d 个过期限流键。", j.Name(), removed)
	}
}
