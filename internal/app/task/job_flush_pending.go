/*
 * @Description: 离线评论队列重放任务
 * @Author: 苏屿
 * @Date: 2025-09-15 10:32:09
 * @LastEditTime: 2025-12-02 21:15:40
 * @LastEditors: 苏屿
 */
package task

import (
	"context"
	"log"
	"time"
)

// pendingFlusher 是任务对待提交队列的最小依赖。
type pendingFlusher interface {
	Flush(ctx context.Context) (int, error)
}

// FlushPendingCommentsJob 定期重放因网络故障排队的评论写入。
type FlushPendingCommentsJob struct {
	queue pendingFlusher
}

// NewFlushPendingCommentsJob 是任务的构造函数。
func NewFlushPendingCommentsJob(queue pendingFlusher) *FlushPendingCommentsJob {
	return &FlushPendingCommentsJob{queue: queue}
}

// Name 方法返回任务的可读名称。
func (j *FlushPendingCommentsJob) Name() string {
	return "FlushPendingCommentsJob"
}

// Run 执行一轮重放。
func (j *FlushPendingCommentsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	confirmed, err := j.queue.Flush(ctx)
	if err != nil {
		log.Printf("错误: 任务 '%s' 重放待提交队列失败: %v", j.Name(), err)
		return
	}
	if confirmed > 0 {
		log.Printf("✅ 任务 '%s' 成功补发 %d 条排队评论。", j.Name(), confirmed)
	}
}
