/*
 * @Description: 评论写入的待提交队列与状态机
 * @Author: 苏屿
 * @Date: 2025-09-13 16:48:22
 * @LastEditTime: 2025-12-02 20:09:51
 * @LastEditors: 苏屿
 */
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studylink-hub/studylink-app/pkg/service/commenttree"
	"github.com/studylink-hub/studylink-app/pkg/service/utility"
)

// WriteState 是单次评论写入的状态。
//
// 状态机：Pending → Confirmed（服务端确认）
//
//	Pending → Failed → Queued（可重试故障，持久化排队，后台重放）
//	Pending → Failed（不可重试的业务拒绝，终态，错误上抛给界面）
type WriteState int

const (
	StatePending   WriteState = iota + 1 // 请求已发出，等待服务端确认
	StateConfirmed                       // 服务端已确认，持有真实ID
	StateFailed                          // 写入失败
	StateQueued                          // 已持久化排队，等待后台任务重放
)

func (s WriteState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	case StateQueued:
		return "queued"
	default:
		return "unknown"
	}
}

// pendingQueueKeyPrefix 是排队写入在缓存中的键前缀，按 (版块, 帖子) 分桶。
const pendingQueueKeyPrefix = "pending:comment:"

// PendingWrite 是一次待确认的评论写入。LocalID 与界面上的乐观节点对应，
// 确认后由调用方用真实ID做对账渲染。
type PendingWrite struct {
	LocalID    string    `json:"local_id"`
	TopicID    string    `json:"topic_id"`
	PostID     string    `json:"post_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Nickname   string    `json:"nickname"`
	Email      string    `json:"email,omitempty"`
	Content    string    `json:"content"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// commentCreator 是队列对网络客户端的最小依赖。
type commentCreator interface {
	Create(ctx context.Context, topicID, postID string, req CreateCommentRequest) (*commenttree.Comment, error)
}

// SubmitResult 是一次提交的结果。
type SubmitResult struct {
	State   WriteState
	Comment *commenttree.Comment // 仅 StateConfirmed 时非空
	LocalID string               // 排队时用于对应界面上的乐观节点
}

// PendingQueue 负责评论写入的提交、失败排队与后台重放。
// 队列内容持久化在缓存里（Redis 或内存降级），带TTL，不会无限堆积。
type PendingQueue struct {
	cache       utility.CacheService
	sender      commentCreator
	ttl         time.Duration
	maxAttempts int
}

// NewPendingQueue 创建待提交队列。ttl 为排队写入的保留时长。
func NewPendingQueue(cache utility.CacheService, sender commentCreator, ttl time.Duration) *PendingQueue {
	return &PendingQueue{
		cache:       cache,
		sender:      sender,
		ttl:         ttl,
		maxAttempts: 5,
	}
}

func queueKey(topicID, postID string) string {
	return pendingQueueKeyPrefix + topicID + ":" + postID
}

// Submit 提交一次评论写入。
//
//   - 成功：StateConfirmed，返回带真实ID的评论；
//   - 可重试的故障（网络错误、5xx、429）：写入持久化队列，返回 StateQueued
//     和本地ID，界面上的乐观节点继续存活直到下次完整渲染；
//   - 业务拒绝（其余4xx）：StateFailed，错误原样上抛，不排队。
func (q *PendingQueue) Submit(ctx context.Context, w PendingWrite) (*SubmitResult, error) {
	created, err := q.sender.Create(ctx, w.TopicID, w.PostID, CreateCommentRequest{
		ParentID: w.ParentID,
		Nickname: w.Nickname,
		Email:    w.Email,
		Content:  w.Content,
	})
	if err == nil {
		return &SubmitResult{State: StateConfirmed, Comment: created}, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && !apiErr.Retryable() {
		return &SubmitResult{State: StateFailed}, err
	}

	// 网络故障或服务端暂时不可用：持久化排队，等待后台重放
	if w.LocalID == "" {
		w.LocalID = commenttree.LocalIDPrefix + uuid.NewString()
	}
	w.Attempts++
	w.EnqueuedAt = time.Now()
	if qErr := q.enqueue(ctx, w); qErr != nil {
		// 连排队都失败了，只能把原始错误交给界面
		return &SubmitResult{State: StateFailed}, fmt.Errorf("写入排队失败: %v (原始错误: %w)", qErr, err)
	}
	log.Printf("[待提交队列] 评论写入已排队（帖子 %s/%s，本地ID %s）: %v", w.TopicID, w.PostID, w.LocalID, err)
	return &SubmitResult{State: StateQueued, LocalID: w.LocalID}, nil
}

func (q *PendingQueue) enqueue(ctx context.Context, w PendingWrite) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	key := queueKey(w.TopicID, w.PostID)
	if err := q.cache.RPush(ctx, key, string(raw)); err != nil {
		return err
	}
	return q.cache.Expire(ctx, key, q.ttl)
}

// Len 返回某帖子下排队中的写入数量。
func (q *PendingQueue) Len(ctx context.Context, topicID, postID string) (int64, error) {
	return q.cache.LLen(ctx, queueKey(topicID, postID))
}

// Flush 重放所有排队中的写入，返回成功提交的数量。由后台定时任务调用。
//
// 每个队列按序重放；一旦遇到可重试的故障就把该条放回队尾并跳到下一个
// 队列（服务端多半仍不可用，继续打没有意义）。超过最大尝试次数或遭到
// 业务拒绝的写入被丢弃并记录日志。
func (q *PendingQueue) Flush(ctx context.Context) (int, error) {
	keys, err := q.cache.Scan(ctx, pendingQueueKeyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("扫描待提交队列失败: %w", err)
	}

	var confirmed int
	for _, key := range keys {
		n, err := q.cache.LLen(ctx, key)
		if err != nil {
			log.Printf("警告：读取队列 '%s' 长度失败: %v", key, err)
			continue
		}

		// 只处理本轮开始时已有的条目，重放期间新排队的留到下一轮
		for i := int64(0); i < n; i++ {
			raw, err := q.cache.LPop(ctx, key)
			if err != nil || raw == "" {
				break
			}

			var w PendingWrite
			if err := json.Unmarshal([]byte(raw), &w); err != nil {
				log.Printf("警告：丢弃无法解析的排队写入（队列 %s）: %v", key, err)
				continue
			}

			_, err = q.sender.Create(ctx, w.TopicID, w.PostID, CreateCommentRequest{
				ParentID: w.ParentID,
				Nickname: w.Nickname,
				Email:    w.Email,
				Content:  w.Content,
			})
			if err == nil {
				confirmed++
				continue
			}

			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.Retryable() {
				log.Printf("[待提交队列] 排队写入被服务端拒绝，丢弃（本地ID %s）: %v", w.LocalID, err)
				continue
			}

			w.Attempts++
			if w.Attempts >= q.maxAttempts {
				log.Printf("[待提交队列] 排队写入超过最大尝试次数，丢弃（本地ID %s）", w.LocalID)
				continue
			}
			if qErr := q.enqueue(ctx, w); qErr != nil {
				log.Printf("警告：排队写入放回队列失败（本地ID %s）: %v", w.LocalID, qErr)
			}
			break // 服务端仍不可用，换下一个队列
		}
	}
	return confirmed, nil
}

// QueuedWrites 列出某帖子下排队中的写入，供界面展示"N 条评论待发送"。
func (q *PendingQueue) QueuedWrites(ctx context.Context, topicID, postID string) ([]PendingWrite, error) {
	items, err := q.cache.LRange(ctx, queueKey(topicID, postID), 0, -1)
	if err != nil {
		return nil, err
	}
	writes := make([]PendingWrite, 0, len(items))
	for _, raw := range items {
		var w PendingWrite
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			continue
		}
		if !strings.HasPrefix(w.LocalID, commenttree.LocalIDPrefix) {
			continue
		}
		writes = append(writes, w)
	}
	return writes, nil
}
