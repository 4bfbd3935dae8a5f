package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/studylink-hub/studylink-app/pkg/service/commenttree"
	"github.com/studylink-hub/studylink-app/pkg/service/utility"
)

// fakeSender 可编程的评论发送器
type fakeSender struct {
	err     error
	created []CreateCommentRequest
}

func (f *fakeSender) Create(ctx context.Context, topicID, postID string, req CreateCommentRequest) (*commenttree.Comment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &commenttree.Comment{ID: "srv-1", ContentHTML: req.Content}, nil
}

func newTestQueue(sender commentCreator) *PendingQueue {
	return NewPendingQueue(utility.NewMemoryCacheService(), sender, time.Hour)
}

func TestSubmit_Confirmed(t *testing.T) {
	sender := &fakeSender{}
	q := newTestQueue(sender)

	result, err := q.Submit(context.Background(), PendingWrite{
		TopicID: "t1", PostID: "p1", Nickname: "同学A", Content: "第一条",
	})
	if err != nil {
		t.Fatalf("Submit 返回错误: %v", err)
	}
	if result.State != StateConfirmed {
		t.Errorf("状态 = %s, 期望 confirmed", result.State)
	}
	if result.Comment == nil || result.Comment.ID != "srv-1" {
		t.Errorf("确认结果缺少服务端评论: %+v", result.Comment)
	}

	n, _ := q.Len(context.Background(), "t1", "p1")
	if n != 0 {
		t.Errorf("确认成功后队列长度 = %d, 期望 0", n)
	}
}

func TestSubmit_RetryableFailureQueues(t *testing.T) {
	sender := &fakeSender{err: &APIError{StatusCode: http.StatusBadGateway, Message: "upstream down"}}
	q := newTestQueue(sender)

	result, err := q.Submit(context.Background(), PendingWrite{
		TopicID: "t1", PostID: "p1", Nickname: "同学A", Content: "离线评论",
	})
	if err != nil {
		t.Fatalf("可重试故障不应上抛错误: %v", err)
	}
	if result.State != StateQueued {
		t.Errorf("状态 = %s, 期望 queued", result.State)
	}
	if !strings.HasPrefix(result.LocalID, commenttree.LocalIDPrefix) {
		t.Errorf("排队写入的本地ID = %q, 期望带 %q 前缀", result.LocalID, commenttree.LocalIDPrefix)
	}

	n, _ := q.Len(context.Background(), "t1", "p1")
	if n != 1 {
		t.Errorf("队列长度 = %d, 期望 1", n)
	}
}

func TestSubmit_BusinessRejectionNotQueued(t *testing.T) {
	sender := &fakeSender{err: &APIError{StatusCode: http.StatusForbidden, Code: 403, Message: "评论太频繁"}}
	q := newTestQueue(sender)

	result, err := q.Submit(context.Background(), PendingWrite{
		TopicID: "t1", PostID: "p1", Nickname: "同学A", Content: "被拒的评论",
	})
	if err == nil {
		t.Fatal("业务拒绝应该上抛错误")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("错误类型 = %T, 期望 *APIError", err)
	}
	if result.State != StateFailed {
		t.Errorf("状态 = %s, 期望 failed", result.State)
	}

	n, _ := q.Len(context.Background(), "t1", "p1")
	if n != 0 {
		t.Errorf("业务拒绝后队列长度 = %d, 期望不排队", n)
	}
}

func TestFlush_ReplaysQueuedWrites(t *testing.T) {
	sender := &fakeSender{err: &APIError{StatusCode: http.StatusServiceUnavailable}}
	q := newTestQueue(sender)
	ctx := context.Background()

	// 两条写入因服务端不可用进入队列
	for _, content := range []string{"排队一", "排队二"} {
		if _, err := q.Submit(ctx, PendingWrite{TopicID: "t1", PostID: "p1", Nickname: "同学A", Content: content}); err != nil {
			t.Fatalf("排队失败: %v", err)
		}
	}

	// 服务恢复后重放
	sender.err = nil
	confirmed, err := q.Flush(ctx)
	if err != nil {
		t.Fatalf("Flush 返回错误: %v", err)
	}
	if confirmed != 2 {
		t.Errorf("重放成功数 = %d, 期望 2", confirmed)
	}
	if len(sender.created) != 2 {
		t.Fatalf("实际发送数 = %d, 期望 2", len(sender.created))
	}
	if sender.created[0].Content != "排队一" || sender.created[1].Content != "排队二" {
		t.Errorf("重放顺序不正确: %+v", sender.created)
	}

	n, _ := q.Len(ctx, "t1", "p1")
	if n != 0 {
		t.Errorf("重放后队列长度 = %d, 期望 0", n)
	}
}

func TestFlush_ServerStillDownRequeues(t *testing.T) {
	sender := &fakeSender{err: &APIError{StatusCode: http.StatusServiceUnavailable}}
	q := newTestQueue(sender)
	ctx := context.Background()

	if _, err := q.Submit(ctx, PendingWrite{TopicID: "t1", PostID: "p1", Nickname: "同学A", Content: "还在排队"}); err != nil {
		t.Fatalf("排队失败: %v", err)
	}

	confirmed, err := q.Flush(ctx)
	if err != nil {
		t.Fatalf("Flush 返回错误: %v", err)
	}
	if confirmed != 0 {
		t.Errorf("服务端不可用时重放成功数 = %d, 期望 0", confirmed)
	}

	writes, err := q.QueuedWrites(ctx, "t1", "p1")
	if err != nil {
		t.Fatalf("读取队列失败: %v", err)
	}
	if len(writes) != 1 {
		t.Fatalf("队列中写入数 = %d, 期望仍保留 1", len(writes))
	}
	if writes[0].Attempts < 2 {
		t.Errorf("尝试次数 = %d, 期望随重放递增", writes[0].Attempts)
	}
}

func TestFlush_DropsAfterMaxAttempts(t *testing.T) {
	sender := &fakeSender{err: &APIError{StatusCode: http.StatusServiceUnavailable}}
	q := newTestQueue(sender)
	ctx := context.Background()

	if _, err := q.Submit(ctx, PendingWrite{TopicID: "t1", PostID: "p1", Nickname: "同学A", Content: "注定失败"}); err != nil {
		t.Fatalf("排队失败: %v", err)
	}

	// 反复重放直到超过最大尝试次数
	for i := 0; i < q.maxAttempts+1; i++ {
		if _, err := q.Flush(ctx); err != nil {
			t.Fatalf("Flush 返回错误: %v", err)
		}
	}

	n, _ := q.Len(ctx, "t1", "p1")
	if n != 0 {
		t.Errorf("超过最大尝试次数后队列长度 = %d, 期望被丢弃", n)
	}
}
