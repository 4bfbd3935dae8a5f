package comment

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
)

func TestCursorRoundTrip(t *testing.T) {
	in := pageCursor{
		Sort:      constant.SortNewest,
		LastID:    42,
		LastUnix:  time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC).UnixNano(),
		LastLikes: 7,
	}

	token := encodeCursor(in)
	if token == "" {
		t.Fatal("编码游标得到空令牌")
	}

	out, err := decodeCursor(token)
	if err != nil {
		t.Fatalf("解码游标失败: %v", err)
	}
	if out != in {
		t.Errorf("游标往返不一致: %+v != %+v", out, in)
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"非base64内容", "不是base64!!"},
		{"base64但不是JSON", base64.RawURLEncoding.EncodeToString([]byte("garbage"))},
		{"缺少锚点ID", encodeCursor(pageCursor{Sort: constant.SortNewest})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeCursor(tt.token); !errors.Is(err, constant.ErrInvalidCursor) {
				t.Errorf("decodeCursor(%q) 错误 = %v, 期望 ErrInvalidCursor", tt.token, err)
			}
		})
	}
}

func TestRootLess(t *testing.T) {
	t0 := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	older := &model.Comment{ID: 1, CreatedAt: t0, LikeCount: 10}
	newer := &model.Comment{ID: 2, CreatedAt: t0.Add(time.Hour), LikeCount: 3}
	sameTime := &model.Comment{ID: 3, CreatedAt: t0, LikeCount: 10}

	tests := []struct {
		name string
		sort string
		a, b *model.Comment
		want bool
	}{
		{"newest: 新评论在前", constant.SortNewest, newer, older, true},
		{"newest: 旧评论在后", constant.SortNewest, older, newer, false},
		{"newest: 同时刻按ID倒序", constant.SortNewest, sameTime, older, true},
		{"oldest: 旧评论在前", constant.SortOldest, older, newer, true},
		{"oldest: 同时刻按ID升序", constant.SortOldest, older, sameTime, true},
		{"popular: 点赞多在前", constant.SortPopular, older, newer, true},
		{"popular: 点赞相同按时间倒序", constant.SortPopular, sameTime, older, true},
		{"未知排序键按newest处理", "bogus", newer, older, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rootLess(tt.sort, tt.a, tt.b); got != tt.want {
				t.Errorf("rootLess(%s, %d, %d) = %v, 期望 %v", tt.sort, tt.a.ID, tt.b.ID, got, tt.want)
			}
		})
	}
}

// 全序检查：任意两条不同评论必有确定的先后，游标定位依赖这一点。
func TestRootLess_StrictTotalOrder(t *testing.T) {
	t0 := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	comments := []*model.Comment{
		{ID: 1, CreatedAt: t0, LikeCount: 5},
		{ID: 2, CreatedAt: t0, LikeCount: 5},
		{ID: 3, CreatedAt: t0.Add(time.Minute), LikeCount: 5},
		{ID: 4, CreatedAt: t0.Add(time.Minute), LikeCount: 9},
	}

	for _, sortKey := range []string{constant.SortNewest, constant.SortOldest, constant.SortPopular} {
		for i, a := range comments {
			for j, b := range comments {
				if i == j {
					continue
				}
				ab := rootLess(sortKey, a, b)
				ba := rootLess(sortKey, b, a)
				if ab == ba {
					t.Errorf("排序 %s 下评论 %d 与 %d 没有确定先后", sortKey, a.ID, b.ID)
				}
			}
		}
	}
}
