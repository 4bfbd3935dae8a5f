package parser

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	cache := NewLRUCache(10, time.Minute)

	if _, ok := cache.Get("missing"); ok {
		t.Error("空缓存命中了不存在的键")
	}

	cache.Set("k1", "v1")
	if got, ok := cache.Get("k1"); !ok || got != "v1" {
		t.Errorf("Get(k1) = (%q, %v), 期望 (v1, true)", got, ok)
	}

	cache.Set("k1", "v2")
	if got, _ := cache.Get("k1"); got != "v2" {
		t.Errorf("覆盖写入后 Get(k1) = %q, 期望 v2", got)
	}
	if cache.Size() != 1 {
		t.Errorf("覆盖写入不应增加大小, Size() = %d", cache.Size())
	}
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	cache := NewLRUCache(3, time.Minute)
	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("k%d", i), "v")
	}

	// 访问 k0 使其成为最近使用，此时最久未使用的是 k1
	cache.Get("k0")
	cache.Set("k3", "v")

	if _, ok := cache.Get("k1"); ok {
		t.Error("容量满后应淘汰最久未使用的 k1")
	}
	if _, ok := cache.Get("k0"); !ok {
		t.Error("最近访问过的 k0 不应被淘汰")
	}
	if cache.Size() != 3 {
		t.Errorf("Size() = %d, 期望 3", cache.Size())
	}
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	cache := NewLRUCache(10, 10*time.Millisecond)
	cache.Set("k", "v")

	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.Get("k"); ok {
		t.Error("过期条目仍然命中")
	}
	if cache.Size() != 0 {
		t.Errorf("过期条目读取后应被清除, Size() = %d", cache.Size())
	}
}

func TestLRUCache_Clear(t *testing.T) {
	cache := NewLRUCache(10, time.Minute)
	cache.Set("k1", "v1")
	cache.Set("k2", "v2")

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Clear 后 Size() = %d, 期望 0", cache.Size())
	}
	if _, ok := cache.Get("k1"); ok {
		t.Error("Clear 后仍能命中旧键")
	}
}

func TestComputeCacheKey(t *testing.T) {
	a := computeCacheKey("# 你好")
	b := computeCacheKey("# 你好")
	c := computeCacheKey("# 世界")

	if a != b {
		t.Error("相同内容计算出不同缓存键")
	}
	if a == c {
		t.Error("不同内容计算出相同缓存键")
	}
	if len(a) != 64 {
		t.Errorf("缓存键长度 = %d, 期望 64 (sha256 hex)", len(a))
	}
}

func TestPlainTextExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		maxRunes int
		want     string
	}{
		{"去除标签", "<p>你好<strong>世界</strong></p>", 80, "你好世界"},
		{"截断并加省略号", "<p>一二三四五六</p>", 3, "一二三…"},
		{"空输入", "", 80, ""},
		{"纯文本原样", "plain text", 80, "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainTextExcerpt(tt.html, tt.maxRunes); got != tt.want {
				t.Errorf("PlainTextExcerpt(%q, %d) = %q, 期望 %q", tt.html, tt.maxRunes, got, tt.want)
			}
		})
	}
}
