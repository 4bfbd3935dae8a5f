/*
 * @Description: 内存缓存服务（Redis 不可用时的降级实现）
 * @Author: 苏屿
 * @Date: 2025-09-04 15:40:02
 * @LastEditTime: 2025-11-21 20:31:10
 * @LastEditors: 苏屿
 */
package utility

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"
)

// memoryCacheService 是 CacheService 的纯内存实现。
// 单机部署或开发环境下无需 Redis 也能运行，语义与 Redis 实现对齐：
// 不存在的键 Get 返回空字符串而不是错误。
type memoryCacheService struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	lists map[string][]string
	sets  map[string]map[string]struct{}
}

type memoryItem struct {
	value     string
	expiresAt time.Time // 零值表示永不过期
}

func (it memoryItem) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// NewMemoryCacheService 创建内存缓存服务，并启动后台过期清理。
func NewMemoryCacheService() CacheService {
	s := &memoryCacheService{
		items: make(map[string]memoryItem),
		lists: make(map[string][]string),
		sets:  make(map[string]map[string]struct{}),
	}
	go s.janitor()
	return s
}

// janitor 周期性清理过期键
func (s *memoryCacheService) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for key, item := range s.items {
			if item.expired(now) {
				delete(s.items, key)
			}
		}
		s.mu.Unlock()
	}
}

func (s *memoryCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = memoryItem{value: fmt.Sprintf("%v", value), expiresAt: expiresAt}
	return nil
}

func (s *memoryCacheService) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || item.expired(time.Now()) {
		return "", nil
	}
	return item.value, nil
}

func (s *memoryCacheService) Delete(ctx context.Context, key ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range key {
		delete(s.items, k)
		delete(s.lists, k)
		delete(s.sets, k)
	}
	return nil
}

func (s *memoryCacheService) Increment(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	var current int64
	if ok && !item.expired(time.Now()) {
		parsed, err := strconv.ParseInt(item.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("键 %s 的值不是整数: %w", key, err)
		}
		current = parsed
	}
	current++
	item.value = strconv.FormatInt(current, 10)
	s.items[key] = item
	return current, nil
}

func (s *memoryCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[key]; ok {
		item.expiresAt = time.Now().Add(expiration)
		s.items[key] = item
	}
	return nil
}

// Scan 用 path.Match 模拟 Redis 的 glob 匹配，足以覆盖 "prefix:*" 形式的用法。
func (s *memoryCacheService) Scan(ctx context.Context, pattern string) ([]string, error) {
	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key, item := range s.items {
		if item.expired(now) {
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	for key := range s.lists {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// GetAndDeleteMany 获取多个键的计数值并删除它们
func (s *memoryCacheService) GetAndDeleteMany(ctx context.Context, keys []string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	results := make(map[string]int)
	for _, key := range keys {
		item, ok := s.items[key]
		if !ok || item.expired(now) {
			continue
		}
		if n, err := strconv.Atoi(item.value); err == nil {
			results[key] = n
		}
		delete(s.items, key)
	}
	return results, nil
}

func (s *memoryCacheService) RPush(ctx context.Context, key string, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		s.lists[key] = append(s.lists[key], fmt.Sprintf("%v", v))
	}
	return nil
}

func (s *memoryCacheService) LLen(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.lists[key])), nil
}

func (s *memoryCacheService) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.lists[key]
	n := int64(len(list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop || start >= n {
		return nil, nil
	}

	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

func (s *memoryCacheService) LPop(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[key]
	if len(list) == 0 {
		return "", nil
	}
	head := list[0]
	if len(list) == 1 {
		delete(s.lists, key)
	} else {
		s.lists[key] = list[1:]
	}
	return head, nil
}

func (s *memoryCacheService) SAdd(ctx context.Context, key string, members ...interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}

	var added int64
	for _, m := range members {
		member := fmt.Sprintf("%v", m)
		if _, exists := set[member]; !exists {
			set[member] = struct{}{}
			added++
		}
	}
	return added, nil
}
