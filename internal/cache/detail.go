// Package cache 记忆 (周期, 实体) → 聚合面板 的计算结果。
package cache

import (
	"sync"

	"slgmonitor/internal/model"
)

// EntityType 缓存按实体类型分片，各自独立计数、独立淘汰
type EntityType string

const (
	EntityCompany EntityType = "company"
	EntityProduct EntityType = "product"
)

// DefaultLimit 每种实体类型的默认容量上限
const DefaultLimit = 50

// Key 缓存键：周期 + 实体键（公司名或产品统一 ID/名称）
type Key struct {
	Period    model.Period
	EntityKey string
}

type entry struct {
	key   Key
	panel any
	seq   int
}

// DetailCache 有界详情缓存。淘汰按插入顺序（先进先出），命中不续期：
// 读取从不刷新条目位置，这是刻意保留的简化而非 LRU。
// 条目在会话内永不因外部数据变化失效，重新导入某周后需整体重载才可见。
type DetailCache struct {
	mu      sync.Mutex
	limit   int
	entries map[EntityType]map[Key]*entry
	order   map[EntityType][]Key
	seq     int
}

// New 创建缓存；limit <= 0 时使用 DefaultLimit
func New(limit int) *DetailCache {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &DetailCache{
		limit:   limit,
		entries: make(map[EntityType]map[Key]*entry),
		order:   make(map[EntityType][]Key),
	}
}

// GetOrCompute 命中直接返回缓存面板，不重算、不校验新数据；
// 未命中时调用 compute，成功则写入并在超出上限时淘汰恰好一个最早插入的键。
// compute 出错不缓存，错误原样返回。
func (c *DetailCache) GetOrCompute(t EntityType, k Key, compute func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[t][k]; ok {
		c.mu.Unlock()
		return e.panel, nil
	}
	c.mu.Unlock()

	// 计算不持锁：事件循环串行化了写入方，这里的锁只为防御性一致
	panel, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[t][k]; ok {
		// compute 期间被并发写入，以先写入者为准
		return e.panel, nil
	}
	if c.entries[t] == nil {
		c.entries[t] = make(map[Key]*entry)
	}
	c.seq++
	c.entries[t][k] = &entry{key: k, panel: panel, seq: c.seq}
	c.order[t] = append(c.order[t], k)
	if len(c.entries[t]) > c.limit {
		c.evictOldest(t)
	}
	return panel, nil
}

// evictOldest 删除该类型下最早插入且仍存在的键，恰好一个
func (c *DetailCache) evictOldest(t EntityType) {
	order := c.order[t]
	for len(order) > 0 {
		oldest := order[0]
		order = order[1:]
		if _, ok := c.entries[t][oldest]; ok {
			delete(c.entries[t], oldest)
			break
		}
	}
	c.order[t] = order
}

// Len 某类型当前条目数
func (c *DetailCache) Len(t EntityType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries[t])
}

// Contains 某键是否仍在缓存中
func (c *DetailCache) Contains(t EntityType, k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[t][k]
	return ok
}
