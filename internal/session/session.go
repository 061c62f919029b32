// Package session 内存会话：uuid 令牌换提权标记，到期自动清理。
// 会话只活在进程内，重启即全部失效。
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session 一次登录会话
type Session struct {
	Token     string    `json:"token"`
	Elevated  bool      `json:"elevated"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager 会话管理器
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

// DefaultTTL 提权会话默认有效期
const DefaultTTL = 2 * time.Hour

// NewManager 创建会话管理器并启动过期清理；ttl <= 0 用默认值
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Create 新建会话并返回令牌
func (m *Manager) Create(elevated bool) *Session {
	now := time.Now()
	s := &Session{
		Token:     uuid.New().String(),
		Elevated:  elevated,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

// Get 按令牌取会话；不存在或已过期返回 nil
func (m *Manager) Get(token string) *Session {
	m.mu.RLock()
	s := m.sessions[token]
	m.mu.RUnlock()
	if s == nil || time.Now().After(s.ExpiresAt) {
		return nil
	}
	return s
}

// Elevated 令牌是否对应一个未过期的提权会话
func (m *Manager) Elevated(token string) bool {
	s := m.Get(token)
	return s != nil && s.Elevated
}

// Revoke 注销令牌
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Close 停止后台清理
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
}

// sweep 周期清理过期会话
func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for token, s := range m.sessions {
				if now.After(s.ExpiresAt) {
					delete(m.sessions, token)
				}
			}
			m.mu.Unlock()
		}
	}
}
