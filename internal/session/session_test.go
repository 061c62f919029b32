package session_test

import (
	"testing"
	"time"

	"slgmonitor/internal/session"
)

func TestCreateAndGet(t *testing.T) {
	m := session.NewManager(time.Hour)
	defer m.Close()

	s := m.Create(true)
	if s.Token == "" {
		t.Fatal("令牌不能为空")
	}
	got := m.Get(s.Token)
	if got == nil || !got.Elevated {
		t.Fatalf("Get=%+v, want elevated session", got)
	}
	if !m.Elevated(s.Token) {
		t.Fatal("Elevated 应为 true")
	}
	if m.Elevated("no-such-token") {
		t.Fatal("未知令牌不应提权")
	}
}

func TestExpiredSessionIsGone(t *testing.T) {
	m := session.NewManager(time.Millisecond)
	defer m.Close()

	s := m.Create(true)
	time.Sleep(5 * time.Millisecond)
	if m.Get(s.Token) != nil {
		t.Fatal("过期会话应取不到")
	}
	if m.Elevated(s.Token) {
		t.Fatal("过期会话不应提权")
	}
}

func TestRevoke(t *testing.T) {
	m := session.NewManager(time.Hour)
	defer m.Close()

	s := m.Create(false)
	m.Revoke(s.Token)
	if m.Get(s.Token) != nil {
		t.Fatal("注销后应取不到会话")
	}
}

func TestTokensUnique(t *testing.T) {
	m := session.NewManager(time.Hour)
	defer m.Close()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := m.Create(false).Token
		if seen[tok] {
			t.Fatalf("令牌重复: %s", tok)
		}
		seen[tok] = true
	}
}
