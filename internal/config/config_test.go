package config_test

import (
	"testing"

	"slgmonitor/internal/config"
	"slgmonitor/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	c := config.DefaultConfig()
	if c.Server.Port != 20262 {
		t.Fatalf("port=%d, want 20262", c.Server.Port)
	}
	if c.Cache.DetailLimit != 50 {
		t.Fatalf("detail_limit=%d, want 50", c.Cache.DetailLimit)
	}
	if c.Data.Backend != "file" {
		t.Fatalf("backend=%q, want file", c.Data.Backend)
	}
	if c.Data.IndexTimeoutMS != 5000 {
		t.Fatalf("index_timeout_ms=%d, want 5000", c.Data.IndexTimeoutMS)
	}
}

func TestResolvePriority(t *testing.T) {
	c := config.DefaultConfig()
	want := []model.SourceTable{model.SourceOld, model.SourceNew, model.SourceFormatted}
	got := c.ResolvePriority()
	if len(got) != len(want) {
		t.Fatalf("priority=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("priority[%d]=%s, want %s", i, got[i], want[i])
		}
	}
}

func TestResolvePriorityDropsUnknownTags(t *testing.T) {
	c := config.DefaultConfig()
	c.Match.ResolvePriority = []string{"new", "bogus", "old"}
	got := c.ResolvePriority()
	if len(got) != 2 || got[0] != model.SourceNew || got[1] != model.SourceOld {
		t.Fatalf("非法标签应剔除且保持顺序, got %v", got)
	}
}
