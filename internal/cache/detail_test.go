package cache_test

import (
	"errors"
	"fmt"
	"testing"

	"slgmonitor/internal/cache"
	"slgmonitor/internal/model"
)

var week = model.Period{Year: 2026, WeekTag: "0119-0125"}

func key(name string) cache.Key {
	return cache.Key{Period: week, EntityKey: name}
}

func TestGetOrComputeHitSkipsRecompute(t *testing.T) {
	c := cache.New(0)
	calls := 0
	compute := func() (any, error) {
		calls++
		return "panel", nil
	}
	for i := 0; i < 3; i++ {
		got, err := c.GetOrCompute(cache.EntityCompany, key("Alpha"), compute)
		if err != nil {
			t.Fatalf("GetOrCompute: %v", err)
		}
		if got != "panel" {
			t.Fatalf("panel=%v, want %q", got, "panel")
		}
	}
	if calls != 1 {
		t.Fatalf("compute 调用 %d 次, want 1", calls)
	}
}

func TestEvictExactlyOldest(t *testing.T) {
	c := cache.New(50)
	for i := 0; i < 50; i++ {
		k := key(fmt.Sprintf("c%02d", i))
		if _, err := c.GetOrCompute(cache.EntityCompany, k, func() (any, error) { return i, nil }); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	// 读取最早的键不应影响先进先出淘汰
	if _, err := c.GetOrCompute(cache.EntityCompany, key("c00"), func() (any, error) {
		t.Fatal("命中不应重算")
		return nil, nil
	}); err != nil {
		t.Fatalf("hit: %v", err)
	}

	if _, err := c.GetOrCompute(cache.EntityCompany, key("c50"), func() (any, error) { return 50, nil }); err != nil {
		t.Fatalf("insert 51: %v", err)
	}

	if got := c.Len(cache.EntityCompany); got != 50 {
		t.Fatalf("第 51 个键插入后条目数=%d, want 50（恰好淘汰一个）", got)
	}
	if c.Contains(cache.EntityCompany, key("c00")) {
		t.Fatal("最早插入的 c00 应被淘汰（即便刚被读过）")
	}
	if !c.Contains(cache.EntityCompany, key("c01")) || !c.Contains(cache.EntityCompany, key("c50")) {
		t.Fatal("非最早键不应被淘汰")
	}
}

func TestEntityTypesIndependent(t *testing.T) {
	c := cache.New(2)
	fill := func(t0 cache.EntityType, names ...string) {
		for _, n := range names {
			c.GetOrCompute(t0, key(n), func() (any, error) { return n, nil })
		}
	}
	fill(cache.EntityCompany, "a", "b")
	fill(cache.EntityProduct, "x", "y", "z")
	if got := c.Len(cache.EntityCompany); got != 2 {
		t.Fatalf("company 条目数=%d, want 2（product 溢出不影响 company）", got)
	}
	if c.Contains(cache.EntityProduct, key("x")) {
		t.Fatal("product 分片超限应淘汰自己的最早键 x")
	}
}

func TestComputeErrorNotCached(t *testing.T) {
	c := cache.New(0)
	boom := errors.New("fetch failed")
	if _, err := c.GetOrCompute(cache.EntityCompany, key("Alpha"), func() (any, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err=%v, want %v", err, boom)
	}
	calls := 0
	if _, err := c.GetOrCompute(cache.EntityCompany, key("Alpha"), func() (any, error) {
		calls++
		return "ok", nil
	}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls != 1 {
		t.Fatal("失败结果不应被缓存，重试必须重算")
	}
}

func TestDistinctPeriodsDistinctKeys(t *testing.T) {
	c := cache.New(0)
	other := model.Period{Year: 2026, WeekTag: "0126-0201"}
	c.GetOrCompute(cache.EntityCompany, cache.Key{Period: week, EntityKey: "Alpha"}, func() (any, error) { return 1, nil })
	c.GetOrCompute(cache.EntityCompany, cache.Key{Period: other, EntityKey: "Alpha"}, func() (any, error) { return 2, nil })
	if got := c.Len(cache.EntityCompany); got != 2 {
		t.Fatalf("不同周期同名实体应是不同键, 条目数=%d", got)
	}
}
