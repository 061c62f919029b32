package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"slgmonitor/internal/model"
	"slgmonitor/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "weeks_index.json"),
		`{"2025":["1229-0104"],"2026":["0119-0125","0105-0111"],"data_range":{"from":"2025-12-29"},"note":"x"}`)
	writeFile(t, filepath.Join(dir, "2026", "0119-0125_formatted.json"),
		`{"headers":["公司归属","产品归属"],"rows":[["Alpha","Kingdom War"]]}`)
	writeFile(t, filepath.Join(dir, "2026", "0119-0125", "metrics_total.json"),
		`{"headers":["产品归属","All Time Downloads (WW)"],"rows":[["Kingdom War",990000]]}`)
	writeFile(t, filepath.Join(dir, "2026", "0119-0125", "creative", "KW_T2.json"),
		`{"ad_units":[{"first_seen_at":"2026-01-05","last_seen_at":"2026-01-20","share":0.4,"creatives":[{"creative_url":"https://cdn/a.mp4","width":720,"height":1280}]}]}`)
	return dir
}

func TestPeriodIndexFiltersAndSorts(t *testing.T) {
	src := source.NewFileSource(newDataDir(t), time.Second)
	periods, err := src.PeriodIndex(context.Background())
	if err != nil {
		t.Fatalf("PeriodIndex: %v", err)
	}
	// data_range/note 等非年份键不参与
	if len(periods) != 3 {
		t.Fatalf("周期数=%d, want 3", len(periods))
	}
	if periods[0].Year != 2025 || periods[2].WeekTag != "0119-0125" {
		t.Fatalf("应按排序键升序: %v", periods)
	}
}

func TestSnapshotAndMetricsPaths(t *testing.T) {
	src := source.NewFileSource(newDataDir(t), 0)
	p := model.Period{Year: 2026, WeekTag: "0119-0125"}

	snap, err := src.Snapshot(context.Background(), p)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if model.CellString(snap.Rows[0][0]) != "Alpha" {
		t.Fatalf("rows=%v", snap.Rows)
	}

	m, err := src.MetricsSnapshot(context.Background(), p)
	if err != nil {
		t.Fatalf("MetricsSnapshot: %v", err)
	}
	// JSON 数值进来是 float64
	if model.CellString(m.Rows[0][1]) != "990000" {
		t.Fatalf("metrics cell=%v", m.Rows[0][1])
	}
}

func TestMissingFilesAreNotFound(t *testing.T) {
	src := source.NewFileSource(newDataDir(t), 0)
	missing := model.Period{Year: 2026, WeekTag: "0126-0201"}
	if _, err := src.Snapshot(context.Background(), missing); !errors.Is(err, source.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	if _, err := src.StrategyTable(context.Background(), missing, model.SourceOld); !errors.Is(err, source.ErrNotFound) {
		t.Fatalf("strategy err=%v, want ErrNotFound", err)
	}
}

func TestStrategyTableRejectsFormattedTag(t *testing.T) {
	src := source.NewFileSource(newDataDir(t), 0)
	p := model.Period{Year: 2026, WeekTag: "0119-0125"}
	if _, err := src.StrategyTable(context.Background(), p, model.SourceFormatted); err == nil {
		t.Fatal("formatted 不是策略表标签, 应报错")
	}
}

func TestCreativeSetFlattensAdUnits(t *testing.T) {
	src := source.NewFileSource(newDataDir(t), 0)
	p := model.Period{Year: 2026, WeekTag: "0119-0125"}
	set, err := src.CreativeSet(context.Background(), p, "KW", "T2")
	if err != nil {
		t.Fatalf("CreativeSet: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("素材数=%d, want 1", len(set))
	}
	c := set[0]
	if c.URL != "https://cdn/a.mp4" || c.FirstSeen != "2026-01-05" || c.Share != 0.4 || c.Region != "T2" {
		t.Fatalf("素材应带上 ad_unit 的时间/份额与地区: %+v", c)
	}
}

func TestPeriodIndexHonorsCancelledContext(t *testing.T) {
	src := source.NewFileSource(newDataDir(t), time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.PeriodIndex(ctx); err == nil {
		t.Fatal("已取消的 ctx 应报错")
	}
}
