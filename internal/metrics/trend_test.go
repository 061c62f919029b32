package metrics_test

import (
	"context"
	"errors"
	"testing"

	"slgmonitor/internal/metrics"
	"slgmonitor/internal/model"
)

func weekSnap(rows ...model.Row) *model.Snapshot {
	return &model.Snapshot{
		Headers: []string{model.ColCompany, model.ColProduct, model.ColWeekInstall},
		Rows:    rows,
	}
}

func TestCompanyTrendPadsMissingWeeksWithZero(t *testing.T) {
	src := newFakeSource()
	src.periods = []model.Period{w1, w2, w3}
	src.formatted[w1.WeekTag] = weekSnap(
		model.Row{"Alpha", "A1", float64(10)},
		model.Row{"Alpha", "A2", float64(5)},
		model.Row{"Beta", "B1", float64(99)},
	)
	// w2 缺数据文件
	src.formatted[w3.WeekTag] = weekSnap(
		model.Row{"Alpha", "A1", float64(20)},
		model.Row{"Alpha", "A3", float64(3)}, // 中途出现的新产品
	)

	svc := metrics.NewService(src, nil)
	trend, err := svc.CompanyTrendSeries(context.Background(), "Alpha")
	if err != nil {
		t.Fatalf("CompanyTrendSeries: %v", err)
	}
	if want := []float64{15, 0, 23}; !equalSeries(trend.Total, want) {
		t.Fatalf("Total=%v, want %v", trend.Total, want)
	}
	if len(trend.Products) != 3 {
		t.Fatalf("产品序列数=%d, want 3", len(trend.Products))
	}
	for _, ps := range trend.Products {
		if len(ps.Installs) != 3 {
			t.Fatalf("产品 %s 序列长度=%d, 应与周期轴等长 3", ps.Name, len(ps.Installs))
		}
	}
	a3 := trend.Products[2]
	if a3.Name != "A3" || !equalSeries(a3.Installs, []float64{0, 0, 3}) {
		t.Fatalf("中途出现的产品应向前补 0, got %s=%v", a3.Name, a3.Installs)
	}
}

func TestProductTrendRegionsFromStrategy(t *testing.T) {
	src := newFakeSource()
	src.periods = []model.Period{w1, w2}
	src.formatted[w1.WeekTag] = weekSnap(model.Row{"Alpha", "Kingdom War", float64(10)})
	src.formatted[w2.WeekTag] = weekSnap(model.Row{"Alpha", "Kingdom War", float64(30)})
	src.strategy[w2.WeekTag+"/old"] = &model.Snapshot{
		Headers: []string{model.ColProduct, model.ColUnifiedID, model.ColRegionAsiaT1, model.ColRegionT3},
		Rows:    []model.Row{{"Kingdom War", "uid-kw", float64(7), "$1,000"}},
	}

	svc := metrics.NewService(src, nil)
	trend, err := svc.ProductTrendSeries(context.Background(), model.ProductIdentity{DisplayName: "kingdom-war", UnifiedID: "uid-kw"})
	if err != nil {
		t.Fatalf("ProductTrendSeries: %v", err)
	}
	if want := []float64{10, 30}; !equalSeries(trend.Installs, want) {
		t.Fatalf("Installs=%v, want %v", trend.Installs, want)
	}
	if want := []float64{0, 7}; !equalSeries(trend.Regions[model.ColRegionAsiaT1], want) {
		t.Fatalf("亚洲T1=%v, want %v", trend.Regions[model.ColRegionAsiaT1], want)
	}
	if want := []float64{0, 1000}; !equalSeries(trend.Regions[model.ColRegionT3], want) {
		t.Fatalf("T3=%v, want %v", trend.Regions[model.ColRegionT3], want)
	}
	if want := []float64{0, 0}; !equalSeries(trend.Regions[model.ColRegionEuT1], want) {
		t.Fatalf("策略表没有的地区列补 0, got %v", trend.Regions[model.ColRegionEuT1])
	}
}

func TestCreativeRegionsMergesAndDedupes(t *testing.T) {
	src := newFakeSource()
	src.creatives["KW_亚洲T1"] = []model.Creative{
		{URL: "https://cdn/a.mp4", FirstSeen: "2026-01-05", Share: 0.4, Region: "亚洲T1"},
		{URL: "https://cdn/a.mp4", FirstSeen: "2026-01-05", Share: 0.4, Region: "亚洲T1"}, // 地区内重复
	}
	src.creatives["KW_T2"] = []model.Creative{
		{URL: "https://cdn/b.mp4", FirstSeen: "2026-01-06", Share: 0.2, Region: "T2"},
	}
	// 欧美T1 与 T3 无数据文件: 不算失败

	svc := metrics.NewService(src, nil)
	out, err := svc.CreativeRegions(context.Background(), w3, "KW")
	if err != nil {
		t.Fatalf("CreativeRegions: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("素材数=%d, want 2（去重且空地区不报错）", len(out))
	}
	if out[0].Region != "亚洲T1" || out[1].Region != "T2" {
		t.Fatalf("合并应按固定地区顺序, got %s, %s", out[0].Region, out[1].Region)
	}
}

func TestCreativeRegionsRealFailureIsError(t *testing.T) {
	src := newFakeSource()
	src.creatives["KW_亚洲T1"] = []model.Creative{{URL: "https://cdn/a.mp4"}}
	src.creativeEr["KW_T2"] = errors.New("disk error")

	svc := metrics.NewService(src, nil)
	if _, err := svc.CreativeRegions(context.Background(), w3, "KW"); err == nil {
		t.Fatal("非 NotFound 的地区拉取失败应整体失败")
	}
}

func equalSeries(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
