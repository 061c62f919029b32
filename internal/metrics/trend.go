package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"slgmonitor/internal/match"
	"slgmonitor/internal/model"
	"slgmonitor/internal/source"
)

// CompanyTrend 公司维度的周安装趋势：公司合计 + 名下各产品的对齐序列
type CompanyTrend struct {
	Periods  []model.Period  `json:"periods"`
	Total    []float64       `json:"total"`
	Products []ProductSeries `json:"products"`
}

// ProductSeries 单产品的周安装序列，与 Periods 等长对齐
type ProductSeries struct {
	Name     string    `json:"name"`
	Installs []float64 `json:"installs"`
}

// CompanyTrendSeries 按周期升序逐周拉取大盘表并累加公司当周安装。
// 单周拉取失败按 0 补位，不中断整条趋势；各产品序列与周期轴等长，
// 产品某周缺席同样补 0。
func (s *Service) CompanyTrendSeries(ctx context.Context, company string) (*CompanyTrend, error) {
	periods, err := s.src.PeriodIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取周索引失败: %w", err)
	}

	trend := &CompanyTrend{Periods: periods}
	seriesIndex := make(map[string]int)
	pad := func() {
		trend.Total = append(trend.Total, 0)
		for i := range trend.Products {
			trend.Products[i].Installs = append(trend.Products[i].Installs, 0)
		}
	}

	for _, p := range periods {
		pad()
		snap, err := s.src.Snapshot(ctx, p)
		if err != nil {
			continue
		}
		companyCol := snap.ColumnIndex(model.ColCompany)
		productCol := snap.ColumnIndex(model.ColProduct)
		installCol := snap.ColumnIndex(model.ColWeekInstall)
		if companyCol < 0 || installCol < 0 {
			continue
		}
		week := len(trend.Total) - 1
		for _, row := range snap.Rows {
			if !snap.IsEntityRow(row, companyCol) {
				continue
			}
			if model.CellString(model.CellAt(row, companyCol)) != company {
				continue
			}
			install := SumValue(model.CellAt(row, installCol))
			trend.Total[week] += install

			name := model.CellString(model.CellAt(row, productCol))
			if name == "" {
				continue
			}
			i, ok := seriesIndex[name]
			if !ok {
				i = len(trend.Products)
				seriesIndex[name] = i
				// 中途出现的产品，此前各周补 0 对齐
				trend.Products = append(trend.Products, ProductSeries{
					Name:     name,
					Installs: make([]float64, week+1),
				})
			}
			trend.Products[i].Installs[week] += install
		}
	}
	return trend, nil
}

// ProductTrend 产品维度趋势：周安装 + 四个市场地区的获量序列
type ProductTrend struct {
	Periods  []model.Period       `json:"periods"`
	Installs []float64            `json:"installs"`
	Regions  map[string][]float64 `json:"regions"`
}

// ProductTrendSeries 逐周取产品当周安装与各地区获量。周安装来自大盘表
// 按规整名精确对行；地区获量来自策略表，已解析身份按 ID 对行，
// 否则模糊对行，旧表优先于新表。
func (s *Service) ProductTrendSeries(ctx context.Context, identity model.ProductIdentity) (*ProductTrend, error) {
	periods, err := s.src.PeriodIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取周索引失败: %w", err)
	}

	regionCols := []string{
		model.ColRegionAsiaT1,
		model.ColRegionEuT1,
		model.ColRegionT2,
		model.ColRegionT3,
	}
	trend := &ProductTrend{
		Periods: periods,
		Regions: make(map[string][]float64, len(regionCols)),
	}

	for _, p := range periods {
		trend.Installs = append(trend.Installs, 0)
		for _, col := range regionCols {
			trend.Regions[col] = append(trend.Regions[col], 0)
		}
		week := len(trend.Installs) - 1

		if snap, err := s.src.Snapshot(ctx, p); err == nil {
			productCol := snap.ColumnIndex(model.ColProduct)
			installCol := snap.ColumnIndex(model.ColWeekInstall)
			if productCol >= 0 && installCol >= 0 {
				for _, row := range snap.Rows {
					if model.IsSummaryRow(row) {
						continue
					}
					if !match.Exact(identity.DisplayName, model.CellString(model.CellAt(row, productCol))) {
						continue
					}
					trend.Installs[week] = SumValue(model.CellAt(row, installCol))
					break
				}
			}
		}

		row, ok := s.strategyRow(ctx, p, &identity)
		if !ok {
			continue
		}
		headers, cells := row.headers, row.cells
		for _, col := range regionCols {
			for i, h := range headers {
				if h == col {
					trend.Regions[col][week] = SumValue(model.CellAt(cells, i))
					break
				}
			}
		}
	}
	return trend, nil
}

type strategyHit struct {
	headers []string
	cells   model.Row
}

// strategyRow 在某周期的策略表里定位产品行，旧表优先
func (s *Service) strategyRow(ctx context.Context, p model.Period, id *model.ProductIdentity) (strategyHit, bool) {
	for _, tag := range []model.SourceTable{model.SourceOld, model.SourceNew} {
		snap, err := s.src.StrategyTable(ctx, p, tag)
		if err != nil {
			continue
		}
		productCol := snap.ColumnIndex(model.ColProduct)
		idCol := snap.ColumnIndex(model.ColUnifiedID)
		for _, row := range snap.Rows {
			if model.IsSummaryRow(row) {
				continue
			}
			if id.Resolved() {
				if idCol < 0 || model.CellString(model.CellAt(row, idCol)) != id.UnifiedID {
					continue
				}
			} else {
				name := model.CellString(model.CellAt(row, productCol))
				if !match.Fuzzy(id.DisplayName, name, name) {
					continue
				}
			}
			return strategyHit{headers: snap.Headers, cells: row}, true
		}
	}
	return strategyHit{}, false
}

// CreativeRegions 并发拉取产品在四个地区的素材，全部返回后按固定
// 地区顺序合并去重。单个地区无数据不算失败；其余错误整体失败。
func (s *Service) CreativeRegions(ctx context.Context, p model.Period, product string) ([]model.Creative, error) {
	results := make([][]model.Creative, len(source.Regions))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, region := range source.Regions {
		i, region := i, region
		g.Go(func() error {
			set, err := s.src.CreativeSet(ctx, p, product, region)
			if err != nil {
				if errors.Is(err, source.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("地区 %s 素材拉取失败: %w", region, err)
			}
			mu.Lock()
			results[i] = set
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Creative
	seen := make(map[string]bool)
	for _, set := range results {
		for _, c := range set {
			key := fmt.Sprintf("%s|%s|%v|%s", c.URL, c.FirstSeen, c.Share, c.Region)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
	}
	return out, nil
}
