package metrics

import (
	"context"
	"errors"
	"fmt"
	"log"

	"slgmonitor/internal/match"
	"slgmonitor/internal/model"
	"slgmonitor/internal/resolve"
	"slgmonitor/internal/source"
)

// Service 详情看板的计算入口：身份解析、历史回溯、聚合与排名串在一起
type Service struct {
	src      source.Source
	resolver *resolve.Resolver
}

// NewService 创建看板计算服务
func NewService(src source.Source, resolver *resolve.Resolver) *Service {
	if resolver == nil {
		resolver = resolve.New(nil)
	}
	return &Service{src: src, resolver: resolver}
}

// usableMetrics 从最新周期起逐周回溯，返回第一张可用的累计指标表。
// 单周拉取失败或表不可用都继续向更早回溯；全部耗尽返回 (nil, nil, nil)，
// 属正常结果而非错误。周索引本身拉不到才算失败。
func (s *Service) usableMetrics(ctx context.Context) (*View, *model.Period, error) {
	periods, err := s.src.PeriodIndex(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("读取周索引失败: %w", err)
	}
	for _, p := range model.NewestFirst(periods) {
		snap, err := s.src.MetricsSnapshot(ctx, p)
		if err != nil {
			if !errors.Is(err, source.ErrNotFound) {
				log.Printf("周期 %s 累计表读取失败, 继续回溯: %v", p.WeekTag, err)
			}
			continue
		}
		if v := NewView(snap); v.Usable() {
			week := p
			return v, &week, nil
		}
	}
	return nil, nil, nil
}

// CompanyPanel 计算公司详细看板。大盘表取自 p，累计值与名次取自
// 历史回溯命中的周期；无可用累计表时聚合字段全部为 null，产品列表照常给出。
func (s *Service) CompanyPanel(ctx context.Context, p model.Period, company string) (*model.CompanyPanel, error) {
	snap, err := s.src.Snapshot(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("读取周期 %s 大盘表失败: %w", p.WeekTag, err)
	}

	panel := &model.CompanyPanel{
		CompanyAggregate: model.CompanyAggregate{CompanyName: company},
		Products:         companyProducts(snap, company),
	}

	groups := GroupByCompany(snap)
	var refs []ProductRef
	for _, g := range groups {
		if g.Name == company {
			refs = g.Products
			break
		}
	}

	view, week, err := s.usableMetrics(ctx)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return panel, nil
	}
	panel.MetricsPeriod = week

	install, revenue := view.SumCompany(refs)
	panel.SumInstall = &install
	panel.SumRevenue = &revenue

	cands := CompanyCandidates(groups, view)
	panel.RankByInstall, panel.RankByRevenue = CompanyRanks(cands, company)
	return panel, nil
}

// companyProducts 公司名下产品行：上线时间与周变动直接取大盘表字符串
func companyProducts(snap *model.Snapshot, company string) []model.CompanyProductRow {
	companyCol := snap.ColumnIndex(model.ColCompany)
	productCol := snap.ColumnIndex(model.ColProduct)
	launchCol := snap.ColumnIndex(model.ColLaunch)
	installCol := snap.ColumnIndex(model.ColInstallChange)
	revenueCol := snap.ColumnIndex(model.ColRevenueChange)

	var out []model.CompanyProductRow
	for _, row := range snap.Rows {
		if !snap.IsEntityRow(row, companyCol) {
			continue
		}
		if model.CellString(model.CellAt(row, companyCol)) != company {
			continue
		}
		name := model.CellString(model.CellAt(row, productCol))
		if name == "" {
			continue
		}
		out = append(out, model.CompanyProductRow{
			ProductName:   name,
			Launch:        model.CellString(model.CellAt(row, launchCol)),
			InstallChange: model.CellString(model.CellAt(row, installCol)),
			RevenueChange: model.CellString(model.CellAt(row, revenueCol)),
		})
	}
	return out
}

// ProductPanel 计算产品详细看板。先对身份做一次解析（幂等），再走
// 历史回溯取累计值与名次；公司与上线时间优先取累计表行，缺失时
// 从当周大盘表补齐。
func (s *Service) ProductPanel(ctx context.Context, p model.Period, identity model.ProductIdentity) (*model.ProductPanel, error) {
	var tables []resolve.CandidateTable
	for _, tag := range []model.SourceTable{model.SourceOld, model.SourceNew} {
		if t, err := s.src.StrategyTable(ctx, p, tag); err == nil {
			tables = append(tables, resolve.FromSnapshot(t, tag))
		}
	}
	formatted, err := s.src.Snapshot(ctx, p)
	if err == nil {
		tables = append(tables, resolve.FromSnapshot(formatted, model.SourceFormatted))
	}
	s.resolver.Resolve(&identity, tables)

	panel := &model.ProductPanel{Identity: identity}
	fillFromFormatted(panel, formatted)

	view, week, err := s.usableMetrics(ctx)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return panel, nil
	}
	panel.MetricsPeriod = week

	if row, ok := view.FindRow(&identity); ok {
		panel.Install = DisplayValue(view.Install(row))
		panel.Revenue = DisplayValue(view.Revenue(row))
		if c := model.CellString(model.CellAt(row, view.CompanyCol)); c != "" {
			panel.Company = c
		}
		if l := model.CellString(model.CellAt(row, view.LaunchCol)); l != "" {
			panel.Launch = l
		}
	}

	cands := ProductCandidates(view)
	panel.RankByInstall, panel.RankByRevenue = ProductRanks(cands, &identity)
	return panel, nil
}

// fillFromFormatted 用当周大盘表补公司/上线时间。已解析身份只按 ID
// 对行，未解析的按名称模糊对行。
func fillFromFormatted(panel *model.ProductPanel, snap *model.Snapshot) {
	if snap == nil {
		return
	}
	companyCol := snap.ColumnIndex(model.ColCompany)
	productCol := snap.ColumnIndex(model.ColProduct)
	idCol := snap.ColumnIndex(model.ColUnifiedID)
	launchCol := snap.ColumnIndex(model.ColLaunch)

	id := &panel.Identity
	for _, row := range snap.Rows {
		if model.IsSummaryRow(row) {
			continue
		}
		if id.Resolved() {
			if model.CellString(model.CellAt(row, idCol)) != id.UnifiedID {
				continue
			}
		} else {
			name := model.CellString(model.CellAt(row, productCol))
			if !match.Fuzzy(id.DisplayName, name, name) {
				continue
			}
		}
		if panel.Company == "" {
			panel.Company = model.CellString(model.CellAt(row, companyCol))
		}
		if panel.Launch == "" {
			panel.Launch = model.CellString(model.CellAt(row, launchCol))
		}
		return
	}
}
