package metrics

import (
	"sort"
	"strings"

	"slgmonitor/internal/match"
	"slgmonitor/internal/model"
)

// Candidate 参与排名的一个实体及其两项累计值
type Candidate struct {
	UnifiedID string
	Name      string
	Install   float64
	Revenue   float64
}

// ProductCandidates 从累计表构建产品排名候选集：
// 产品名为空的行剔除；按统一 ID（缺 ID 时按规整名）去重，保留首条。
func ProductCandidates(v *View) []Candidate {
	if !v.Usable() {
		return nil
	}
	var out []Candidate
	seen := make(map[string]bool)
	for _, row := range v.rows {
		if model.IsSummaryRow(row) {
			continue
		}
		name := model.CellString(model.CellAt(row, v.ProductCol))
		if name == "" {
			continue
		}
		id := model.CellString(model.CellAt(row, v.UnifiedCol))
		key := "id:" + id
		if id == "" {
			key = "name:" + match.Normalize(name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Candidate{
			UnifiedID: id,
			Name:      name,
			Install:   SumValue(v.Install(row)),
			Revenue:   SumValue(v.Revenue(row)),
		})
	}
	return out
}

// CompanyCandidates 公司排名候选集：先对每家公司做累计值预聚合，
// 再拿聚合值参与排名
func CompanyCandidates(groups []CompanyGroup, v *View) []Candidate {
	if !v.Usable() {
		return nil
	}
	out := make([]Candidate, 0, len(groups))
	for _, g := range groups {
		install, revenue := v.SumCompany(g.Products)
		out = append(out, Candidate{Name: g.Name, Install: install, Revenue: revenue})
	}
	return out
}

// rankOf 按指标降序稳定排序后返回首个命中目标的 1 基名次，无命中返回 nil
func rankOf(cands []Candidate, value func(Candidate) float64, isTarget func(Candidate) bool) *int {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return value(sorted[i]) > value(sorted[j])
	})
	for i, c := range sorted {
		if isTarget(c) {
			rank := i + 1
			return &rank
		}
	}
	return nil
}

func productTarget(id *model.ProductIdentity) func(Candidate) bool {
	if id.Resolved() {
		return func(c Candidate) bool { return c.UnifiedID == id.UnifiedID }
	}
	return func(c Candidate) bool { return match.Exact(id.DisplayName, c.Name) }
}

// ProductRanks 产品在安装/流水两个赛道上的名次。已解析的身份只按
// ID 对位，未解析的按名称精确对位；候选集中不存在则两项名次均为 nil
func ProductRanks(cands []Candidate, id *model.ProductIdentity) (byInstall, byRevenue *int) {
	target := productTarget(id)
	byInstall = rankOf(cands, func(c Candidate) float64 { return c.Install }, target)
	byRevenue = rankOf(cands, func(c Candidate) float64 { return c.Revenue }, target)
	return byInstall, byRevenue
}

// CompanyRanks 公司在安装/流水两个赛道上的名次，按去空格公司名对位
func CompanyRanks(cands []Candidate, company string) (byInstall, byRevenue *int) {
	want := strings.TrimSpace(company)
	target := func(c Candidate) bool { return strings.TrimSpace(c.Name) == want }
	byInstall = rankOf(cands, func(c Candidate) float64 { return c.Install }, target)
	byRevenue = rankOf(cands, func(c Candidate) float64 { return c.Revenue }, target)
	return byInstall, byRevenue
}
