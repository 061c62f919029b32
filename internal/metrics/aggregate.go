package metrics

import (
	"strings"

	"slgmonitor/internal/match"
	"slgmonitor/internal/model"
)

// ProductRef 大盘表里某公司名下的一个产品引用，可能带统一 ID
type ProductRef struct {
	Name      string
	UnifiedID string
}

// CompanyGroup 大盘表按公司归属分组后的一组产品，保留首次出现顺序
type CompanyGroup struct {
	Name     string
	Products []ProductRef
}

// GroupByCompany 把大盘表实体行按公司归属分组。汇总行与公司名含
// 汇总标记的行一律剔除；组顺序为公司在表中的首次出现顺序。
func GroupByCompany(snap *model.Snapshot) []CompanyGroup {
	if snap == nil {
		return nil
	}
	companyCol := snap.ColumnIndex(model.ColCompany)
	productCol := snap.ColumnIndex(model.ColProduct)
	idCol := snap.ColumnIndex(model.ColUnifiedID)
	if companyCol < 0 {
		return nil
	}

	var groups []CompanyGroup
	index := make(map[string]int)
	for _, row := range snap.Rows {
		if !snap.IsEntityRow(row, companyCol) {
			continue
		}
		company := model.CellString(model.CellAt(row, companyCol))
		if strings.Contains(company, model.SummaryMarker) {
			continue
		}
		i, ok := index[company]
		if !ok {
			i = len(groups)
			index[company] = i
			groups = append(groups, CompanyGroup{Name: company})
		}
		ref := ProductRef{
			Name:      model.CellString(model.CellAt(row, productCol)),
			UnifiedID: model.CellString(model.CellAt(row, idCol)),
		}
		if ref.Name == "" {
			continue
		}
		groups[i].Products = append(groups[i].Products, ref)
	}
	return groups
}

// lookupRef 在累计表中定位一个产品引用对应的行。
// 有 ID 时只做 ID 精确相等；无 ID 时只做名称精确匹配。累计值关系重大，
// 这里刻意不做模糊匹配，短名称的模糊命中宁缺毋错。
func (v *View) lookupRef(ref ProductRef) (model.Row, bool) {
	if ref.UnifiedID != "" {
		if v.UnifiedCol < 0 {
			return nil, false
		}
		for _, row := range v.rows {
			if model.CellString(model.CellAt(row, v.UnifiedCol)) == ref.UnifiedID {
				return row, true
			}
		}
		return nil, false
	}
	if v.ProductCol < 0 {
		return nil, false
	}
	for _, row := range v.rows {
		if match.Exact(ref.Name, model.CellString(model.CellAt(row, v.ProductCol))) {
			return row, true
		}
	}
	return nil, false
}

// SumCompany 对一组产品求累计安装/流水之和。未命中的产品按 0 计入，
// 命中但数值不可解析的也按 0 计入，保证求和总能得到数值。
func (v *View) SumCompany(refs []ProductRef) (sumInstall, sumRevenue float64) {
	for _, ref := range refs {
		row, ok := v.lookupRef(ref)
		if !ok {
			continue
		}
		sumInstall += SumValue(v.Install(row))
		sumRevenue += SumValue(v.Revenue(row))
	}
	return sumInstall, sumRevenue
}
