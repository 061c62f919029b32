package metrics

import (
	"slgmonitor/internal/match"
	"slgmonitor/internal/model"
)

// ColLaunchEn 部分周期的累计表用英文上线时间列名
const ColLaunchEn = "Earliest Release Date"

// View 累计指标表的按列视图，构造时一次性定位各列下标
type View struct {
	UnifiedCol int
	ProductCol int
	CompanyCol int
	InstallCol int
	RevenueCol int
	LaunchCol  int

	rows []model.Row
}

// NewView 包装累计指标表；snap 为 nil 时返回 nil
func NewView(snap *model.Snapshot) *View {
	if snap == nil {
		return nil
	}
	v := &View{
		UnifiedCol: snap.ColumnIndex(model.ColUnifiedID),
		ProductCol: snap.ColumnIndex(model.ColProduct),
		CompanyCol: snap.ColumnIndex(model.ColCompany),
		InstallCol: snap.ColumnIndex(model.ColAllTimeDownloads),
		RevenueCol: snap.ColumnIndex(model.ColAllTimeRevenue),
		LaunchCol:  snap.ColumnIndex(model.ColLaunch),
		rows:       snap.Rows,
	}
	if v.LaunchCol < 0 {
		v.LaunchCol = snap.ColumnIndex(ColLaunchEn)
	}
	return v
}

// Usable 可用于聚合/排名：有产品名列且安装/流水至少有一列。
// 不可用时历史回溯继续向更早的周期找。
func (v *View) Usable() bool {
	return v != nil && len(v.rows) > 0 && v.ProductCol >= 0 &&
		(v.InstallCol >= 0 || v.RevenueCol >= 0)
}

// FindRow 按身份定位指标行。已有统一 ID 时只做 ID 精确相等，
// 绝不回退名称匹配；未解析时按产品名精确匹配。
func (v *View) FindRow(id *model.ProductIdentity) (model.Row, bool) {
	if v == nil {
		return nil, false
	}
	if id.Resolved() {
		if v.UnifiedCol < 0 {
			return nil, false
		}
		for _, row := range v.rows {
			if model.CellString(model.CellAt(row, v.UnifiedCol)) == id.UnifiedID {
				return row, true
			}
		}
		return nil, false
	}
	if v.ProductCol < 0 || id.DisplayName == "" {
		return nil, false
	}
	for _, row := range v.rows {
		if match.Exact(id.DisplayName, model.CellString(model.CellAt(row, v.ProductCol))) {
			return row, true
		}
	}
	return nil, false
}

// Install 行的累计安装单元格
func (v *View) Install(row model.Row) model.Cell {
	return model.CellAt(row, v.InstallCol)
}

// Revenue 行的累计流水单元格
func (v *View) Revenue(row model.Row) model.Cell {
	return model.CellAt(row, v.RevenueCol)
}
