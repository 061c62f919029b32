package model

// Dimension 看板维度，导航 hash 的唯一取值域
type Dimension string

const (
	DimCompany       Dimension = "company"
	DimCompanyDetail Dimension = "company-detail"
	DimProduct       Dimension = "product"
	DimProductDetail Dimension = "product-detail"
	DimCreative      Dimension = "creative"
	DimCombo         Dimension = "combo"
	DimBaseTable     Dimension = "basetable"
	DimMaintenance   Dimension = "maintenance"
	DimApproval      Dimension = "approval"
	DimAdvancedQuery Dimension = "advanced_query"
)

// KnownDimension 是否为合法维度
func KnownDimension(d Dimension) bool {
	switch d {
	case DimCompany, DimCompanyDetail, DimProduct, DimProductDetail,
		DimCreative, DimCombo, DimBaseTable, DimMaintenance,
		DimApproval, DimAdvancedQuery:
		return true
	}
	return false
}

// Privileged 维度是否需要提权会话
func (d Dimension) Privileged() bool {
	switch d {
	case DimMaintenance, DimApproval, DimAdvancedQuery:
		return true
	}
	return false
}

// RouteState 当前展示状态。不可变值：每次转移产生新的 RouteState，
// 不存在可被两处代码同时改写的全局选中项。
type RouteState struct {
	Dimension       Dimension        `json:"dimension"`
	SubTab          string           `json:"subTab,omitempty"`
	Period          *Period          `json:"period,omitempty"`
	SelectedCompany string           `json:"selectedCompany,omitempty"`
	SelectedProduct *ProductIdentity `json:"selectedProduct,omitempty"`
	// Epoch 每次转移自增；晚到的数据响应携带旧 Epoch 时直接丢弃，
	// 不渲染进已经切走的面板
	Epoch int `json:"epoch"`
}
