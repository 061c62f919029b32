package model

// SourceTable 标识一次解析命中的来源表
type SourceTable string

const (
	SourceOld       SourceTable = "old"       // 旧产品策略表
	SourceNew       SourceTable = "new"       // 新产品策略表
	SourceFormatted SourceTable = "formatted" // 当周大盘表
)

// ProductIdentity 人工录入的产品标签及其解析结果。
// UnifiedID 一旦写入即为权威关联键：后续所有表内匹配只做 ID 精确相等，
// 不再回退到名称匹配，避免短名称模糊匹配造成的错配。
type ProductIdentity struct {
	DisplayName string      `json:"displayName"`
	UnifiedID   string      `json:"unifiedId,omitempty"`
	SourceTable SourceTable `json:"sourceTable,omitempty"`
}

// Resolved 是否已解析出统一 ID
func (p *ProductIdentity) Resolved() bool {
	return p != nil && p.UnifiedID != ""
}

// CompanyAggregate 公司维度聚合结果，派生值，只存在于会话缓存中
type CompanyAggregate struct {
	CompanyName   string   `json:"companyName"`
	SumInstall    *float64 `json:"sumInstall"`
	SumRevenue    *float64 `json:"sumRevenue"`
	RankByInstall *int     `json:"rankByInstall"`
	RankByRevenue *int     `json:"rankByRevenue"`
}

// CompanyProductRow 公司详情页的单个产品行
type CompanyProductRow struct {
	ProductName   string `json:"productName"`
	Launch        string `json:"launch,omitempty"`
	InstallChange string `json:"installChange,omitempty"`
	RevenueChange string `json:"revenueChange,omitempty"`
}

// CompanyPanel 公司详细看板：聚合 + 名下产品列表
type CompanyPanel struct {
	CompanyAggregate
	Products []CompanyProductRow `json:"products"`
	// MetricsPeriod 累计值实际取自哪个周期（历史回溯可能落在更早的周）；
	// 为 nil 表示全部历史都无可用累计表，聚合值一律为 null
	MetricsPeriod *Period `json:"metricsPeriod,omitempty"`
}

// ProductPanel 产品详细看板
type ProductPanel struct {
	Identity      ProductIdentity `json:"identity"`
	Company       string          `json:"company,omitempty"`
	Launch        string          `json:"launch,omitempty"`
	Install       *float64        `json:"install"`
	Revenue       *float64        `json:"revenue"`
	RankByInstall *int            `json:"rankByInstall"`
	RankByRevenue *int            `json:"rankByRevenue"`
	MetricsPeriod *Period         `json:"metricsPeriod,omitempty"`
}

// Creative 单条投放素材
type Creative struct {
	URL       string  `json:"creative_url"`
	FirstSeen string  `json:"first_seen_at,omitempty"`
	LastSeen  string  `json:"last_seen_at,omitempty"`
	Share     float64 `json:"share,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Duration  float64 `json:"video_duration,omitempty"`
	Region    string  `json:"region,omitempty"`
}
