// Package importer 读取周度导出工作簿，识别各 sheet 的表类型并转成快照。
package importer

import (
	"strings"

	"slgmonitor/internal/model"
)

// SheetType 工作簿里一个 sheet 的表类型
type SheetType string

const (
	SheetFormatted   SheetType = "formatted"    // 当周大盘表
	SheetMetrics     SheetType = "metrics"      // 累计指标表
	SheetStrategyOld SheetType = "strategy_old" // 旧产品策略表
	SheetStrategyNew SheetType = "strategy_new" // 新产品策略表
	SheetUnknown     SheetType = "unknown"
)

// Recognition 单个 sheet 的识别结果
type Recognition struct {
	SheetName  string    `json:"sheetName"`
	Type       SheetType `json:"type"`
	Confidence float64   `json:"confidence"`
}

type sheetRule struct {
	Type SheetType
	// Required 必须出现的列名；命中比例即置信度基础分
	Required []string
	// NameBoost sheet 名包含任一关键字时加分
	NameBoost []string
}

var sheetRules = []sheetRule{
	{
		Type:      SheetMetrics,
		Required:  []string{model.ColProduct, model.ColUnifiedID, model.ColAllTimeDownloads, model.ColAllTimeRevenue},
		NameBoost: []string{"累计", "metrics", "total"},
	},
	{
		Type:      SheetFormatted,
		Required:  []string{model.ColCompany, model.ColProduct, model.ColWeekInstall},
		NameBoost: []string{"大盘", "formatted", "周报"},
	},
	{
		Type:      SheetStrategyOld,
		Required:  []string{model.ColProduct, model.ColRegionAsiaT1, model.ColRegionEuT1},
		NameBoost: []string{"旧", "老产品"},
	},
	{
		Type:      SheetStrategyNew,
		Required:  []string{model.ColProduct, model.ColRegionAsiaT1, model.ColRegionEuT1},
		NameBoost: []string{"新产品", "新品"},
	},
}

// RecognizeSheet 按表头识别 sheet 类型。列名命中比例为基础分，
// sheet 名关键字额外加 0.2；最高分低于 0.5 判为 unknown。
func RecognizeSheet(sheetName string, headers []string) Recognition {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	best := Recognition{SheetName: sheetName, Type: SheetUnknown}
	for _, rule := range sheetRules {
		hit := 0
		for _, col := range rule.Required {
			if present[col] {
				hit++
			}
		}
		score := float64(hit) / float64(len(rule.Required))
		for _, kw := range rule.NameBoost {
			if strings.Contains(sheetName, kw) {
				score += 0.2
				break
			}
		}
		if score > best.Confidence {
			best.Type = rule.Type
			best.Confidence = score
		}
	}
	if best.Confidence < 0.5 {
		best.Type = SheetUnknown
	}
	return best
}
