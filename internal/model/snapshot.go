package model

import (
	"strconv"
	"strings"
)

// 周表固定列名约定：数据流水线产出的 JSON/Excel 均按这些列名查找，不按位置
const (
	ColCompany          = "公司归属"
	ColProduct          = "产品归属"
	ColUnifiedID        = "Unified ID"
	ColWeekInstall      = "当周周安装"
	ColInstallChange    = "周安装变动"
	ColRevenueChange    = "周流水变动"
	ColLaunch           = "第三方记录最早上线时间"
	ColAllTimeDownloads = "All Time Downloads (WW)"
	ColAllTimeRevenue   = "All Time Revenue (WW)"
)

// 产品策略表的四个市场地区获量列
const (
	ColRegionAsiaT1 = "亚洲 T1 市场获量"
	ColRegionEuT1   = "欧美 T1 市场获量"
	ColRegionT2     = "T2 市场获量"
	ColRegionT3     = "T3 市场获量"
)

// SummaryMarker 汇总行标记：首列包含该标记的行不参与实体级计算
const SummaryMarker = "汇总"

// Cell 表格单元格，JSON 数值反序列化为 float64，其余为 string
type Cell = any

// Row 一行单元格
type Row []Cell

// CellStyle 单元格样式（由流水线从 Excel 导出时保留）
type CellStyle struct {
	BgColor   string `json:"bg_color,omitempty"`
	FontColor string `json:"font_color,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
}

// Snapshot 一个周期的行式数据表（大盘表 / 累计指标表 / 策略表共用同一形状）
type Snapshot struct {
	Headers []string      `json:"headers"`
	Rows    []Row         `json:"rows"`
	Styles  [][]CellStyle `json:"styles,omitempty"`
}

// ColumnIndex 按列名查找列下标，找不到返回 -1
func (s *Snapshot) ColumnIndex(name string) int {
	if s == nil {
		return -1
	}
	for i, h := range s.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// CellString 单元格的去空格字符串形式，nil 返回空串
func CellString(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return trimFloat(v)
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	// JSON 数值统一是 float64，整数值不带小数点输出
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsSummaryRow 首列包含汇总标记的行为汇总行
func IsSummaryRow(row Row) bool {
	if len(row) == 0 {
		return false
	}
	return strings.Contains(CellString(row[0]), SummaryMarker)
}

// IsEntityRow 公司/产品列非空且非汇总行的行才是实体行
func (s *Snapshot) IsEntityRow(row Row, nameCol int) bool {
	if IsSummaryRow(row) {
		return false
	}
	if nameCol < 0 || nameCol >= len(row) {
		return false
	}
	return CellString(row[nameCol]) != ""
}

// CellAt 安全取值：越界返回 nil
func CellAt(row Row, col int) Cell {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}
