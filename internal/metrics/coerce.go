// Package metrics 基于累计指标表做求和聚合与赛道排名。
package metrics

import (
	"strconv"
	"strings"

	"slgmonitor/internal/model"
)

var moneyStripper = strings.NewReplacer("$", "", ",", "")

// Number 把单元格转成数值：JSON 数值直接用，字符串去掉 $ 与千分位后解析。
// 解析失败或空值返回 ok=false。
func Number(c model.Cell) (float64, bool) {
	switch v := c.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.TrimSpace(moneyStripper.Replace(v))
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// SumValue 求和口径：解析失败按 0 计入，不中断求和
func SumValue(c model.Cell) float64 {
	n, _ := Number(c)
	return n
}

// DisplayValue 单值展示口径：解析失败/缺失为"无数据"(nil)，与计算出的 0 严格区分
func DisplayValue(c model.Cell) *float64 {
	n, ok := Number(c)
	if !ok {
		return nil
	}
	return &n
}
