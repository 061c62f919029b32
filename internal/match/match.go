// Package match 提供跨表产品/公司名称的规范化与匹配。
// 同一产品在各周表中常以不同标点/大小写录入（"Game: X" / "Game - X" / "GameX"），
// 模糊匹配只作为兜底；凡涉及累计安装/流水等易错配场景一律先精确匹配。
package match

import (
	"regexp"
	"strings"
)

var (
	sepRe = regexp.MustCompile(`[:\-_]\s*`)
	wsRe  = regexp.MustCompile(`\s+`)
)

// Normalize 去掉冒号/连字符/下划线及其后空白，压缩剩余空白为单个空格，
// 去首尾空白并转小写。空输入返回空串。幂等。
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = sepRe.ReplaceAllString(s, " ")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// Fuzzy 模糊匹配：规范化后任一子串包含或相等即命中。
// pending 规范化为空时恒为 false。容忍缩写/部分录入，短名称可能误命中，
// 因此只在精确匹配落空后使用。
func Fuzzy(pending, name, display string) bool {
	if pending == "" {
		return false
	}
	p := Normalize(pending)
	if p == "" {
		return false
	}
	n := Normalize(name)
	d := Normalize(display)
	return strings.Contains(p, n) || strings.Contains(p, d) ||
		strings.Contains(n, p) || strings.Contains(d, p) ||
		(n != "" && p == n) || (d != "" && p == d)
}

// Exact 精确匹配：规范化后完全一致且双方非空
func Exact(pending, name string) bool {
	if pending == "" || name == "" {
		return false
	}
	p := Normalize(pending)
	n := Normalize(name)
	return p != "" && n != "" && p == n
}
