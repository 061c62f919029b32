package model

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var weekTagRe = regexp.MustCompile(`^(\d{2})(\d{2})-(\d{2})(\d{2})$`)

// Period 看板时间切片：年份 + MMDD-MMDD 周标签
type Period struct {
	Year    int    `json:"year"`
	WeekTag string `json:"weekTag"`
}

// ParseWeekTag 校验周标签格式 MMDD-MMDD
func ParseWeekTag(tag string) (Period, error) {
	if !weekTagRe.MatchString(tag) {
		return Period{}, fmt.Errorf("非法周标签: %q", tag)
	}
	return Period{WeekTag: tag}, nil
}

// Valid 周期是否完整可用
func (p Period) Valid() bool {
	return p.Year > 0 && weekTagRe.MatchString(p.WeekTag)
}

// SortKey 确定性排序键：year*10000 + 起始月*100 + 起始日
// 跨周期比较只依赖该键，与文件到达顺序无关
func (p Period) SortKey() int {
	m := 0
	d := 0
	if len(p.WeekTag) >= 4 {
		m, _ = strconv.Atoi(p.WeekTag[0:2])
		d, _ = strconv.Atoi(p.WeekTag[2:4])
	}
	return p.Year*10000 + m*100 + d
}

func (p Period) String() string {
	return fmt.Sprintf("%d/%s", p.Year, p.WeekTag)
}

// SortPeriods 按 SortKey 升序（最旧在前）；趋势序列依赖该顺序
func SortPeriods(periods []Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].SortKey() < periods[j].SortKey()
	})
}

// NewestFirst 返回按 SortKey 降序的副本，用于历史回溯
func NewestFirst(periods []Period) []Period {
	out := make([]Period, len(periods))
	copy(out, periods)
	SortPeriods(out)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
