// Package resolve 将人工录入的产品标签解析为统一 ID。
package resolve

import (
	"slgmonitor/internal/match"
	"slgmonitor/internal/model"
)

// CandidateTable 一张候选表及其来源标签
type CandidateTable struct {
	Headers []string
	Rows    []model.Row
	Tag     model.SourceTable
}

// DefaultPriority 候选表默认优先级：旧策略表 → 新策略表 → 当周大盘表。
// 该顺序沿用既有流水线的查找顺序，通过配置覆盖，不在代码里写死多处。
var DefaultPriority = []model.SourceTable{
	model.SourceOld,
	model.SourceNew,
	model.SourceFormatted,
}

// Resolver 身份解析器。表间按优先级、表内先精确后模糊，
// 第一个给出非空 ID 的行即胜出（贪心，不做置信度比较）。
type Resolver struct {
	priority []model.SourceTable
}

// New 创建解析器；priority 为空时使用 DefaultPriority
func New(priority []model.SourceTable) *Resolver {
	if len(priority) == 0 {
		priority = DefaultPriority
	}
	return &Resolver{priority: priority}
}

// Resolve 原地解析并返回同一对象。已有 UnifiedID 时不做任何事（幂等）。
// 全部候选表都未命中时 UnifiedID 保持为空：本次调用方回退名称匹配，
// 不会把"解析失败"记成永久状态。
func (r *Resolver) Resolve(identity *model.ProductIdentity, tables []CandidateTable) *model.ProductIdentity {
	if identity == nil || identity.Resolved() {
		return identity
	}
	for _, tag := range r.priority {
		for _, t := range tables {
			if t.Tag != tag {
				continue
			}
			if id, ok := lookupID(identity.DisplayName, t); ok {
				identity.UnifiedID = id
				identity.SourceTable = t.Tag
				return identity
			}
		}
	}
	return identity
}

// lookupID 表内两遍扫描：先精确后模糊，首个非空 ID 的行胜出
func lookupID(pending string, t CandidateTable) (string, bool) {
	productCol := columnIndex(t.Headers, model.ColProduct)
	idCol := columnIndex(t.Headers, model.ColUnifiedID)
	if productCol < 0 || idCol < 0 {
		return "", false
	}
	for _, row := range t.Rows {
		name := model.CellString(model.CellAt(row, productCol))
		if !match.Exact(pending, name) {
			continue
		}
		if id := model.CellString(model.CellAt(row, idCol)); id != "" {
			return id, true
		}
	}
	for _, row := range t.Rows {
		name := model.CellString(model.CellAt(row, productCol))
		if !match.Fuzzy(pending, name, name) {
			continue
		}
		if id := model.CellString(model.CellAt(row, idCol)); id != "" {
			return id, true
		}
	}
	return "", false
}

func columnIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// FromSnapshot 把快照包装成候选表
func FromSnapshot(s *model.Snapshot, tag model.SourceTable) CandidateTable {
	if s == nil {
		return CandidateTable{Tag: tag}
	}
	return CandidateTable{Headers: s.Headers, Rows: s.Rows, Tag: tag}
}
