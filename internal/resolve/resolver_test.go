package resolve_test

import (
	"testing"

	"slgmonitor/internal/model"
	"slgmonitor/internal/resolve"
)

func table(tag model.SourceTable, rows ...model.Row) resolve.CandidateTable {
	return resolve.CandidateTable{
		Headers: []string{model.ColProduct, model.ColUnifiedID},
		Rows:    rows,
		Tag:     tag,
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	tables := []resolve.CandidateTable{
		table(model.SourceFormatted, model.Row{"Dragon Rise", "FMT-1"}),
		table(model.SourceNew, model.Row{"Dragon Rise", "NEW-1"}),
		table(model.SourceOld, model.Row{"Dragon Rise", "OLD-1"}),
	}
	id := &model.ProductIdentity{DisplayName: "Dragon: Rise"}
	resolve.New(nil).Resolve(id, tables)
	if id.UnifiedID != "OLD-1" {
		t.Fatalf("unifiedId=%q, want OLD-1（旧表优先）", id.UnifiedID)
	}
	if id.SourceTable != model.SourceOld {
		t.Fatalf("sourceTable=%q, want old", id.SourceTable)
	}
}

func TestResolveCustomPriority(t *testing.T) {
	tables := []resolve.CandidateTable{
		table(model.SourceOld, model.Row{"Dragon Rise", "OLD-1"}),
		table(model.SourceNew, model.Row{"Dragon Rise", "NEW-1"}),
	}
	r := resolve.New([]model.SourceTable{model.SourceNew, model.SourceOld})
	id := &model.ProductIdentity{DisplayName: "Dragon Rise"}
	r.Resolve(id, tables)
	if id.UnifiedID != "NEW-1" {
		t.Fatalf("unifiedId=%q, want NEW-1（配置优先级生效）", id.UnifiedID)
	}
}

func TestResolveExactBeforeFuzzy(t *testing.T) {
	// 模糊可命中首行（子串），但第二行精确命中应先胜出
	tables := []resolve.CandidateTable{
		table(model.SourceOld,
			model.Row{"Dragon Rise Legends", "FUZZY-1"},
			model.Row{"Dragon - Rise", "EXACT-1"},
		),
	}
	id := &model.ProductIdentity{DisplayName: "Dragon: Rise"}
	resolve.New(nil).Resolve(id, tables)
	if id.UnifiedID != "EXACT-1" {
		t.Fatalf("unifiedId=%q, want EXACT-1（先精确后模糊）", id.UnifiedID)
	}
}

func TestResolveFuzzyFirstRowWins(t *testing.T) {
	tables := []resolve.CandidateTable{
		table(model.SourceOld,
			model.Row{"Dragon Rise Legends", "F-1"},
			model.Row{"Dragon Rise Saga", "F-2"},
		),
	}
	id := &model.ProductIdentity{DisplayName: "Dragon"}
	resolve.New(nil).Resolve(id, tables)
	if id.UnifiedID != "F-1" {
		t.Fatalf("unifiedId=%q, want F-1（首行胜出，无置信度比较）", id.UnifiedID)
	}
}

func TestResolveIdempotent(t *testing.T) {
	tables := []resolve.CandidateTable{
		table(model.SourceOld, model.Row{"Dragon Rise", "OLD-1"}),
	}
	id := &model.ProductIdentity{DisplayName: "Dragon Rise", UnifiedID: "KEEP", SourceTable: model.SourceNew}
	resolve.New(nil).Resolve(id, tables)
	if id.UnifiedID != "KEEP" || id.SourceTable != model.SourceNew {
		t.Fatalf("已解析身份被改写: %+v", id)
	}
}

func TestResolveSkipsEmptyID(t *testing.T) {
	// 精确命中但 ID 为空的行不算命中，继续向后找
	tables := []resolve.CandidateTable{
		table(model.SourceOld,
			model.Row{"Dragon Rise", ""},
			model.Row{"Dragon Rise", "OLD-2"},
		),
	}
	id := &model.ProductIdentity{DisplayName: "Dragon Rise"}
	resolve.New(nil).Resolve(id, tables)
	if id.UnifiedID != "OLD-2" {
		t.Fatalf("unifiedId=%q, want OLD-2", id.UnifiedID)
	}
}

func TestResolveMissLeavesUnset(t *testing.T) {
	tables := []resolve.CandidateTable{
		table(model.SourceOld, model.Row{"完全无关", "X-1"}),
	}
	id := &model.ProductIdentity{DisplayName: "Dragon Rise"}
	resolve.New(nil).Resolve(id, tables)
	if id.UnifiedID != "" || id.SourceTable != "" {
		t.Fatalf("未命中时不应写入任何解析结果: %+v", id)
	}
}

func TestResolveDeterministic(t *testing.T) {
	tables := []resolve.CandidateTable{
		table(model.SourceNew, model.Row{"Dragon Rise", "NEW-1"}),
		table(model.SourceOld, model.Row{"Dragon Rise Legends", "OLD-1"}),
	}
	for i := 0; i < 5; i++ {
		id := &model.ProductIdentity{DisplayName: "Dragon Rise"}
		resolve.New(nil).Resolve(id, tables)
		if id.UnifiedID != "OLD-1" || id.SourceTable != model.SourceOld {
			t.Fatalf("第 %d 次解析结果不一致: %+v", i, id)
		}
	}
}
