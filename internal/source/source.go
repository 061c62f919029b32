// Package source 定义快照数据的获取能力。传输细节由具体实现承担，
// 核心只依赖本接口：表由表头列表 + 行列表构成，按列名取数。
package source

import (
	"context"
	"errors"

	"slgmonitor/internal/model"
)

// ErrNotFound 指定周期/实体没有对应数据文件或记录
var ErrNotFound = errors.New("snapshot not found")

// Regions 素材维度的四个市场地区，地区拉取可并发、渲染前合并
var Regions = []string{"亚洲T1", "欧美T1", "T2", "T3"}

// Source 快照数据源
type Source interface {
	// PeriodIndex 全部已知周期，按 SortKey 升序（最旧在前）。
	// 唯一带超时约束的调用：实现需尊重 ctx 取消。
	PeriodIndex(ctx context.Context) ([]model.Period, error)

	// Snapshot 某周期的大盘表（含样式）
	Snapshot(ctx context.Context, p model.Period) (*model.Snapshot, error)

	// MetricsSnapshot 某周期的累计指标表
	MetricsSnapshot(ctx context.Context, p model.Period) (*model.Snapshot, error)

	// StrategyTable 某周期的产品策略表（old/new）
	StrategyTable(ctx context.Context, p model.Period, tag model.SourceTable) (*model.Snapshot, error)

	// CreativeSet 某周期某产品在单个地区的素材列表
	CreativeSet(ctx context.Context, p model.Period, product, region string) ([]model.Creative, error)
}
