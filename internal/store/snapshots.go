package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"slgmonitor/internal/model"
	"slgmonitor/internal/source"
)

// 快照种类，与数据目录里的文件名对应
const (
	KindFormatted   = "formatted"
	KindMetrics     = "metrics_total"
	KindStrategyOld = "strategy_old"
	KindStrategyNew = "strategy_new"
)

func creativeKind(product, region string) string {
	return fmt.Sprintf("creative/%s/%s", product, region)
}

func strategyKind(tag model.SourceTable) (string, error) {
	switch tag {
	case model.SourceOld:
		return KindStrategyOld, nil
	case model.SourceNew:
		return KindStrategyNew, nil
	}
	return "", fmt.Errorf("非策略表标签: %q", tag)
}

// SaveSnapshot 写入或覆盖一周某种表的快照
func (s *Store) SaveSnapshot(p model.Period, kind string, snap *model.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (snapshot_year, week_tag, kind, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(snapshot_year, week_tag, kind)
		DO UPDATE SET payload = excluded.payload, imported_at = CURRENT_TIMESTAMP
	`, p.Year, p.WeekTag, kind, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// SaveCreatives 写入或覆盖某产品单个地区的素材列表
func (s *Store) SaveCreatives(p model.Period, product, region string, set []model.Creative) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal creatives: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (snapshot_year, week_tag, kind, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(snapshot_year, week_tag, kind)
		DO UPDATE SET payload = excluded.payload, imported_at = CURRENT_TIMESTAMP
	`, p.Year, p.WeekTag, creativeKind(product, region), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save creatives: %w", err)
	}
	return nil
}

// LogImport 记录一次导入结果
func (s *Store) LogImport(fileName string, p model.Period, status, message string) error {
	_, err := s.db.Exec(`
		INSERT INTO import_log (file_name, snapshot_year, week_tag, status, message)
		VALUES (?, ?, ?, ?, ?)
	`, fileName, p.Year, p.WeekTag, status, message)
	if err != nil {
		return fmt.Errorf("failed to log import: %w", err)
	}
	return nil
}

// PeriodIndex 已导入大盘表的周期列表，升序
func (s *Store) PeriodIndex(ctx context.Context) ([]model.Period, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT snapshot_year, week_tag FROM snapshots WHERE kind = ?
	`, KindFormatted)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	var periods []model.Period
	for rows.Next() {
		var p model.Period
		if err := rows.Scan(&p.Year, &p.WeekTag); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		if p.Valid() {
			periods = append(periods, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	model.SortPeriods(periods)
	return periods, nil
}

// Snapshot 某周期的大盘表
func (s *Store) Snapshot(ctx context.Context, p model.Period) (*model.Snapshot, error) {
	return s.loadSnapshot(ctx, p, KindFormatted)
}

// MetricsSnapshot 某周期的累计指标表
func (s *Store) MetricsSnapshot(ctx context.Context, p model.Period) (*model.Snapshot, error) {
	return s.loadSnapshot(ctx, p, KindMetrics)
}

// StrategyTable 某周期的产品策略表
func (s *Store) StrategyTable(ctx context.Context, p model.Period, tag model.SourceTable) (*model.Snapshot, error) {
	kind, err := strategyKind(tag)
	if err != nil {
		return nil, err
	}
	return s.loadSnapshot(ctx, p, kind)
}

// CreativeSet 某产品单个地区的素材列表
func (s *Store) CreativeSet(ctx context.Context, p model.Period, product, region string) ([]model.Creative, error) {
	payload, err := s.loadPayload(ctx, p, creativeKind(product, region))
	if err != nil {
		return nil, err
	}
	var set []model.Creative
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal creatives: %w", err)
	}
	return set, nil
}

func (s *Store) loadSnapshot(ctx context.Context, p model.Period, kind string) (*model.Snapshot, error) {
	payload, err := s.loadPayload(ctx, p, kind)
	if err != nil {
		return nil, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Store) loadPayload(ctx context.Context, p model.Period, kind string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM snapshots WHERE snapshot_year = ? AND week_tag = ? AND kind = ?
	`, p.Year, p.WeekTag, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d/%s/%s", source.ErrNotFound, p.Year, p.WeekTag, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return []byte(payload), nil
}
