package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"slgmonitor/internal/model"
)

var yearKeyRe = regexp.MustCompile(`^\d{4}$`)

// FileSource 读取流水线产出的 JSON 数据目录：
//
//	data/weeks_index.json
//	data/{year}/{week}_formatted.json
//	data/{year}/{week}/metrics_total.json
//	data/{year}/{week}/product_strategy_{old,new}.json
//	data/{year}/{week}/creative/{product}_{region}.json
type FileSource struct {
	baseDir      string
	indexTimeout time.Duration
}

// NewFileSource 创建文件数据源；indexTimeout <= 0 时不限制周索引读取时长
func NewFileSource(baseDir string, indexTimeout time.Duration) *FileSource {
	return &FileSource{baseDir: baseDir, indexTimeout: indexTimeout}
}

// weeksIndex weeks_index.json 的形状：年份键 → 周标签列表，外加 data_range 等附加键
type weeksIndex map[string]json.RawMessage

// PeriodIndex 解析周索引。仅年份形如 YYYY 的键参与；结果升序
func (s *FileSource) PeriodIndex(ctx context.Context) ([]model.Period, error) {
	if s.indexTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.indexTimeout)
		defer cancel()
	}

	data, err := s.readFile(ctx, filepath.Join(s.baseDir, "weeks_index.json"))
	if err != nil {
		return nil, err
	}

	var index weeksIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("解析周索引失败: %w", err)
	}

	var periods []model.Period
	for key, raw := range index {
		if !yearKeyRe.MatchString(key) {
			continue
		}
		var weeks []string
		if err := json.Unmarshal(raw, &weeks); err != nil {
			continue
		}
		year, _ := strconv.Atoi(key)
		for _, tag := range weeks {
			p := model.Period{Year: year, WeekTag: tag}
			if p.Valid() {
				periods = append(periods, p)
			}
		}
	}
	model.SortPeriods(periods)
	return periods, nil
}

// Snapshot 大盘表：data/{year}/{week}_formatted.json
func (s *FileSource) Snapshot(ctx context.Context, p model.Period) (*model.Snapshot, error) {
	path := filepath.Join(s.baseDir, fmt.Sprint(p.Year), p.WeekTag+"_formatted.json")
	return s.readSnapshot(ctx, path)
}

// MetricsSnapshot 累计指标表：data/{year}/{week}/metrics_total.json
func (s *FileSource) MetricsSnapshot(ctx context.Context, p model.Period) (*model.Snapshot, error) {
	path := filepath.Join(s.baseDir, fmt.Sprint(p.Year), p.WeekTag, "metrics_total.json")
	return s.readSnapshot(ctx, path)
}

// StrategyTable 产品策略表：data/{year}/{week}/product_strategy_{old,new}.json
func (s *FileSource) StrategyTable(ctx context.Context, p model.Period, tag model.SourceTable) (*model.Snapshot, error) {
	if tag != model.SourceOld && tag != model.SourceNew {
		return nil, fmt.Errorf("非策略表标签: %q", tag)
	}
	name := fmt.Sprintf("product_strategy_%s.json", tag)
	path := filepath.Join(s.baseDir, fmt.Sprint(p.Year), p.WeekTag, name)
	return s.readSnapshot(ctx, path)
}

// CreativeSet 某产品单个地区的素材：data/{year}/{week}/creative/{product}_{region}.json
func (s *FileSource) CreativeSet(ctx context.Context, p model.Period, product, region string) ([]model.Creative, error) {
	name := fmt.Sprintf("%s_%s.json", product, region)
	path := filepath.Join(s.baseDir, fmt.Sprint(p.Year), p.WeekTag, "creative", name)
	data, err := s.readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	var payload struct {
		AdUnits []struct {
			FirstSeen string           `json:"first_seen_at"`
			LastSeen  string           `json:"last_seen_at"`
			Share     float64          `json:"share"`
			Creatives []model.Creative `json:"creatives"`
		} `json:"ad_units"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("解析素材文件失败: %w", err)
	}
	var out []model.Creative
	for _, unit := range payload.AdUnits {
		for _, c := range unit.Creatives {
			c.FirstSeen = unit.FirstSeen
			c.LastSeen = unit.LastSeen
			c.Share = unit.Share
			c.Region = region
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *FileSource) readSnapshot(ctx context.Context, path string) (*model.Snapshot, error) {
	data, err := s.readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("解析快照 %s 失败: %w", filepath.Base(path), err)
	}
	return &snap, nil
}

func (s *FileSource) readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return nil, err
	}
	return data, nil
}
