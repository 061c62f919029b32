package importer

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"

	"slgmonitor/internal/model"
	"slgmonitor/internal/store"
)

// Importer Excel 工作簿导入器
type Importer struct {
	file *excelize.File
	name string
}

// New 创建导入器
func New() *Importer {
	return &Importer{}
}

// LoadFile 加载工作簿
func (im *Importer) LoadFile(name string, reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	im.file = file
	im.name = name
	return nil
}

// Close 释放工作簿
func (im *Importer) Close() error {
	if im.file == nil {
		return nil
	}
	return im.file.Close()
}

// Recognize 识别工作簿内每个 sheet 的表类型
func (im *Importer) Recognize() ([]Recognition, error) {
	if im.file == nil {
		return nil, errors.New("no file loaded")
	}
	var out []Recognition
	for _, name := range im.file.GetSheetList() {
		headers, err := headerRow(im.file, name)
		if err != nil {
			return nil, err
		}
		out = append(out, RecognizeSheet(name, headers))
	}
	return out, nil
}

// Snapshots 把识别出的各 sheet 转成快照，键为存储层的快照种类。
// 同类 sheet 出现多次时保留置信度更高的那个。
func (im *Importer) Snapshots() (map[string]*model.Snapshot, error) {
	recs, err := im.Recognize()
	if err != nil {
		return nil, err
	}

	kinds := map[SheetType]string{
		SheetFormatted:   store.KindFormatted,
		SheetMetrics:     store.KindMetrics,
		SheetStrategyOld: store.KindStrategyOld,
		SheetStrategyNew: store.KindStrategyNew,
	}

	out := make(map[string]*model.Snapshot)
	confidence := make(map[string]float64)
	for _, rec := range recs {
		kind, ok := kinds[rec.Type]
		if !ok {
			log.Printf("sheet %q 未识别, 跳过", rec.SheetName)
			continue
		}
		if rec.Confidence <= confidence[kind] {
			continue
		}
		snap, err := im.readSheet(rec.SheetName)
		if err != nil {
			return nil, fmt.Errorf("读取 sheet %q 失败: %w", rec.SheetName, err)
		}
		out[kind] = snap
		confidence[kind] = rec.Confidence
	}
	return out, nil
}

// ImportInto 把工作簿的全部可识别 sheet 写入存储并记导入日志
func (im *Importer) ImportInto(s *store.Store, p model.Period) error {
	snaps, err := im.Snapshots()
	if err != nil {
		s.LogImport(im.name, p, "failed", err.Error())
		return err
	}
	if len(snaps) == 0 {
		err := errors.New("工作簿内没有可识别的 sheet")
		s.LogImport(im.name, p, "failed", err.Error())
		return err
	}
	for kind, snap := range snaps {
		if err := s.SaveSnapshot(p, kind, snap); err != nil {
			s.LogImport(im.name, p, "failed", err.Error())
			return err
		}
	}
	return s.LogImport(im.name, p, "success", fmt.Sprintf("导入 %d 张表", len(snaps)))
}

// readSheet sheet → 快照：首行为表头，其余为数据行，逐格保留
// 背景色/字体色/加粗（汇总行与重点产品行的标注都在样式里）
func (im *Importer) readSheet(name string) (*model.Snapshot, error) {
	rows, err := im.file.GetRows(name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &model.Snapshot{}, nil
	}

	snap := &model.Snapshot{Headers: rows[0]}
	for i, cells := range rows[1:] {
		row := make(model.Row, len(cells))
		styles := make([]model.CellStyle, len(cells))
		for j, v := range cells {
			row[j] = v
			styles[j] = im.cellStyle(name, j, i+1)
		}
		snap.Rows = append(snap.Rows, row)
		snap.Styles = append(snap.Styles, styles)
	}
	return snap, nil
}

// cellStyle 读取单元格样式；任何一步失败都当作无样式
func (im *Importer) cellStyle(sheet string, col, row int) model.CellStyle {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return model.CellStyle{}
	}
	styleID, err := im.file.GetCellStyle(sheet, cell)
	if err != nil {
		return model.CellStyle{}
	}
	style, err := im.file.GetStyle(styleID)
	if err != nil || style == nil {
		return model.CellStyle{}
	}

	var out model.CellStyle
	if len(style.Fill.Color) > 0 {
		out.BgColor = style.Fill.Color[0]
	}
	if style.Font != nil {
		out.FontColor = style.Font.Color
		out.Bold = style.Font.Bold
	}
	return out
}

func headerRow(f *excelize.File, sheet string) ([]string, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, nil
	}
	return rows.Columns()
}
