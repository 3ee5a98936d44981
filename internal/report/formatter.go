package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/DavidLanz/msdtools/internal/model"
)

// DefaultHeaders 输出表头（依次：诊所名称、上周点击、本周点击、上周排名、本周排名、排名变化）
var DefaultHeaders = [6]string{"診所名稱", "上週點擊", "本週點擊", "上週排名", "本週排名", "排名變化"}

const (
	DefaultSheetName   = "All_Clinics"
	DefaultDataset     = "Lndata-MSD"
	DefaultTopColor    = "#FFFF00"
	DefaultBottomColor = "#FF0000"

	// changeColumn 排名变化所在列，条件格式公式引用该列
	changeColumn = "F"
	lastColumn   = "F"
)

// Options 输出选项
type Options struct {
	SheetName   string
	Dataset     string
	Headers     [6]string
	TopColor    string
	BottomColor string
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	if o.Dataset == "" {
		o.Dataset = DefaultDataset
	}
	for i, h := range o.Headers {
		if h == "" {
			o.Headers[i] = DefaultHeaders[i]
		}
	}
	if o.TopColor == "" {
		o.TopColor = DefaultTopColor
	}
	if o.BottomColor == "" {
		o.BottomColor = DefaultBottomColor
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Formatter Excel 报告生成器
type Formatter struct {
	opts Options
}

// NewFormatter 创建报告生成器
func NewFormatter(opts Options) *Formatter {
	return &Formatter{opts: opts.withDefaults()}
}

// FileName 生成带时间戳的文件名，格式 MM.DD-HH.MM-<dataset>-comparison.xlsx
func FileName(now time.Time, dataset string) string {
	return fmt.Sprintf("%s-%s-comparison.xlsx", now.Format("01.02-15.04"), dataset)
}

// HighlightFormula 生成条件格式公式，如 OR($F2=3,$F2=1)
func HighlightFormula(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = "$" + changeColumn + "2=" + strconv.Itoa(v)
	}
	return "OR(" + strings.Join(parts, ",") + ")"
}

// Format 将报告写入内存中的工作簿；无论成功与否工作簿都会被关闭
func (f *Formatter) Format(rep model.Report) (artifact *model.Artifact, err error) {
	wb := excelize.NewFile()
	defer func() {
		if cerr := wb.Close(); cerr != nil && err == nil {
			artifact, err = nil, fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	sheet := f.opts.SheetName
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.writeRows(wb, sheet, rep.Rows); err != nil {
		return nil, err
	}
	if err := f.applyHighlights(wb, sheet, len(rep.Rows), rep.TopChangeValues, rep.BottomChangeValues); err != nil {
		return nil, err
	}

	if err := wb.SetColWidth(sheet, "A", "A", 30); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := wb.SetColWidth(sheet, "B", lastColumn, 12); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &model.Artifact{
		FileName:    FileName(f.opts.Now(), f.opts.Dataset),
		ContentType: model.XLSXContentType,
		SheetName:   sheet,
		RowCount:    len(rep.Rows),
		Data:        buf.Bytes(),
	}, nil
}

func (f *Formatter) writeRows(wb *excelize.File, sheet string, rows []model.RankedRow) error {
	header := make([]interface{}, len(f.opts.Headers))
	for i, h := range f.opts.Headers {
		header[i] = h
	}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := wb.SetCellStyle(sheet, "A1", lastColumn+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			r.Label,
			r.ClickPrev7,
			r.Click7Days,
			r.RankBefore,
			r.RankAfter,
			r.RankChange,
		}
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

// applyHighlights 两条规则写在同一区域；bottom 规则优先级更高，
// 同一值同时命中两个集合时显示 bottom 颜色
func (f *Formatter) applyHighlights(wb *excelize.File, sheet string, n int, top, bottom []int) error {
	if n == 0 || (len(top) == 0 && len(bottom) == 0) {
		return nil
	}

	var opts []excelize.ConditionalFormatOptions
	if len(bottom) > 0 {
		style, err := wb.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{f.opts.BottomColor}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create bottom style: %w", err)
		}
		opts = append(opts, excelize.ConditionalFormatOptions{
			Type:     "formula",
			Criteria: HighlightFormula(bottom),
			Format:   &style,
		})
	}
	if len(top) > 0 {
		style, err := wb.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{f.opts.TopColor}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create top style: %w", err)
		}
		opts = append(opts, excelize.ConditionalFormatOptions{
			Type:     "formula",
			Criteria: HighlightFormula(top),
			Format:   &style,
		})
	}

	if err := wb.SetConditionalFormat(sheet, HighlightRange(n), opts); err != nil {
		return fmt.Errorf("failed to set conditional format: %w", err)
	}
	return nil
}

// HighlightRange 数据区域，如 A2:F11
func HighlightRange(rows int) string {
	return fmt.Sprintf("A2:%s%d", lastColumn, rows+1)
}
