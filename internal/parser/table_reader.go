package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/DavidLanz/msdtools/internal/model"
)

// ErrMissingColumns 表头缺少标签列或点击列
var ErrMissingColumns = errors.New("header must provide label and click count columns")

// TableReader 点击数表读取器
type TableReader struct {
	recognizer *HeaderRecognizer
	opts       ReadOptions
}

// NewTableReader 创建读取器
func NewTableReader(opts ReadOptions) *TableReader {
	return &TableReader{
		recognizer: NewHeaderRecognizer(),
		opts:       opts,
	}
}

// Read 从上传内容读取表，name 仅用于标识来源
func (r *TableReader) Read(name string, reader io.Reader) (*model.RawTable, HeaderRecognition, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, HeaderRecognition{}, fmt.Errorf("failed to open excel %s: %w", name, err)
	}
	defer file.Close()

	return r.ReadWorkbook(name, file)
}

// ReadWorkbook 从已打开的工作簿读取表
func (r *TableReader) ReadWorkbook(name string, file *excelize.File) (*model.RawTable, HeaderRecognition, error) {
	sheet := r.opts.SheetName
	if sheet == "" {
		sheets := file.GetSheetList()
		if len(sheets) == 0 {
			return nil, HeaderRecognition{}, fmt.Errorf("%s: workbook has no sheets", name)
		}
		sheet = sheets[0]
	}

	// 使用原始值，避免数字格式（千分位、小数位）影响解析
	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, HeaderRecognition{}, fmt.Errorf("%s: failed to read sheet %q: %w", name, sheet, err)
	}
	if len(rows) == 0 {
		return nil, HeaderRecognition{}, fmt.Errorf("%s: sheet %q has no header row: %w", name, sheet, ErrMissingColumns)
	}

	recognition, ok := r.recognizer.Recognize(rows[0])
	if !ok {
		return nil, HeaderRecognition{}, fmt.Errorf("%s: sheet %q: %w", name, sheet, ErrMissingColumns)
	}

	table := &model.RawTable{
		Source:      name,
		SheetName:   sheet,
		LabelHeader: recognition.LabelHeader,
		CountHeader: recognition.CountHeader,
		Entries:     make([]model.Entry, 0, len(rows)-1),
	}

	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		entry := model.Entry{
			Row:   rowIdx + 1,
			Label: strings.TrimSpace(cellAt(row, recognition.LabelIndex)),
			Count: strings.TrimSpace(cellAt(row, recognition.CountIndex)),
		}
		if table.Comparator == nil && (entry.Label != "" || entry.Count != "") {
			first := entry
			table.Comparator = &first
		}
		if entry.Label == "" {
			continue // 跳过空行和无名称行
		}
		table.Entries = append(table.Entries, entry)
	}

	return table, recognition, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
