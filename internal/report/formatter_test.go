package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/DavidLanz/msdtools/internal/model"
	"github.com/DavidLanz/msdtools/internal/report"
)

func rankedRow(label string, prev, cur float64, before, after int) model.RankedRow {
	return model.RankedRow{
		ReconciledRow: model.ReconciledRow{Label: label, ClickPrev7: prev, Click7Days: cur},
		RankBefore:    before,
		RankAfter:     after,
		RankChange:    before - after,
	}
}

func open(t *testing.T, a *model.Artifact) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(a.Data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestFileName(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 5, 9, 7, 0, 0, time.UTC)
	assert.Equal(t, "08.05-09.07-clinics-comparison.xlsx", report.FileName(now, "clinics"))
}

func TestHighlightFormula(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OR($F2=3,$F2=1,$F2=0)", report.HighlightFormula([]int{3, 1, 0}))
	assert.Equal(t, "OR($F2=-2)", report.HighlightFormula([]int{-2}))
	assert.Equal(t, "A2:F11", report.HighlightRange(10))
}

func TestFormat_ColumnsAndHighlights(t *testing.T) {
	t.Parallel()

	rep := model.Report{
		Rows: []model.RankedRow{
			rankedRow("甲診所", 1, 40, 4, 1),
			rankedRow("乙診所", 20, 30, 3, 2),
			rankedRow("丙診所", 40, 10, 1, 4),
			rankedRow("丁診所", 30, 20, 2, 3),
		},
		TopChangeValues:    []int{3, 1, -1},
		BottomChangeValues: []int{1, -1, -3},
	}
	// 按排名变化降序
	rep.Rows[2], rep.Rows[3] = rep.Rows[3], rep.Rows[2]

	fixed := time.Date(2025, 12, 31, 23, 59, 0, 0, time.Local)
	a, err := report.NewFormatter(report.Options{Dataset: "Lndata-MSD", Now: func() time.Time { return fixed }}).Format(rep)
	require.NoError(t, err)
	assert.Equal(t, "12.31-23.59-Lndata-MSD-comparison.xlsx", a.FileName)
	assert.Equal(t, model.XLSXContentType, a.ContentType)
	assert.Equal(t, 4, a.RowCount)

	f := open(t, a)
	assert.Equal(t, []string{report.DefaultSheetName}, f.GetSheetList())

	rows, err := f.GetRows(report.DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, report.DefaultHeaders[:], rows[0])
	assert.Equal(t, []string{"甲診所", "1", "40", "4", "1", "3"}, rows[1])
	assert.Equal(t, []string{"丙診所", "40", "10", "1", "4", "-3"}, rows[4])

	formats, err := f.GetConditionalFormats(report.DefaultSheetName)
	require.NoError(t, err)
	rules := formats["A2:F5"]
	require.Len(t, rules, 2)

	// bottom 规则排在前面，优先级更高
	assert.Equal(t, "formula", rules[0].Type)
	assert.Equal(t, "OR($F2=1,$F2=-1,$F2=-3)", rules[0].Criteria)
	assert.Equal(t, "OR($F2=3,$F2=1,$F2=-1)", rules[1].Criteria)

	require.NotNil(t, rules[0].Format)
	require.NotNil(t, rules[1].Format)
	assert.NotEqual(t, *rules[0].Format, *rules[1].Format)

	width, err := f.GetColWidth(report.DefaultSheetName, "A")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)
	width, err = f.GetColWidth(report.DefaultSheetName, "F")
	require.NoError(t, err)
	assert.Equal(t, 12.0, width)
}

func TestFormat_CustomHeadersAndSheet(t *testing.T) {
	t.Parallel()

	headers := [6]string{"Clinic", "Prev clicks", "Clicks", "Prev rank", "Rank", "Change"}
	a, err := report.NewFormatter(report.Options{SheetName: "Clinics", Headers: headers}).Format(model.Report{})
	require.NoError(t, err)
	assert.Equal(t, 0, a.RowCount)

	f := open(t, a)
	rows, err := f.GetRows("Clinics")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, headers[:], rows[0])
}
