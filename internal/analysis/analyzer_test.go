package analysis

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidLanz/msdtools/internal/model"
	"github.com/DavidLanz/msdtools/internal/report"
)

func newTestAnalyzer() *Analyzer {
	fixed := time.Date(2025, 8, 15, 14, 30, 0, 0, time.Local)
	return NewAnalyzer(Options{
		Report: report.Options{Now: func() time.Time { return fixed }},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	week := workbookBytes(t, []interface{}{"label", "click_7days"},
		[]interface{}{"A", 10},
		[]interface{}{"B", 5},
	)
	fortnight := workbookBytes(t, []interface{}{"label", "click_14days"},
		[]interface{}{"A", 15},
		[]interface{}{"B", 5},
		[]interface{}{"C", 3},
	)

	var stages []ProgressEvent
	res, err := newTestAnalyzer().Run([]Input{
		{Name: "fortnight.xlsx", Reader: bytes.NewReader(fortnight)},
		{Name: "week.xlsx", Reader: bytes.NewReader(week)},
	}, func(p ProgressEvent) { stages = append(stages, p) })
	require.NoError(t, err)

	assert.Equal(t, "week.xlsx", res.SevenDay.Source)
	assert.Equal(t, "fortnight.xlsx", res.FourteenDay.Source)
	assert.Equal(t, "08.15-14.30-Lndata-MSD-comparison.xlsx", res.Artifact.FileName)
	assert.Equal(t, model.XLSXContentType, res.Artifact.ContentType)
	assert.Equal(t, 3, res.Artifact.RowCount)

	require.NotEmpty(t, stages)
	assert.Equal(t, 100, stages[len(stages)-1].Percent)

	f := openArtifact(t, res.Artifact)
	rows, err := f.GetRows("All_Clinics")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"B", "0", "5", "3", "2", "1"}, rows[1])
	assert.Equal(t, []string{"A", "5", "10", "1", "1", "0"}, rows[2])
	assert.Equal(t, []string{"C", "3", "0", "2", "3", "-1"}, rows[3])
}

func TestRun_RejectsWrongInputCount(t *testing.T) {
	t.Parallel()

	one := workbookBytes(t, []interface{}{"label", "clicks"}, []interface{}{"A", 1})
	for _, inputs := range [][]Input{
		nil,
		{{Name: "a.xlsx", Reader: bytes.NewReader(one)}},
		{{Name: "a.xlsx", Reader: bytes.NewReader(one)}, {Name: "b.xlsx", Reader: bytes.NewReader(one)}, {Name: "c.xlsx", Reader: bytes.NewReader(one)}},
	} {
		res, err := newTestAnalyzer().Run(inputs, nil)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, ErrInputCount))
	}
}

func TestRun_CountHeaderMentioningClinic(t *testing.T) {
	t.Parallel()

	week := workbookBytes(t, []interface{}{"Hospital", "Clinic clicks 7 days"},
		[]interface{}{"A", 10}, []interface{}{"B", 5})
	fortnight := workbookBytes(t, []interface{}{"Hospital", "Clinic clicks 14 days"},
		[]interface{}{"A", 15}, []interface{}{"B", 5})

	res, err := newTestAnalyzer().Run([]Input{
		{Name: "w.xlsx", Reader: bytes.NewReader(week)},
		{Name: "f.xlsx", Reader: bytes.NewReader(fortnight)},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "w.xlsx", res.SevenDay.Source)
	assert.Equal(t, "f.xlsx", res.FourteenDay.Source)

	rows := byLabel(res.Report.Rows)
	require.Len(t, rows, 2)
	assert.Equal(t, 5.0, rows["A"].ClickPrev7)
	assert.Equal(t, 0.0, rows["B"].ClickPrev7)
}

func TestRun_MissingSecondColumn(t *testing.T) {
	t.Parallel()

	good := workbookBytes(t, []interface{}{"label", "clicks"}, []interface{}{"A", 10})
	bad := workbookBytes(t, []interface{}{"label"}, []interface{}{"A"})

	res, err := newTestAnalyzer().Run([]Input{
		{Name: "good.xlsx", Reader: bytes.NewReader(good)},
		{Name: "bad.xlsx", Reader: bytes.NewReader(bad)},
	}, nil)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, KindParse, KindOf(err))
}

func TestRun_NotASpreadsheet(t *testing.T) {
	t.Parallel()

	good := workbookBytes(t, []interface{}{"label", "clicks"}, []interface{}{"A", 10})
	_, err := newTestAnalyzer().Run([]Input{
		{Name: "good.xlsx", Reader: bytes.NewReader(good)},
		{Name: "notes.txt", Reader: bytes.NewReader([]byte("hello"))},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, KindParse, KindOf(err))
}

func TestCompare_EmptyInputsProduceHeaderOnlyReport(t *testing.T) {
	t.Parallel()

	res, err := newTestAnalyzer().Compare(rawTable("a.xlsx"), rawTable("b.xlsx"))
	require.NoError(t, err)
	assert.Empty(t, res.Report.Rows)
	assert.Nil(t, res.Report.TopChangeValues)
	assert.Nil(t, res.Report.BottomChangeValues)

	f := openArtifact(t, res.Artifact)
	rows, err := f.GetRows("All_Clinics")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, report.DefaultHeaders[:], rows[0])

	formats, err := f.GetConditionalFormats("All_Clinics")
	require.NoError(t, err)
	assert.Empty(t, formats)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindAnalysis, KindOf(io.ErrUnexpectedEOF))
	assert.Equal(t, KindParse, KindOf(wrapAnalysis("x", &Error{Kind: KindParse, Op: "read"})))
	assert.Equal(t, KindAnalysis, KindOf(wrapAnalysis("x", io.EOF)))
	assert.Equal(t, "ClassificationError", KindClassification.String())
}
