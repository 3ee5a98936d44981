package runner

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/DavidLanz/msdtools/internal/analysis"
	"github.com/DavidLanz/msdtools/internal/model"
)

type fakeRunLog struct {
	mu       sync.Mutex
	created  []string
	finished []model.RunRecord
}

func (f *fakeRunLog) CreateRun(id, inputA, inputB string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, id)
	return nil
}

func (f *fakeRunLog) FinishRun(rec model.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, rec)
	return nil
}

func xlsx(t *testing.T, header string, rows map[string]int) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"label", header}))
	i := 2
	for label, v := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &[]interface{}{label, v}))
		i++
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newRunner(log RunLog) *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(analysis.NewAnalyzer(analysis.Options{}, logger), log, logger)
}

func TestRunner_RecordsSuccess(t *testing.T) {
	t.Parallel()

	log := &fakeRunLog{}
	week := xlsx(t, "click_7days", map[string]int{"A": 10})
	fortnight := xlsx(t, "click_14days", map[string]int{"A": 30})

	id, res, err := newRunner(log).Run([]analysis.Input{
		{Name: "week.xlsx", Reader: bytes.NewReader(week)},
		{Name: "fortnight.xlsx", Reader: bytes.NewReader(fortnight)},
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Equal(t, []string{id}, log.created)
	require.Len(t, log.finished, 1)
	rec := log.finished[0]
	assert.Equal(t, model.RunStatusOK, rec.Status)
	assert.Equal(t, "week.xlsx", rec.SevenDaySource)
	assert.Equal(t, "fortnight.xlsx", rec.FourteenDaySource)
	assert.Equal(t, 1, rec.Rows)
	assert.Equal(t, res.Artifact.FileName, rec.FileName)
}

func TestRunner_RecordsFailureKind(t *testing.T) {
	t.Parallel()

	log := &fakeRunLog{}
	_, res, err := newRunner(log).Run([]analysis.Input{
		{Name: "only.xlsx", Reader: bytes.NewReader(nil)},
	}, nil)
	require.Error(t, err)
	assert.Nil(t, res)

	require.Len(t, log.finished, 1)
	assert.Equal(t, model.RunStatusFailed, log.finished[0].Status)
	assert.Equal(t, "InputCountError", log.finished[0].ErrorKind)
}

func TestRunner_WithoutRunLog(t *testing.T) {
	t.Parallel()

	id, _, err := newRunner(nil).Run(nil, nil)
	require.Error(t, err)
	assert.NotEmpty(t, id)
}
