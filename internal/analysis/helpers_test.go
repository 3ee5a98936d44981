package analysis

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/DavidLanz/msdtools/internal/model"
)

type kv struct {
	label string
	count string
}

func rawTable(source string, rows ...kv) *model.RawTable {
	t := &model.RawTable{
		Source:      source,
		SheetName:   "Sheet1",
		LabelHeader: "label",
		CountHeader: "clicks",
	}
	for i, r := range rows {
		t.Entries = append(t.Entries, model.Entry{Row: i + 2, Label: r.label, Count: r.count})
	}
	return t
}

// workbookBytes 构造一个内存中的 xlsx：第一行为表头
func workbookBytes(t *testing.T, header []interface{}, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+2), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func openArtifact(t *testing.T, a *model.Artifact) *excelize.File {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(a.Data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func byLabel(rows []model.RankedRow) map[string]model.RankedRow {
	out := make(map[string]model.RankedRow, len(rows))
	for _, r := range rows {
		out[r.Label] = r
	}
	return out
}
