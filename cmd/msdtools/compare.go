package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/DavidLanz/msdtools/internal/analysis"
)

func compareCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "compare <報表A.xlsx> <報表B.xlsx>",
		Short: "比較兩份點擊報表並輸出 Excel",
		Long:  "兩份報表順序不限：數值較大者視為 14 天報表。",
		Args:  cobra.ExactArgs(analysis.RequiredInputs),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]analysis.Input, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				inputs = append(inputs, analysis.Input{
					Name:   filepath.Base(path),
					Reader: bytes.NewReader(data),
				})
			}

			st, err := openRunLog(cfg)
			if err != nil {
				logger.Warn("run log disabled", "error", err)
				st = nil
			}
			if st != nil {
				defer st.Close()
			}

			runID, res, err := newRunner(cfg, st).Run(inputs, nil)
			if err != nil {
				// 具体原因已记录在日志中
				return fmt.Errorf("%s (run %s)", analysis.UserMessage, runID)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			target := filepath.Join(outDir, res.Artifact.FileName)
			if err := os.WriteFile(target, res.Artifact.Data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}

			printSummary(cmd.OutOrStdout(), res, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "輸出目錄")
	return cmd
}

func printSummary(w io.Writer, res *analysis.Result, target string) {
	s := res.Report.Summary
	fmt.Fprintf(w, "7 天報表:  %s\n", res.SevenDay.Source)
	fmt.Fprintf(w, "14 天報表: %s\n", res.FourteenDay.Source)
	fmt.Fprintf(w, "輸出檔案:  %s (%s)\n", target, humanize.Bytes(uint64(len(res.Artifact.Data))))
	fmt.Fprintf(w, "診所數 %s，上升 %d，下降 %d，持平 %d\n",
		humanize.Comma(int64(s.Rows)), s.Improved, s.Declined, s.Unchanged)
	fmt.Fprintf(w, "名次變化 平均 %.2f，中位數 %.1f\n", s.MeanChange, s.MedianChange)
	fmt.Fprintf(w, "本週點擊 %s，上週點擊 %s\n",
		humanize.Commaf(s.TotalClicks7Days), humanize.Commaf(s.TotalClicksPrev7))
	fmt.Fprintf(w, "前段高亮 %s，後段高亮 %s\n",
		formatChanges(res.Report.TopChangeValues), formatChanges(res.Report.BottomChangeValues))
}

func formatChanges(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	var b bytes.Buffer
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%+d", v)
	}
	return b.String()
}
