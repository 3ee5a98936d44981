package analysis

import (
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/DavidLanz/msdtools/internal/model"
	"github.com/DavidLanz/msdtools/internal/parser"
	"github.com/DavidLanz/msdtools/internal/report"
)

// RequiredInputs 每次分析需要的输入文件数
const RequiredInputs = 2

// Input 一个上传的表格文件
type Input struct {
	Name   string
	Reader io.Reader
}

// Options 分析选项
type Options struct {
	DuplicatePolicy DuplicatePolicy
	HighlightCount  int
	Read            parser.ReadOptions
	Report          report.Options
}

// Result 一次分析的产物
type Result struct {
	SevenDay    *model.RawTable
	FourteenDay *model.RawTable
	Report      model.Report
	Artifact    *model.Artifact
}

// Analyzer 分类 → 合并 → 排名 → 输出 的顺序流水线，不保留跨调用状态
type Analyzer struct {
	reader     *parser.TableReader
	reconciler *Reconciler
	ranker     *Ranker
	formatter  *report.Formatter
	logger     *slog.Logger
}

// NewAnalyzer 创建分析器
func NewAnalyzer(opts Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		reader:     parser.NewTableReader(opts.Read),
		reconciler: NewReconciler(opts.DuplicatePolicy),
		ranker:     NewRanker(opts.HighlightCount),
		formatter:  report.NewFormatter(opts.Report),
		logger:     logger,
	}
}

// Run 读取恰好两个输入并生成报告
func (a *Analyzer) Run(inputs []Input, progress func(ProgressEvent)) (*Result, error) {
	if len(inputs) != RequiredInputs {
		return nil, newError(KindInputCount, "run", "expected %d inputs, got %d", RequiredInputs, len(inputs))
	}

	tables := make([]*model.RawTable, 0, RequiredInputs)
	hints := make(map[*model.RawTable]int, RequiredInputs)
	for _, in := range inputs {
		table, recognition, err := a.reader.Read(in.Name, in.Reader)
		if err != nil {
			return nil, &Error{Kind: KindParse, Op: "read", Err: err}
		}
		a.logger.Debug("input parsed",
			"source", in.Name,
			"sheet", table.SheetName,
			"rows", table.Len(),
			"count_header", table.CountHeader,
		)
		tables = append(tables, table)
		hints[table] = recognition.WindowDays
	}
	reportProgress(progress, progressParsed, "解析完成")

	result, err := a.compare(tables[0], tables[1], progress)
	if err != nil {
		return nil, err
	}

	// 表头里的天数只用于提示，窗口判断仍以数值为准
	if d7, d14 := hints[result.SevenDay], hints[result.FourteenDay]; d7 > 0 && d14 > 0 && d7 > d14 {
		a.logger.Warn("window classification disagrees with column headers",
			"seven_day_source", result.SevenDay.Source,
			"seven_day_header_days", d7,
			"fourteen_day_source", result.FourteenDay.Source,
			"fourteen_day_header_days", d14,
		)
	}
	return result, nil
}

// Compare 对两张已读取的表执行分析
func (a *Analyzer) Compare(first, second *model.RawTable) (*Result, error) {
	return a.compare(first, second, nil)
}

func (a *Analyzer) compare(first, second *model.RawTable, progress func(ProgressEvent)) (*Result, error) {
	start := time.Now()

	pair, err := Classify(first, second)
	if err != nil {
		return nil, err
	}
	reportProgress(progress, progressClassified, "窗口判斷完成")

	rows, err := a.reconciler.Reconcile(pair)
	if err != nil {
		return nil, wrapAnalysis("reconcile", err)
	}
	reportProgress(progress, progressReconciled, "資料合併完成")

	rep := a.ranker.Rank(rows)
	reportProgress(progress, progressRanked, "排名計算完成")

	artifact, err := a.formatter.Format(rep)
	if err != nil {
		return nil, wrapAnalysis("format", err)
	}
	reportProgress(progress, progressFormatted, "報表產生完成")

	a.logger.Info("comparison finished",
		"seven_day_source", pair.SevenDay.Source,
		"fourteen_day_source", pair.FourteenDay.Source,
		"rows", len(rep.Rows),
		"top", rep.TopChangeValues,
		"bottom", rep.BottomChangeValues,
		"size", humanize.Bytes(uint64(len(artifact.Data))),
		"elapsed", time.Since(start),
	)

	return &Result{
		SevenDay:    pair.SevenDay,
		FourteenDay: pair.FourteenDay,
		Report:      rep,
		Artifact:    artifact,
	}, nil
}
