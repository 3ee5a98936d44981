package runner

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DavidLanz/msdtools/internal/analysis"
	"github.com/DavidLanz/msdtools/internal/model"
)

// RunLog 运行日志存储
type RunLog interface {
	CreateRun(id, inputA, inputB string, createdAt time.Time) error
	FinishRun(rec model.RunRecord) error
}

// Runner 为每次分析分配运行 ID、记录日志并写运行记录
type Runner struct {
	analyzer *analysis.Analyzer
	runs     RunLog
	logger   *slog.Logger
	now      func() time.Time
}

// New 创建 Runner；runs 为 nil 时不记录运行日志
func New(analyzer *analysis.Analyzer, runs RunLog, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		analyzer: analyzer,
		runs:     runs,
		logger:   logger,
		now:      time.Now,
	}
}

// Run 执行一次分析
// 返回的错误保留具体类别供内部诊断；对外展示时应只使用 analysis.UserMessage
func (r *Runner) Run(inputs []analysis.Input, progress func(analysis.ProgressEvent)) (string, *analysis.Result, error) {
	id := uuid.New().String()
	start := r.now()
	logger := r.logger.With("run_id", id)

	var inputA, inputB string
	if len(inputs) > 0 {
		inputA = inputs[0].Name
	}
	if len(inputs) > 1 {
		inputB = inputs[1].Name
	}

	if r.runs != nil {
		if err := r.runs.CreateRun(id, inputA, inputB, start); err != nil {
			logger.Warn("failed to create run record", "error", err)
		}
	}

	res, err := r.analyzer.Run(inputs, progress)
	elapsed := r.now().Sub(start)

	rec := model.RunRecord{
		ID:         id,
		InputA:     inputA,
		InputB:     inputB,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  start,
	}
	if err != nil {
		kind := analysis.KindOf(err)
		rec.Status = model.RunStatusFailed
		rec.ErrorKind = kind.String()
		logger.Error("comparison failed", "kind", kind.String(), "inputs", len(inputs), "error", err)
	} else {
		rec.Status = model.RunStatusOK
		rec.SevenDaySource = res.SevenDay.Source
		rec.FourteenDaySource = res.FourteenDay.Source
		rec.Rows = len(res.Report.Rows)
		rec.FileName = res.Artifact.FileName
	}

	if r.runs != nil {
		if ferr := r.runs.FinishRun(rec); ferr != nil {
			logger.Warn("failed to finish run record", "error", ferr)
		}
	}

	return id, res, err
}
