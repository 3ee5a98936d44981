package analysis

// ProgressEvent 分析进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int
	Stage   string
}

// 各阶段的进度百分比
const (
	progressParsed     = 30
	progressClassified = 45
	progressReconciled = 60
	progressRanked     = 75
	progressFormatted  = 100
)

func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
	})
}
