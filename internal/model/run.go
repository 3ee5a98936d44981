package model

import "time"

// RunStatus 分析运行状态
type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusOK         RunStatus = "ok"
	RunStatusFailed     RunStatus = "failed"
)

// RunRecord 一次分析的运行日志（只记录元数据，不含点击数据）
type RunRecord struct {
	ID                string    `json:"id"`
	InputA            string    `json:"inputA"`
	InputB            string    `json:"inputB"`
	SevenDaySource    string    `json:"sevenDaySource"`
	FourteenDaySource string    `json:"fourteenDaySource"`
	Rows              int       `json:"rows"`
	FileName          string    `json:"fileName"`
	Status            RunStatus `json:"status"`
	ErrorKind         string    `json:"errorKind,omitempty"`
	DurationMS        int64     `json:"durationMs"`
	CreatedAt         time.Time `json:"createdAt"`
}
