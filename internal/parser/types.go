package parser

// HeaderRecognition 表头识别结果
type HeaderRecognition struct {
	LabelIndex  int     `json:"labelIndex"`
	CountIndex  int     `json:"countIndex"`
	LabelHeader string  `json:"labelHeader"`
	CountHeader string  `json:"countHeader"`
	WindowDays  int     `json:"windowDays"` // 从点击列表头推断出的窗口天数，0 表示无法推断
	Confidence  float64 `json:"confidence"` // 置信度 0-1
}

// ReadOptions 读取选项
type ReadOptions struct {
	// SheetName 指定读取的工作表，为空时读取第一个
	SheetName string
}
