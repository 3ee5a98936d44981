package model

// Entry 原始表中的一行（标签 + 点击数原文）
type Entry struct {
	Row   int    `json:"row"`   // Excel 行号（从 1 开始，含表头）
	Label string `json:"label"` // 诊所名称
	Count string `json:"count"` // 第二列原始文本
}

// RawTable 单个上传文件解析出的表
type RawTable struct {
	Source      string  `json:"source"`      // 文件名
	SheetName   string  `json:"sheetName"`   // 读取的工作表
	LabelHeader string  `json:"labelHeader"` // 第一列表头
	CountHeader string  `json:"countHeader"` // 第二列表头
	Entries     []Entry `json:"entries"`

	// Comparator 第一条数据行（名称为空也保留），窗口判断用它的点击数
	Comparator *Entry `json:"comparator,omitempty"`
}

// Len 数据行数
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Entries)
}

// ClassifiedPair 已区分 7 天 / 14 天窗口的两张表
type ClassifiedPair struct {
	SevenDay    *RawTable
	FourteenDay *RawTable
}

// ReconciledRow 合并后的单个实体
type ReconciledRow struct {
	Label       string  `json:"label"`
	Click7Days  float64 `json:"click7days"`
	Click14Days float64 `json:"click14days"`
	ClickPrev7  float64 `json:"clickPrev7"`
}

// Highlight 行高亮类型
type Highlight string

const (
	HighlightNone   Highlight = ""
	HighlightTop    Highlight = "top"
	HighlightBottom Highlight = "bottom"
)

// RankedRow 带排名的实体
type RankedRow struct {
	ReconciledRow
	RankAfter  int       `json:"rankAfter"`
	RankBefore int       `json:"rankBefore"`
	RankChange int       `json:"rankChange"`
	Highlight  Highlight `json:"highlight,omitempty"`
}

// Report 排序后的结果与高亮集合
type Report struct {
	Rows               []RankedRow `json:"rows"`
	TopChangeValues    []int       `json:"topChangeValues"`
	BottomChangeValues []int       `json:"bottomChangeValues"`
	Summary            Summary     `json:"summary"`
}

// Summary 本次分析的汇总数字
type Summary struct {
	Rows             int     `json:"rows"`
	Improved         int     `json:"improved"`
	Declined         int     `json:"declined"`
	Unchanged        int     `json:"unchanged"`
	MeanChange       float64 `json:"meanChange"`
	MedianChange     float64 `json:"medianChange"`
	TotalClicks7Days float64 `json:"totalClicks7days"`
	TotalClicksPrev7 float64 `json:"totalClicksPrev7"`
}

// Artifact 生成的 Excel 文件（内存中）
type Artifact struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SheetName   string `json:"sheetName"`
	RowCount    int    `json:"rowCount"`
	Data        []byte `json:"-"`
}

// XLSXContentType Excel 下载的 MIME 类型
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
