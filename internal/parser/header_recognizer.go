package parser

// 输入布局固定：第一列为诊所名称，第二列为点击数
const (
	labelColumn = 0
	countColumn = 1
)

// HeaderRecognizer 表头识别器：列位置固定，表头只用于推断窗口天数和置信度
type HeaderRecognizer struct {
	labelPatterns []string
	countPatterns []string
}

// NewHeaderRecognizer 创建识别器
func NewHeaderRecognizer() *HeaderRecognizer {
	return &HeaderRecognizer{
		labelPatterns: []string{
			"^label$",
			"診所|诊所|clinic|hospital|名稱|名称|name",
		},
		countPatterns: []string{
			"click|點擊|点击|count|次數|次数",
		},
	}
}

// Recognize 识别表头
// 表头不足两列或第二列表头为空时返回 ok=false。
func (r *HeaderRecognizer) Recognize(headers []string) (HeaderRecognition, bool) {
	if len(headers) <= countColumn {
		return HeaderRecognition{}, false
	}

	labelHeader := NormalizeColumnName(headers[labelColumn])
	countHeader := NormalizeColumnName(headers[countColumn])
	if countHeader == "" {
		return HeaderRecognition{}, false
	}

	matched := 0
	if matchAny(labelHeader, r.labelPatterns) {
		matched++
	}
	if matchAny(countHeader, r.countPatterns) {
		matched++
	}

	result := HeaderRecognition{
		LabelIndex:  labelColumn,
		CountIndex:  countColumn,
		LabelHeader: headers[labelColumn],
		CountHeader: headers[countColumn],
		Confidence:  float64(matched) / 2,
	}
	if days, found := ExtractWindowDays(headers[countColumn]); found {
		result.WindowDays = days
	}
	return result, true
}

func matchAny(text string, patterns []string) bool {
	if text == "" {
		return false
	}
	for _, p := range patterns {
		if MatchPattern(text, p) {
			return true
		}
	}
	return false
}
