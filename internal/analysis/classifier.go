package analysis

import (
	"strings"

	"github.com/DavidLanz/msdtools/internal/model"
	"github.com/DavidLanz/msdtools/internal/parser"
)

// Classify 判断两张表中哪张是 7 天窗口、哪张是 14 天窗口
//
// 比较两表第一条数据行（名称为空也算）第二列的数值，较大者为 14 天窗口（点击数随窗口长度单调累积）。
// 首行数值相同时依次比较点击总数、来源名称，保证交换输入顺序结果不变。
// 两表都没有数据行时按输入顺序返回；只有一表为空或首行数值无效时返回 ClassificationError。
func Classify(a, b *model.RawTable) (model.ClassifiedPair, error) {
	if a == nil || b == nil {
		return model.ClassifiedPair{}, newError(KindClassification, "classify", "missing input table")
	}
	if a.Len() == 0 && b.Len() == 0 {
		return model.ClassifiedPair{SevenDay: a, FourteenDay: b}, nil
	}
	if a.Len() == 0 || b.Len() == 0 {
		return model.ClassifiedPair{}, newError(KindClassification, "classify",
			"cannot compare windows: %q has %d rows, %q has %d rows", a.Source, a.Len(), b.Source, b.Len())
	}

	va, err := firstValue(a)
	if err != nil {
		return model.ClassifiedPair{}, err
	}
	vb, err := firstValue(b)
	if err != nil {
		return model.ClassifiedPair{}, err
	}

	if aIsLarger(a, b, va, vb) {
		return model.ClassifiedPair{SevenDay: b, FourteenDay: a}, nil
	}
	return model.ClassifiedPair{SevenDay: a, FourteenDay: b}, nil
}

func firstValue(t *model.RawTable) (float64, error) {
	first := t.Entries[0]
	if t.Comparator != nil {
		first = *t.Comparator
	}
	v, err := parser.ParseComparableCount(first.Count)
	if err != nil {
		return 0, newError(KindClassification, "classify", "%s row %d: %v", t.Source, first.Row, err)
	}
	return v, nil
}

func aIsLarger(a, b *model.RawTable, va, vb float64) bool {
	if va != vb {
		return va > vb
	}
	ta, tb := totalClicks(a), totalClicks(b)
	if ta != tb {
		return ta > tb
	}
	return strings.Compare(a.Source, b.Source) > 0
}

// totalClicks 无效单元格不计入，仅用于平局判断
func totalClicks(t *model.RawTable) float64 {
	var sum float64
	for _, e := range t.Entries {
		if v, err := parser.ParseCount(e.Count); err == nil {
			sum += v
		}
	}
	return sum
}
