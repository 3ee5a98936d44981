package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DavidLanz/msdtools/internal/model"
	"github.com/DavidLanz/msdtools/internal/parser"
)

// DuplicatePolicy 单张表内重复标签的处理方式
type DuplicatePolicy string

const (
	DuplicateSum      DuplicatePolicy = "sum"    // 累加
	DuplicateLastWins DuplicatePolicy = "last"   // 后出现的值覆盖
	DuplicateReject   DuplicatePolicy = "reject" // 视为输入错误
)

// ParseDuplicatePolicy 解析配置中的策略名，空值为 sum
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicateSum, nil
	case DuplicateSum, DuplicateLastWins, DuplicateReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}

// Reconciler 按标签全外连接 7 天表与 14 天表
type Reconciler struct {
	policy DuplicatePolicy
}

// NewReconciler 创建合并器
func NewReconciler(policy DuplicatePolicy) *Reconciler {
	if policy == "" {
		policy = DuplicateSum
	}
	return &Reconciler{policy: policy}
}

// Reconcile 生成合并结果，每个标签恰好一行，按标签排序
func (r *Reconciler) Reconcile(pair model.ClassifiedPair) ([]model.ReconciledRow, error) {
	click7, err := r.collect(pair.SevenDay)
	if err != nil {
		return nil, err
	}
	click14, err := r.collect(pair.FourteenDay)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(click7)+len(click14))
	for label := range click7 {
		labels = append(labels, label)
	}
	for label := range click14 {
		if _, ok := click7[label]; !ok {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	rows := make([]model.ReconciledRow, 0, len(labels))
	for _, label := range labels {
		c7 := click7[label]
		c14 := click14[label]
		prev := c14 - c7
		if prev < 0 {
			prev = 0
		}
		rows = append(rows, model.ReconciledRow{
			Label:       label,
			Click7Days:  c7,
			Click14Days: c14,
			ClickPrev7:  prev,
		})
	}
	return rows, nil
}

// collect 将一张表归并为 label -> clicks
func (r *Reconciler) collect(t *model.RawTable) (map[string]float64, error) {
	out := make(map[string]float64, t.Len())
	if t == nil {
		return out, nil
	}
	for _, e := range t.Entries {
		v, err := parser.ParseCount(e.Count)
		if err != nil {
			return nil, newError(KindParse, "reconcile", "%s row %d: %v", t.Source, e.Row, err)
		}
		prev, seen := out[e.Label]
		switch {
		case !seen:
			out[e.Label] = v
		case r.policy == DuplicateReject:
			return nil, newError(KindParse, "reconcile", "%s row %d: duplicate label %q", t.Source, e.Row, e.Label)
		case r.policy == DuplicateLastWins:
			out[e.Label] = v
		default:
			out[e.Label] = prev + v
		}
	}
	return out, nil
}
