package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/DavidLanz/msdtools/internal/model"
)

// DefaultHighlightCount 高亮的最大/最小排名变化值个数
const DefaultHighlightCount = 3

// Ranker 计算排名、排名变化与高亮集合
type Ranker struct {
	highlightCount int
}

// NewRanker 创建排名器，n<=0 时使用默认值 3
func NewRanker(n int) *Ranker {
	if n <= 0 {
		n = DefaultHighlightCount
	}
	return &Ranker{highlightCount: n}
}

// CompetitionRank 竞赛排名（min 法），降序
// 相同数值取同一名次，名次 = 1 + 严格大于该值的个数
func CompetitionRank(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] > values[order[j]]
	})

	ranks := make([]int, len(values))
	for pos, idx := range order {
		if pos > 0 && values[idx] == values[order[pos-1]] {
			ranks[idx] = ranks[order[pos-1]]
			continue
		}
		ranks[idx] = pos + 1
	}
	return ranks
}

// Rank 生成按排名变化降序排列的报告
func (r *Ranker) Rank(rows []model.ReconciledRow) model.Report {
	after := make([]float64, len(rows))
	before := make([]float64, len(rows))
	for i, row := range rows {
		after[i] = row.Click7Days
		before[i] = row.ClickPrev7
	}
	rankAfter := CompetitionRank(after)
	rankBefore := CompetitionRank(before)

	ranked := make([]model.RankedRow, len(rows))
	for i, row := range rows {
		ranked[i] = model.RankedRow{
			ReconciledRow: row,
			RankAfter:     rankAfter[i],
			RankBefore:    rankBefore[i],
			RankChange:    rankBefore[i] - rankAfter[i],
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankChange > ranked[j].RankChange
	})

	top, bottom := r.highlightValues(ranked)
	markHighlights(ranked, top, bottom)

	return model.Report{
		Rows:               ranked,
		TopChangeValues:    top,
		BottomChangeValues: bottom,
		Summary:            summarize(ranked),
	}
}

// highlightValues 取去重后的排名变化值（降序）的前 n 个与后 n 个
// 行已按排名变化降序排列
func (r *Ranker) highlightValues(rows []model.RankedRow) (top, bottom []int) {
	var distinct []int
	for i, row := range rows {
		if i == 0 || row.RankChange != rows[i-1].RankChange {
			distinct = append(distinct, row.RankChange)
		}
	}
	if len(distinct) == 0 {
		return nil, nil
	}

	n := r.highlightCount
	if n > len(distinct) {
		n = len(distinct)
	}
	top = append([]int(nil), distinct[:n]...)
	bottom = append([]int(nil), distinct[len(distinct)-n:]...)
	return top, bottom
}

// markHighlights 同时属于两个集合时以 bottom 为准（后应用的规则生效）
func markHighlights(rows []model.RankedRow, top, bottom []int) {
	topSet := make(map[int]struct{}, len(top))
	for _, v := range top {
		topSet[v] = struct{}{}
	}
	bottomSet := make(map[int]struct{}, len(bottom))
	for _, v := range bottom {
		bottomSet[v] = struct{}{}
	}
	for i := range rows {
		if _, ok := topSet[rows[i].RankChange]; ok {
			rows[i].Highlight = model.HighlightTop
		}
		if _, ok := bottomSet[rows[i].RankChange]; ok {
			rows[i].Highlight = model.HighlightBottom
		}
	}
}

func summarize(rows []model.RankedRow) model.Summary {
	s := model.Summary{Rows: len(rows)}
	if len(rows) == 0 {
		return s
	}

	changes := make(stats.Float64Data, len(rows))
	for i, row := range rows {
		changes[i] = float64(row.RankChange)
		s.TotalClicks7Days += row.Click7Days
		s.TotalClicksPrev7 += row.ClickPrev7
		switch {
		case row.RankChange > 0:
			s.Improved++
		case row.RankChange < 0:
			s.Declined++
		default:
			s.Unchanged++
		}
	}
	s.MeanChange, _ = changes.Mean()
	s.MedianChange, _ = changes.Median()
	return s
}
