package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	windowDaysRe  = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:days?|天|日)`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	errEmptyCount = errors.New("empty count")
)

// ExtractWindowDays 从列名中提取统计窗口天数
// 支持格式: "click_14days" / "14天點擊" / "近 7 日"
func ExtractWindowDays(text string) (days int, found bool) {
	matches := windowDaysRe.FindStringSubmatch(text)
	if len(matches) < 2 {
		return 0, false
	}
	days, err := strconv.Atoi(matches[1])
	if err != nil || days == 0 {
		return 0, false
	}
	return days, true
}

// NormalizeColumnName 规范化列名，去除空白并转小写
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = whitespaceRe.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

// MatchPattern 列名是否匹配正则（"a|b" 形式的候选）
func MatchPattern(text, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// ParseCount 解析点击数单元格
// 空单元格按 0 处理；千分位会被移除；负数、NaN 视为无效
func ParseCount(raw string) (float64, error) {
	v, err := parseNumber(raw)
	if errors.Is(err, errEmptyCount) {
		return 0, nil
	}
	return v, err
}

// ParseComparableCount 与 ParseCount 相同，但空单元格视为无效
// 用于窗口判断：空值无法参与比较
func ParseComparableCount(raw string) (float64, error) {
	return parseNumber(raw)
}

func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "") // 移除千分位
	if s == "" {
		return 0, errEmptyCount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count: %q", raw)
	}
	return v, nil
}
