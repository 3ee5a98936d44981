package analysis

import (
	"errors"
	"fmt"
)

// ErrorKind 分析失败的类别
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindInputCount 输入文件数量不是 2
	KindInputCount
	// KindParse 文件无法按表格读取，或缺少前两列
	KindParse
	// KindClassification 无法判断哪张表是 14 天窗口
	KindClassification
	// KindAnalysis 合并、排名、输出阶段的其它失败
	KindAnalysis
)

func (k ErrorKind) String() string {
	switch k {
	case KindInputCount:
		return "InputCountError"
	case KindParse:
		return "ParseError"
	case KindClassification:
		return "ClassificationError"
	case KindAnalysis:
		return "AnalysisError"
	default:
		return "UnknownError"
	}
}

// UserMessage 对最终用户只显示的统一失败提示
const UserMessage = "分析失敗：請確認上傳檔案是否正確"

// Error 带类别的分析错误
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同类别的 *Error 视为相等，便于 errors.Is(err, ErrParse)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// 哨兵错误，仅用于 errors.Is 比较类别
var (
	ErrInputCount     = &Error{Kind: KindInputCount}
	ErrParse          = &Error{Kind: KindParse}
	ErrClassification = &Error{Kind: KindClassification}
	ErrAnalysis       = &Error{Kind: KindAnalysis}
)

// newError 构造带类别的错误
func newError(kind ErrorKind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf 返回错误链上第一个 *Error 的类别；非分析错误归为 AnalysisError
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindAnalysis
}

// wrapAnalysis 保留已有类别，否则包装为 AnalysisError
func wrapAnalysis(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindAnalysis, Op: op, Err: err}
}
