package analyzer

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrUnsupportedFileType = errors.New("仅支持PDF文件")
	ErrExtractTextFailed   = errors.New("提取简历文本失败")
	ErrEmptyText           = errors.New("未能从PDF中提取到文本")
	ErrAnalysisTimeout     = errors.New("叙事分析超时")
	ErrAllAnalysesFailed   = errors.New("所有叙事分析均未完成")
	ErrCacheFailed         = errors.New("报告缓存操作失败")
)

// AnalysisError 包含详细错误信息的自定义错误
type AnalysisError struct {
	RequestUUID string
	Op          string
	BaseErr     error
	Detail      string
}

func (e *AnalysisError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, UUID:%s): %s", e.BaseErr, e.Op, e.RequestUUID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, UUID:%s)", e.BaseErr, e.Op, e.RequestUUID)
}

func (e *AnalysisError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewUnsupportedFileError(uuid, detail string) error {
	return &AnalysisError{
		RequestUUID: uuid,
		Op:          "validate",
		BaseErr:     ErrUnsupportedFileType,
		Detail:      detail,
	}
}

// NewExtractError 保留底层提取错误，errors.Is可同时命中ErrExtractTextFailed与原始原因
func NewExtractError(uuid string, cause error) error {
	base := error(ErrExtractTextFailed)
	if cause != nil {
		base = fmt.Errorf("%w: %w", ErrExtractTextFailed, cause)
	}
	return &AnalysisError{
		RequestUUID: uuid,
		Op:          "extract",
		BaseErr:     base,
	}
}

func NewEmptyTextError(uuid string) error {
	return &AnalysisError{
		RequestUUID: uuid,
		Op:          "extract",
		BaseErr:     ErrEmptyText,
	}
}

func NewAnalysisTimeoutError(uuid, detail string) error {
	return &AnalysisError{
		RequestUUID: uuid,
		Op:          "analyze",
		BaseErr:     ErrAnalysisTimeout,
		Detail:      detail,
	}
}

func NewAllAnalysesFailedError(uuid, detail string) error {
	return &AnalysisError{
		RequestUUID: uuid,
		Op:          "analyze",
		BaseErr:     ErrAllAnalysesFailed,
		Detail:      detail,
	}
}
