package analyzer

import (
	"context"
	"io"

	"resume-analyzer-go/internal/types"
)

//
// PDF解析相关接口
//

// TextExtractor PDF文本提取接口
type TextExtractor interface {
	// ExtractFromFile 从PDF文件提取规范化文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)

	// ExtractFromReader 从io.Reader提取规范化文本和元数据
	// 参数：
	// - ctx: 上下文
	// - reader: PDF文件内容的读取器
	// - uri: 资源标识符（用于日志或元数据）
	// - options: 可选的解析配置
	ExtractFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error)

	// ExtractFromBytes 从字节数组提取规范化文本和元数据
	ExtractFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error)
}

//
// 内容处理相关接口
//

// ContentProcessor 将规范化文本加工为结构化简历内容
type ContentProcessor interface {
	// Process 章节切分加特征提取，空文本返回全空结构
	Process(text string) *types.ExtractedContent
}

//
// 评分相关接口
//

// Scorer ATS评分接口
type Scorer interface {
	// Score 返回 [55,80] 区间的数值分
	Score(content *types.ExtractedContent) float64

	// ScoreDetail 返回带评级与因子明细的增强评分对象
	ScoreDetail(content *types.ExtractedContent) *types.ATSScoreDetail
}

//
// 叙事分析相关接口
//

// NarrativeAnalyzer 四类LLM叙事分析接口
type NarrativeAnalyzer interface {
	// Analyze 并行产出四类叙事分析，单项失败降级为占位文本
	// 四项全部失败时返回错误
	Analyze(ctx context.Context, content *types.ExtractedContent) (*types.AnalysisSet, error)
}

//
// 缓存相关接口
//

// ReportCache 分析报告缓存接口
type ReportCache interface {
	// GetReport 按文本MD5读取缓存报告，未命中返回错误
	GetReport(ctx context.Context, textMD5 string) (*types.AnalysisReport, error)

	// SetReport 按文本MD5写入报告
	SetReport(ctx context.Context, textMD5 string, report *types.AnalysisReport) error
}
