package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"

	"resume-analyzer-go/internal/logger"
)

var (
	// 行结束符统一为\n
	lineEndingRe = regexp.MustCompile(`\r\n|\r`)
	// 空行串折叠为单个空行
	blankRunRe = regexp.MustCompile(`\n\s*\n`)
	// 水平空白串折叠为单个空格，保留换行结构
	horizontalWSRe = regexp.MustCompile(`[^\S\n]{2,}`)
)

// NormalizeText 规范化单页提取文本
// 折叠空行串与水平空白串并去除首尾空白，不破坏段落换行
func NormalizeText(text string) string {
	text = lineEndingRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = horizontalWSRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取简历文本
// 按页解析后逐页规范化，无文本的页被静默跳过
type EinoPDFTextExtractor struct {
	parser  *pdf.PDFParser
	logger  zerolog.Logger
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 配置自定义日志记录器 (导出)
func WithEinoLogger(l zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = l
	}
}

// WithExtractTimeout 配置单次提取的超时时间
func WithExtractTimeout(d time.Duration) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器
// 配置为按页分割，以便逐页规范化后用空行拼接
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true, // 每页一个文档，空白页跳过不留痕
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser:  p,
		logger:  logger.Component("pdf_extractor"),
		timeout: 20 * time.Second,
	}

	// 应用选项
	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// ExtractFromFile 从PDF文件提取规范化文本
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	startTime := time.Now()
	e.logger.Info().Str("file", filePath).Msg("开始处理PDF文件")

	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open PDF file %s: %w", filePath, err)
	}
	defer file.Close()

	if fileInfo, statErr := file.Stat(); statErr == nil {
		e.logger.Debug().
			Float64("size_mb", float64(fileInfo.Size())/1024/1024).
			Msg("PDF文件大小")
	}

	extraMeta := map[string]interface{}{
		"source_file_path": filePath,
		"extraction_time":  time.Now().Format(time.RFC3339),
	}

	text, metadata, err := e.ExtractFromReader(ctx, file, filePath, extraMeta)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Error().Err(err).Float64("seconds", duration.Seconds()).Msg("PDF处理失败")
		return "", nil, err
	}

	e.logger.Info().
		Int("chars", len(text)).
		Float64("seconds", duration.Seconds()).
		Msg("PDF处理完成")
	return text, metadata, nil
}

// ExtractFromReader 从 io.Reader 中提取规范化文本 (更通用的版本)
// 返回: 规范化文本 (string), 解析器元数据 (map[string]interface{}), 错误 (error)
func (e *EinoPDFTextExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error) {
	// 将options转换为map[string]interface{}
	var extraMeta map[string]interface{}
	if options != nil {
		if meta, ok := options.(map[string]interface{}); ok {
			extraMeta = meta
		} else {
			extraMeta = map[string]interface{}{
				"original_options": options,
			}
		}
	} else {
		extraMeta = make(map[string]interface{})
	}

	startTime := time.Now()
	e.logger.Debug().Str("uri", uri).Msg("开始从Reader提取PDF文本")

	// 创建带超时的上下文
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Error().Err(err).Float64("seconds", duration.Seconds()).Msg("从Reader提取PDF失败")
		return "", extraMeta, fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}

	if len(docs) == 0 {
		e.logger.Warn().Float64("seconds", duration.Seconds()).Msg("PDF解析无结果")
		return "", extraMeta, fmt.Errorf("eino PDF parser returned no documents for URI %s", uri)
	}

	// 逐页规范化，跳过无文本的页，用空行拼接
	pageTexts := make([]string, 0, len(docs))
	for _, doc := range docs {
		normalized := NormalizeText(doc.Content)
		if normalized == "" {
			continue
		}
		pageTexts = append(pageTexts, normalized)
	}
	fullContent := strings.Join(pageTexts, "\n\n")

	// 合并元数据
	var finalMetadata map[string]interface{}
	if docs[0].MetaData != nil {
		finalMetadata = docs[0].MetaData
	} else {
		finalMetadata = make(map[string]interface{})
	}
	for k, v := range extraMeta {
		finalMetadata[k] = v
	}

	finalMetadata["processing_duration_ms"] = duration.Milliseconds()
	finalMetadata["page_count"] = len(docs)
	finalMetadata["text_length"] = len(fullContent)

	e.logger.Debug().
		Int("pages", len(docs)).
		Int("chars", len(fullContent)).
		Float64("seconds", duration.Seconds()).
		Msg("PDF提取完成")
	return fullContent, finalMetadata, nil
}

// ExtractFromBytes 从字节数组提取文本内容，HTTP上传走这条路径
func (e *EinoPDFTextExtractor) ExtractFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error) {
	reader := bytes.NewReader(data)

	var extraMeta map[string]interface{}
	if options != nil {
		if meta, ok := options.(map[string]interface{}); ok {
			extraMeta = meta
		} else {
			extraMeta = map[string]interface{}{
				"original_options": options,
			}
		}
	}

	return e.ExtractFromReader(ctx, reader, uri, extraMeta)
}
