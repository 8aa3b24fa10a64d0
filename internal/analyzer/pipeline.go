package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/storage"
	"resume-analyzer-go/internal/tracing"
	"resume-analyzer-go/internal/types"
)

var pipelineTracer = otel.Tracer("resume-analyzer-go/analyzer/pipeline")

// Components 聚合流水线的功能组件依赖，便于集中管理和测试替换
type Components struct {
	Extractor TextExtractor     // PDF文本提取
	Processor ContentProcessor  // 章节切分与特征提取
	Scorer    Scorer            // ATS评分
	Narrative NarrativeAnalyzer // LLM叙事分析

	// 可选的报告缓存，nil表示关闭
	Cache ReportCache
}

// Settings 纯配置项，不包含任何业务逻辑组件
type Settings struct {
	PipelineTimeout time.Duration  // 整条流水线的超时上限
	Logger          zerolog.Logger // 日志记录器
	loggerSet       bool
}

// Pipeline 简历分析流水线编排器
// 提取、加工、评分、叙事分析依次执行，产出终态报告
type Pipeline struct {
	extractor TextExtractor
	processor ContentProcessor
	scorer    Scorer
	narrative NarrativeAnalyzer
	cache     ReportCache

	pipelineTimeout time.Duration
	logger          zerolog.Logger
}

// NewPipeline 创建流水线，使用明确分离的组件和设置
func NewPipeline(comp *Components, set *Settings, opts ...SettingOpt) (*Pipeline, error) {
	for _, opt := range opts {
		opt(set)
	}

	if comp == nil || comp.Extractor == nil || comp.Processor == nil || comp.Scorer == nil || comp.Narrative == nil {
		return nil, errors.New("流水线的核心组件不完整")
	}

	if set.PipelineTimeout <= 0 {
		set.PipelineTimeout = 120 * time.Second
	}
	if !set.loggerSet {
		set.Logger = logger.Component("pipeline")
	}

	p := &Pipeline{
		extractor:       comp.Extractor,
		processor:       comp.Processor,
		scorer:          comp.Scorer,
		narrative:       comp.Narrative,
		cache:           comp.Cache,
		pipelineTimeout: set.PipelineTimeout,
		logger:          set.Logger,
	}

	if p.cache == nil {
		p.logger.Info().Msg("报告缓存未启用，每次请求全量分析")
	}
	return p, nil
}

// newRequestUUID 生成请求标识，用于错误关联与日志
func newRequestUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

// AnalyzeBytes 对PDF字节流执行完整的分析流水线
// 返回包含叙事分析、结构化内容、评分与元数据的终态报告
func (p *Pipeline) AnalyzeBytes(ctx context.Context, data []byte, filename string) (*types.AnalysisReport, error) {
	requestUUID := newRequestUUID()
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.pipelineTimeout)
	defer cancel()

	ctx, span := pipelineTracer.Start(ctx, "pipeline.analyze",
		trace.WithAttributes(
			attribute.String("request.uuid", requestUUID),
			attribute.Int("pdf.size_bytes", len(data)),
		))
	defer span.End()

	reqLogger := p.logger.With().Str("request_uuid", requestUUID).Logger()
	reqLogger.Info().Str("filename", tracing.SafeAttributeValue("filename", filename, tracing.MaxHeaderLength)).Msg("开始分析简历")

	// 第一步：提取文本
	text, _, err := p.extractor.ExtractFromBytes(ctx, data, filename, nil)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypePDF)
		return nil, NewExtractError(requestUUID, err)
	}
	if text == "" {
		err := NewEmptyTextError(requestUUID)
		tracing.RecordError(span, err, tracing.ErrorTypePDF)
		return nil, err
	}

	reqLogger.Debug().
		Str("text_preview", tracing.SafeResumeContent(text)).
		Msg("文本提取完成")

	// 缓存命中直接返回历史报告
	textMD5 := storage.TextMD5(text)
	if p.cache != nil {
		if cached, cacheErr := p.cache.GetReport(ctx, textMD5); cacheErr == nil {
			reqLogger.Info().Str("text_md5", textMD5).Msg("报告缓存命中")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		} else if !errors.Is(cacheErr, storage.ErrNotFound) {
			// 缓存故障不阻塞分析
			reqLogger.Warn().Err(cacheErr).Msg("读取报告缓存失败")
			tracing.RecordErrorWithInfo(span, cacheErr, tracing.ErrorTypeRedis,
				attribute.String("cache.key_md5", textMD5))
		}
	}

	// 第二步：结构化加工
	content := p.processor.Process(text)

	// 第三步：评分，评分器内部兜底不会失败
	atsScore := p.scorer.ScoreDetail(content)

	// 第四步：叙事分析
	analysis, err := p.narrative.Analyze(ctx, content)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeLLM)
		return nil, err
	}

	report := &types.AnalysisReport{
		Analysis:         analysis,
		ExtractedContent: content,
		ATSScore:         atsScore,
		Metadata: types.ReportMetadata{
			Timestamp:             time.Now().Format(time.RFC3339),
			ProcessingTimeSeconds: types.Elapsed(startTime),
			Version:               constants.AnalyzerVersion,
		},
	}

	if p.cache != nil {
		if cacheErr := p.cache.SetReport(ctx, textMD5, report); cacheErr != nil {
			reqLogger.Warn().Err(cacheErr).Msg("写入报告缓存失败")
			tracing.RecordErrorWithInfo(span, cacheErr, tracing.ErrorTypeRedis,
				attribute.String("cache.key_md5", textMD5))
		}
	}

	reqLogger.Info().
		Float64("score", atsScore.Score).
		Float64("seconds", report.Metadata.ProcessingTimeSeconds).
		Msg("简历分析完成")
	return report, nil
}

// ExtractText 仅执行文本提取步骤，CLI的extract子命令使用
func (p *Pipeline) ExtractText(ctx context.Context, filePath string) (string, error) {
	text, _, err := p.extractor.ExtractFromFile(ctx, filePath)
	if err != nil {
		return "", NewExtractError(newRequestUUID(), err)
	}
	return text, nil
}

// ProcessContent 仅执行结构化加工步骤
func (p *Pipeline) ProcessContent(text string) *types.ExtractedContent {
	return p.processor.Process(text)
}

// ScoreContent 仅执行评分步骤
func (p *Pipeline) ScoreContent(content *types.ExtractedContent) *types.ATSScoreDetail {
	return p.scorer.ScoreDetail(content)
}
