package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/resilience"
	"resume-analyzer-go/internal/tracing"
	"resume-analyzer-go/internal/types"
)

var narrativeTracer = otel.Tracer("resume-analyzer-go/analyzer/narrative")

// narrativeSystemMessage 四类分析共用的系统提示词
const narrativeSystemMessage = `You are an expert career advisor and resume analyst.
Provide detailed, actionable insights based on the resume content.
Focus on specific examples and concrete recommendations.
Format your response in clear paragraphs with line breaks between main points.`

// analysisPrompts 四类叙事分析的提示词，按固定顺序声明
var analysisPrompts = []struct {
	Kind   string
	Prompt string
}{
	{
		Kind: constants.AnalysisCareerTrajectory,
		Prompt: `Analyze the career trajectory based on the provided resume data:
1. Career progression pattern
- Track job titles and promotions timeline
- Note major role transitions
2. Key achievements
- List quantified accomplishments
- Highlight awards received
3. Industry transitions
- Document industry changes
- Note adaptation success
4. Leadership growth
- Track team size managed
- Note scope of responsibility
5. Future potential
- Identify next career move
- Assess growth opportunities`,
	},
	{
		Kind: constants.AnalysisSkillsAnalysis,
		Prompt: `Analyze the technical and professional skills:
1. Core competencies
- List main technical skills
- Note proficiency levels
2. Market relevance
- Match skills to job requirements
- Identify high-demand abilities
3. Skill gaps
- List missing critical skills
- Suggest needed certifications
4. Industry expertise
- Note specialized knowledge
- List domain experience
5. Transferable skills
- Identify cross-industry skills
- List universal abilities`,
	},
	{
		Kind: constants.AnalysisResumeOptimization,
		Prompt: `Optimization recommendations:
1. Content improvements
- Add missing metrics
- Strengthen examples
2. Quantification
- Add specific numbers
- Include scope details
3. Key selling points
- Highlight unique skills
- Emphasize achievements
4. Format suggestions
- Improve readability
- Enhance organization
5. ATS optimization
- Add relevant keywords
- Adjust formatting`,
	},
	{
		Kind: constants.AnalysisActionPlan,
		Prompt: `Action plan:
1. Short-term goals
- List 3-month priorities
- Set immediate targets
2. Medium-term goals
- Define 1-year objectives
- Plan major milestones
3. Skill priorities
- List skills to acquire
- Identify resources
4. Networking
- Target key events
- Plan connections
5. Career steps
- Set promotion goals
- List target companies`,
	},
}

// LLMNarrativeAnalyzer 调用大模型产出四类叙事分析
// 四项分析相互独立并行执行，任一失败不影响其余
type LLMNarrativeAnalyzer struct {
	model     model.BaseChatModel
	executor  *resilience.Executor
	timeout   time.Duration // 单次调用超时
	textLimit int           // 注入提示词的正文截断长度
	logger    zerolog.Logger
}

// NarrativeOption 叙事分析器的配置选项
type NarrativeOption func(*LLMNarrativeAnalyzer)

// WithAnalysisTimeout 设置单次叙事分析调用的超时时间
func WithAnalysisTimeout(d time.Duration) NarrativeOption {
	return func(a *LLMNarrativeAnalyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithPromptTextLimit 设置注入提示词的正文截断长度
func WithPromptTextLimit(limit int) NarrativeOption {
	return func(a *LLMNarrativeAnalyzer) {
		if limit > 0 {
			a.textLimit = limit
		}
	}
}

// WithExecutor 注入重试与熔断执行器
func WithExecutor(executor *resilience.Executor) NarrativeOption {
	return func(a *LLMNarrativeAnalyzer) {
		if executor != nil {
			a.executor = executor
		}
	}
}

// NewLLMNarrativeAnalyzer 创建叙事分析器
func NewLLMNarrativeAnalyzer(chatModel model.BaseChatModel, options ...NarrativeOption) (*LLMNarrativeAnalyzer, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chatModel cannot be nil")
	}

	a := &LLMNarrativeAnalyzer{
		model:     chatModel,
		executor:  resilience.NewExecutor(resilience.DefaultConfig()),
		timeout:   45 * time.Second,
		textLimit: 2000,
		logger:    logger.Component("narrative_analyzer"),
	}

	for _, option := range options {
		option(a)
	}
	return a, nil
}

// buildMessages 为指定分析类别拼装对话消息
// 正文截断到textLimit字符，技能/日期/指标以JSON形式注入
func (a *LLMNarrativeAnalyzer) buildMessages(content *types.ExtractedContent, prompt string) ([]*schema.Message, error) {
	text := content.RawText
	if runes := []rune(text); len(runes) > a.textLimit {
		text = string(runes[:a.textLimit])
	}

	skillsJSON, err := json.MarshalIndent(content.Skills, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化技能信息失败: %w", err)
	}
	datesJSON, err := json.MarshalIndent(content.Dates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化日期信息失败: %w", err)
	}
	metricsJSON, err := json.MarshalIndent(content.Metrics, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化指标信息失败: %w", err)
	}

	userContent := fmt.Sprintf(`Analyze this professional profile:
Resume Content:
%s
Professional Skills:
%s
Career Timeline:
%s
Key Metrics:
%s
Analysis Request:
%s
Format your response in clear paragraphs with line breaks between main points.`,
		text, skillsJSON, datesJSON, metricsJSON, prompt)

	return []*schema.Message{
		{Role: schema.RoleType("system"), Content: narrativeSystemMessage},
		{Role: schema.RoleType("user"), Content: userContent},
	}, nil
}

// isTimeoutErr 判断调用失败是否为超时，只有超时才触发重试
func isTimeoutErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	// HTTP客户端包装的超时错误没有统一类型
	return strings.Contains(err.Error(), "context deadline exceeded") ||
		strings.Contains(err.Error(), "Client.Timeout")
}

// analyzeOne 执行单项叙事分析，返回分析文本
// 超时在重试耗尽后降级为超时占位文本，其他错误立即降级为错误占位文本
func (a *LLMNarrativeAnalyzer) analyzeOne(ctx context.Context, kind string, prompt string, content *types.ExtractedContent) string {
	ctx, span := narrativeTracer.Start(ctx, "narrative."+kind)
	defer span.End()
	span.SetAttributes(attribute.String("llm.analysis_kind", kind))

	messages, err := a.buildMessages(content, prompt)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return fmt.Sprintf(constants.ErrorPlaceholderFmt, err)
	}

	var result string
	attempt := 0
	execErr := a.executor.Execute(ctx, "narrative_"+kind, func(callCtx context.Context) error {
		attempt++
		callCtx, cancel := context.WithTimeout(callCtx, a.timeout)
		defer cancel()

		resp, genErr := a.model.Generate(callCtx, messages)
		if genErr != nil {
			if isTimeoutErr(genErr) {
				tracing.RecordLLMTimeout(span, kind, attempt, a.timeout.String())
				a.logger.Warn().
					Str("kind", kind).
					Int("attempt", attempt).
					Msg("叙事分析调用超时")
			}
			return genErr
		}
		result = resp.Content
		return nil
	}, func(err error) resilience.ErrorClassification {
		return resilience.ErrorClassification{
			Retryable:     isTimeoutErr(err),
			RecordFailure: true,
		}
	})

	if execErr != nil {
		if isTimeoutErr(execErr) {
			a.logger.Error().Str("kind", kind).Msg("叙事分析重试耗尽，降级为超时占位文本")
			tracing.RecordAnalysisFallback(span, kind, "timeout")
			return constants.TimeoutPlaceholder
		}
		a.logger.Error().Err(execErr).Str("kind", kind).Msg("叙事分析失败，降级为错误占位文本")
		tracing.RecordAnalysisFallback(span, kind, "error")
		return fmt.Sprintf(constants.ErrorPlaceholderFmt, execErr)
	}
	return result
}

// Analyze 并行产出四类叙事分析
// 原文为空时各项返回固定提示；四项全部为空时返回错误
func (a *LLMNarrativeAnalyzer) Analyze(ctx context.Context, content *types.ExtractedContent) (*types.AnalysisSet, error) {
	if content == nil {
		return nil, fmt.Errorf("resume content cannot be nil")
	}

	results := make(map[string]string, len(analysisPrompts))

	if content.RawText == "" {
		for _, p := range analysisPrompts {
			results[p.Kind] = "No resume text available for analysis."
		}
		return setFromMap(results), nil
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, p := range analysisPrompts {
		wg.Add(1)
		go func(kind, prompt string) {
			defer wg.Done()
			text := a.analyzeOne(ctx, kind, prompt, content)
			mu.Lock()
			results[kind] = text
			mu.Unlock()
		}(p.Kind, p.Prompt)
	}
	wg.Wait()

	set := setFromMap(results)
	if set.Empty() {
		return nil, NewAllAnalysesFailedError("", "四类分析均返回空结果")
	}
	return set, nil
}

// setFromMap 将类别到文本的映射装配为结果集合
func setFromMap(results map[string]string) *types.AnalysisSet {
	return &types.AnalysisSet{
		CareerTrajectory:   results[constants.AnalysisCareerTrajectory],
		SkillsAnalysis:     results[constants.AnalysisSkillsAnalysis],
		ResumeOptimization: results[constants.AnalysisResumeOptimization],
		ActionPlan:         results[constants.AnalysisActionPlan],
	}
}
