package analyzer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/storage"
	"resume-analyzer-go/internal/types"
)

// ----- 测试替身 -----

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	return s.text, nil, s.err
}

func (s *stubExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error) {
	return s.text, nil, s.err
}

func (s *stubExtractor) ExtractFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error) {
	return s.text, nil, s.err
}

type stubProcessor struct {
	calls int
}

func (s *stubProcessor) Process(text string) *types.ExtractedContent {
	s.calls++
	return &types.ExtractedContent{RawText: text}
}

type stubScorer struct{}

func (s *stubScorer) Score(*types.ExtractedContent) float64 { return 70.0 }

func (s *stubScorer) ScoreDetail(*types.ExtractedContent) *types.ATSScoreDetail {
	return &types.ATSScoreDetail{Score: 70.0, Rating: "Good", PassThreshold: true}
}

type stubNarrative struct {
	calls int
	err   error
}

func (s *stubNarrative) Analyze(ctx context.Context, content *types.ExtractedContent) (*types.AnalysisSet, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.AnalysisSet{
		CareerTrajectory:   "career",
		SkillsAnalysis:     "skills",
		ResumeOptimization: "optimization",
		ActionPlan:         "plan",
	}, nil
}

type memoryCache struct {
	reports  map[string]*types.AnalysisReport
	getCalls int
	setCalls int
	getErr   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{reports: make(map[string]*types.AnalysisReport)}
}

func (c *memoryCache) GetReport(ctx context.Context, textMD5 string) (*types.AnalysisReport, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	if report, ok := c.reports[textMD5]; ok {
		return report, nil
	}
	return nil, storage.ErrNotFound
}

func (c *memoryCache) SetReport(ctx context.Context, textMD5 string, report *types.AnalysisReport) error {
	c.setCalls++
	c.reports[textMD5] = report
	return nil
}

func newTestPipeline(t *testing.T, extractor TextExtractor, narrative NarrativeAnalyzer, cache ReportCache) *Pipeline {
	t.Helper()
	p, err := NewPipeline(
		NewComponents(
			WithcompExtractor(extractor),
			WithcompProcessor(&stubProcessor{}),
			WithcompScorer(&stubScorer{}),
			WithcompNarrative(narrative),
			WithcompCache(cache),
		),
		&Settings{},
		WithsetPipelinetimeout(5*time.Second),
	)
	require.NoError(t, err)
	return p
}

// ----- 测试 -----

func TestNewPipelineRequiresCoreComponents(t *testing.T) {
	_, err := NewPipeline(NewComponents(), &Settings{})
	assert.Error(t, err, "缺少核心组件时应该报错")

	_, err = NewPipeline(
		NewComponents(
			WithcompExtractor(&stubExtractor{}),
			WithcompProcessor(&stubProcessor{}),
			WithcompScorer(&stubScorer{}),
		),
		&Settings{},
	)
	assert.Error(t, err, "缺少叙事分析组件时应该报错")
}

func TestAnalyzeBytesProducesCompleteReport(t *testing.T) {
	pipeline := newTestPipeline(t,
		&stubExtractor{text: "resume body"},
		&stubNarrative{},
		nil,
	)

	report, err := pipeline.AnalyzeBytes(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err)
	require.NotNil(t, report)

	require.NotNil(t, report.Analysis)
	assert.Equal(t, "career", report.Analysis.CareerTrajectory)
	assert.Equal(t, "plan", report.Analysis.ActionPlan)

	require.NotNil(t, report.ExtractedContent)
	assert.Equal(t, "resume body", report.ExtractedContent.RawText)

	require.NotNil(t, report.ATSScore)
	assert.Equal(t, 70.0, report.ATSScore.Score)

	assert.Equal(t, constants.AnalyzerVersion, report.Metadata.Version)
	assert.NotEmpty(t, report.Metadata.Timestamp)
	assert.GreaterOrEqual(t, report.Metadata.ProcessingTimeSeconds, 0.0)
}

func TestAnalyzeBytesExtractionFailure(t *testing.T) {
	pipeline := newTestPipeline(t,
		&stubExtractor{err: errors.New("corrupt pdf")},
		&stubNarrative{},
		nil,
	)

	_, err := pipeline.AnalyzeBytes(context.Background(), []byte("junk"), "resume.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractTextFailed)
}

func TestAnalyzeBytesExtractionTimeoutKeepsCause(t *testing.T) {
	pipeline := newTestPipeline(t,
		&stubExtractor{err: context.DeadlineExceeded},
		&stubNarrative{},
		nil,
	)

	_, err := pipeline.AnalyzeBytes(context.Background(), []byte("junk"), "resume.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractTextFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "提取错误应该保留底层超时原因")
}

func TestAnalyzeBytesEmptyText(t *testing.T) {
	pipeline := newTestPipeline(t,
		&stubExtractor{text: ""},
		&stubNarrative{},
		nil,
	)

	_, err := pipeline.AnalyzeBytes(context.Background(), []byte("%PDF"), "scanned.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestAnalyzeBytesNarrativeFailure(t *testing.T) {
	pipeline := newTestPipeline(t,
		&stubExtractor{text: "resume body"},
		&stubNarrative{err: NewAllAnalysesFailedError("req", "all failed")},
		nil,
	)

	_, err := pipeline.AnalyzeBytes(context.Background(), []byte("%PDF"), "resume.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllAnalysesFailed)
}

func TestAnalyzeBytesCacheMissThenHit(t *testing.T) {
	cache := newMemoryCache()
	narrative := &stubNarrative{}
	pipeline := newTestPipeline(t,
		&stubExtractor{text: "resume body"},
		narrative,
		cache,
	)

	first, err := pipeline.AnalyzeBytes(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.setCalls, "未命中后应该写入缓存")
	assert.Equal(t, 1, narrative.calls)

	second, err := pipeline.AnalyzeBytes(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, narrative.calls, "缓存命中时不应该重新分析")
	assert.Equal(t, first, second, "命中时应该返回缓存的报告")
}

func TestAnalyzeBytesCacheFailureDoesNotBlock(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	pipeline := newTestPipeline(t,
		&stubExtractor{text: "resume body"},
		&stubNarrative{},
		cache,
	)

	report, err := pipeline.AnalyzeBytes(context.Background(), []byte("%PDF"), "resume.pdf")
	require.NoError(t, err, "缓存故障不应阻塞分析")
	require.NotNil(t, report)
}

func TestProcessAndScoreHelpers(t *testing.T) {
	pipeline := newTestPipeline(t,
		&stubExtractor{text: "resume body"},
		&stubNarrative{},
		nil,
	)

	content := pipeline.ProcessContent("some text")
	require.NotNil(t, content)
	assert.Equal(t, "some text", content.RawText)

	detail := pipeline.ScoreContent(content)
	require.NotNil(t, detail)
	assert.Equal(t, 70.0, detail.Score)
}
