package analyzer

import (
	"time"

	"github.com/rs/zerolog"
)

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithcompExtractor 设置PDF文本提取组件
func WithcompExtractor(extractor TextExtractor) ComponentOpt {
	return func(c *Components) {
		c.Extractor = extractor
	}
}

// WithcompProcessor 设置内容加工组件
func WithcompProcessor(processor ContentProcessor) ComponentOpt {
	return func(c *Components) {
		c.Processor = processor
	}
}

// WithcompScorer 设置ATS评分组件
func WithcompScorer(scorer Scorer) ComponentOpt {
	return func(c *Components) {
		c.Scorer = scorer
	}
}

// WithcompNarrative 设置叙事分析组件
func WithcompNarrative(narrative NarrativeAnalyzer) ComponentOpt {
	return func(c *Components) {
		c.Narrative = narrative
	}
}

// WithcompCache 设置报告缓存组件，nil表示关闭缓存
func WithcompCache(cache ReportCache) ComponentOpt {
	return func(c *Components) {
		c.Cache = cache
	}
}

// NewComponents 依次应用组件选项并返回组件集合
func NewComponents(opts ...ComponentOpt) *Components {
	c := &Components{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ----- 设置选项 -----

// WithsetPipelinetimeout 设置整条流水线的超时上限
func WithsetPipelinetimeout(d time.Duration) SettingOpt {
	return func(s *Settings) {
		if d > 0 {
			s.PipelineTimeout = d
		}
	}
}

// WithsetLogger 设置日志记录器
func WithsetLogger(l zerolog.Logger) SettingOpt {
	return func(s *Settings) {
		s.Logger = l
		s.loggerSet = true
	}
}
