package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/types"
)

var (
	// 日期模式：孤立四位年份、月份名+年份、斜杠/连字符数值日期
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}\b`),
		regexp.MustCompile(`(?i)\b(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\s+\d{4}\b`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),
		regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{2,4}`),
	}

	// 量化指标模式：货币、百分比、带单位的数量
	metricPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\$\s*\d+(?:,\d{3})*(?:\.\d{2})?(?:\s*(?:million|billion|k))?`),
		regexp.MustCompile(`\d+(?:,\d{3})*%`),
		regexp.MustCompile(`(?i)\d+(?:,\d{3})*\+?\s*(?:users|customers|clients|employees|people|projects|years)`),
	}
)

// FeatureExtractor 从规范化文本提取技能、日期、量化指标
// 所有提取均为纯函数式正则匹配，对相同输入输出完全一致
type FeatureExtractor struct {
	skillRegexps []skillRegexpCategory
	logger       zerolog.Logger
}

// skillRegexpCategory 预编译后的技能匹配模式
type skillRegexpCategory struct {
	name          string
	subcategories []skillRegexpSubcategory
}

type skillRegexpSubcategory struct {
	name     string
	patterns []*regexp.Regexp
}

// NewFeatureExtractor 创建特征提取器，技能模式在此一次性编译
func NewFeatureExtractor() *FeatureExtractor {
	categories := make([]skillRegexpCategory, 0, len(skillCategories))
	for _, cat := range skillCategories {
		rc := skillRegexpCategory{name: cat.Name}
		for _, sub := range cat.Subcategories {
			rs := skillRegexpSubcategory{name: sub.Name}
			for _, keyword := range sub.Keywords {
				// 关键词命中后吞掉后续最多三词的短语尾巴，保留上下文
				pattern := `\b` + regexp.QuoteMeta(keyword) + `\b(?:[,\s]+(?:\w+\s+){0,3}\w+)*`
				rs.patterns = append(rs.patterns, regexp.MustCompile(pattern))
			}
			rc.subcategories = append(rc.subcategories, rs)
		}
		categories = append(categories, rc)
	}

	return &FeatureExtractor{
		skillRegexps: categories,
		logger:       logger.Component("feature_extractor"),
	}
}

// ExtractDates 提取日期字符串，去重后按字典序排序
func (f *FeatureExtractor) ExtractDates(text string) []string {
	if text == "" {
		return []string{}
	}

	seen := make(map[string]bool)
	for _, re := range datePatterns {
		for _, m := range re.FindAllString(text, -1) {
			seen[m] = true
		}
	}
	return sortedKeys(seen)
}

// ExtractMetrics 提取量化指标字符串，去重后按字典序排序
func (f *FeatureExtractor) ExtractMetrics(text string) []string {
	if text == "" {
		return []string{}
	}

	seen := make(map[string]bool)
	for _, re := range metricPatterns {
		for _, m := range re.FindAllString(text, -1) {
			seen[m] = true
		}
	}
	return sortedKeys(seen)
}

// CategorizeSkills 按主分类/子分类归类技能命中，空子分类被丢弃
func (f *FeatureExtractor) CategorizeSkills(text string) map[string]map[string][]string {
	result := make(map[string]map[string][]string)
	if text == "" {
		return result
	}

	lower := strings.ToLower(text)
	for _, cat := range f.skillRegexps {
		for _, sub := range cat.subcategories {
			seen := make(map[string]bool)
			for _, re := range sub.patterns {
				for _, m := range re.FindAllString(lower, -1) {
					seen[strings.TrimSpace(m)] = true
				}
			}
			if len(seen) == 0 {
				continue
			}
			if result[cat.name] == nil {
				result[cat.name] = make(map[string][]string)
			}
			result[cat.name][sub.name] = sortedKeys(seen)
		}
	}
	return result
}

// Extract 对规范化文本执行完整的结构化提取
// 空文本返回全空结构而不是错误
func (f *FeatureExtractor) Extract(text string, segmenter *SectionSegmenter) *types.ExtractedContent {
	if text == "" {
		return types.NewEmptyContent()
	}

	sections := segmenter.Segment(text)

	content := &types.ExtractedContent{
		RawText:           text,
		Sections:          sections,
		Skills:            f.CategorizeSkills(text),
		Metrics:           f.ExtractMetrics(text),
		Dates:             f.ExtractDates(text),
		SectionStatistics: segmenter.SectionStatistics(sections),
	}

	f.logger.Debug().
		Int("sections", len(content.Sections)).
		Int("metrics", len(content.Metrics)).
		Int("dates", len(content.Dates)).
		Msg("特征提取完成")
	return content
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
