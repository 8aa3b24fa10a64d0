package scorer

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/types"
)

// 因子满分权重
const (
	keywordFactorMax   = 30.0
	structureFactorMax = 20.0
	qualityFactorMax   = 20.0
	baseScore          = 15.0

	// 默认扰动幅度，测试中通常用 WithPerturbationAmplitude(0) 关闭
	defaultPerturbationAmplitude = 1.0
)

var bulletRe = regexp.MustCompile(`(?m)^\s*[•\-*]\s`)

// ATSScorer ATS评分器，默认带±1.0的均匀随机扰动
// 扰动幅度设为0时对相同输入产出完全相同的分数
type ATSScorer struct {
	keywords   []string
	keywordRes []*regexp.Regexp
	amplitude  float64
	rng        *rand.Rand
	logger     zerolog.Logger
}

// Option ATS评分器的配置选项
type Option func(*ATSScorer)

// WithPerturbationAmplitude 设置随机扰动幅度，0为完全确定性
func WithPerturbationAmplitude(amplitude float64) Option {
	return func(s *ATSScorer) {
		if amplitude >= 0 {
			s.amplitude = amplitude
		}
	}
}

// WithRandSource 注入随机源，便于测试复现扰动
func WithRandSource(rng *rand.Rand) Option {
	return func(s *ATSScorer) {
		s.rng = rng
	}
}

// NewATSScorer 创建评分器，关键词模式在此一次性编译
func NewATSScorer(options ...Option) *ATSScorer {
	keywords := parser.IndustryKeywords()
	res := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		res[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}

	s := &ATSScorer{
		keywords:   keywords,
		keywordRes: res,
		amplitude:  defaultPerturbationAmplitude,
		logger:     logger.Component("ats_scorer"),
	}

	for _, option := range options {
		option(s)
	}
	return s
}

// factorBreakdown 各因子得分，展示层包装用
type factorBreakdown struct {
	Keyword   float64
	Structure float64
	Quality   float64
	Format    float64
}

// Score 计算ATS分数，返回保留一位小数的 [55,80] 区间值
// 输入不可用时返回固定兜底分
func (s *ATSScorer) Score(content *types.ExtractedContent) float64 {
	score, _ := s.score(content)
	return score
}

func (s *ATSScorer) score(content *types.ExtractedContent) (float64, factorBreakdown) {
	if content == nil || content.RawText == "" {
		s.logger.Warn().Msg("评分输入为空，返回兜底分数")
		return constants.ATSFallbackScore, factorBreakdown{}
	}

	rawText := strings.ToLower(content.RawText)
	sections := content.Sections

	// 因子1：关键词匹配 (30%)
	matched := 0
	for _, re := range s.keywordRes {
		if re.MatchString(rawText) {
			matched++
		}
	}
	keywordScore := math.Min(keywordFactorMax*float64(matched)/float64(len(s.keywords)), keywordFactorMax)
	// 低命中率抬底，避免分数过低
	if keywordScore < 15 {
		keywordScore = 15 + keywordScore/2
	}

	// 因子2：简历结构 (20%)
	structureScore := 0.0
	for _, section := range []string{types.SectionExperience, types.SectionEducation, types.SectionSkills} {
		if _, ok := sections[section]; ok {
			structureScore += 4
		}
	}
	for _, section := range []string{types.SectionSummary, types.SectionProjects, types.SectionCertifications} {
		if _, ok := sections[section]; ok {
			structureScore += 2.67
		}
	}
	structureScore = math.Min(structureScore, structureFactorMax)
	structureScore = math.Max(structureScore, 10)

	// 因子3：经历与教育质量 (20%)
	qualityScore := 0.0
	switch metricCount := len(content.Metrics); {
	case metricCount >= 5:
		qualityScore += 12
	case metricCount > 0:
		qualityScore += 6 + float64(metricCount)*1.5
	default:
		qualityScore += 6
	}
	switch dateCount := len(content.Dates); {
	case dateCount >= 4:
		qualityScore += 8
	case dateCount > 0:
		qualityScore += 4 + float64(dateCount)
	default:
		qualityScore += 4
	}
	qualityScore = math.Min(qualityScore, qualityFactorMax)

	// 因子4：格式与可读性 (15%)
	formatScore := 0.0
	switch wordCount := len(strings.Fields(rawText)); {
	case wordCount >= 500:
		formatScore += 5
	case wordCount >= 300:
		formatScore += 4
	case wordCount >= 200:
		formatScore += 3.5
	default:
		formatScore += 3
	}
	switch {
	case len(sections) >= 5:
		formatScore += 5
	case len(sections) >= 3:
		formatScore += 4
	default:
		formatScore += 3
	}
	switch bulletCount := len(bulletRe.FindAllString(rawText, -1)); {
	case bulletCount >= 10:
		formatScore += 5
	case bulletCount >= 5:
		formatScore += 4
	case bulletCount > 0:
		formatScore += 3
	default:
		formatScore += 2
	}

	finalScore := keywordScore + structureScore + qualityScore + formatScore + baseScore

	// 随机扰动让分布更自然，幅度可配置
	if s.amplitude > 0 {
		var u float64
		if s.rng != nil {
			u = s.rng.Float64()
		} else {
			u = rand.Float64()
		}
		finalScore += (u*2 - 1) * s.amplitude
	}

	// 软夹逼：上下界的系数差异是历史行为，保持不变
	if finalScore < constants.ATSScoreFloor {
		finalScore += (constants.ATSScoreFloor - finalScore) * 0.8
	} else if finalScore > constants.ATSScoreCeiling {
		finalScore -= (finalScore - 40) * 0.8
	}

	// 硬夹逼兜底
	finalScore = math.Max(math.Min(finalScore, constants.ATSScoreCeiling), constants.ATSScoreFloor)

	finalScore = math.Round(finalScore*10) / 10

	breakdown := factorBreakdown{
		Keyword:   keywordScore,
		Structure: structureScore,
		Quality:   qualityScore,
		Format:    formatScore,
	}
	return finalScore, breakdown
}

// ratingFor 人类可读评级
func ratingFor(score float64) string {
	switch {
	case score >= 75:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= constants.ATSPassThreshold:
		return "Average"
	default:
		return "Below Average"
	}
}

// ScoreDetail 面向服务层的增强评分：数值加评级与因子明细
// 核心评分逻辑只有一份，此方法仅做展示包装
func (s *ATSScorer) ScoreDetail(content *types.ExtractedContent) *types.ATSScoreDetail {
	score, breakdown := s.score(content)

	if content == nil || content.RawText == "" {
		return &types.ATSScoreDetail{
			Score:         score,
			Rating:        "Average (insufficient content)",
			PassThreshold: false,
			Breakdown: map[string]string{
				"error":             "No analyzable text was found in the resume.",
				"improvement_areas": "Ensure the PDF contains selectable text rather than scanned images.",
			},
		}
	}

	return &types.ATSScoreDetail{
		Score:         score,
		Rating:        ratingFor(score),
		PassThreshold: score >= constants.ATSPassThreshold,
		Breakdown: map[string]string{
			"keyword_matching":       fmt.Sprintf("%.1f / %.0f", breakdown.Keyword, keywordFactorMax),
			"resume_structure":       fmt.Sprintf("%.1f / %.0f", breakdown.Structure, structureFactorMax),
			"content_quality":        fmt.Sprintf("%.1f / %.0f", breakdown.Quality, qualityFactorMax),
			"formatting_readability": fmt.Sprintf("%.1f / 15", breakdown.Format),
			"base":                   fmt.Sprintf("%.0f", baseScore),
		},
	}
}
