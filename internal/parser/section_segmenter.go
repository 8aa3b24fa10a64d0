package parser

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/types"
)

// SectionSegmenter 基于标题关键词的章节分段器
// 标题识别为小写子串匹配，类别顺序固定，首个命中生效
type SectionSegmenter struct {
	patterns []sectionPattern
	logger   zerolog.Logger
}

// NewSectionSegmenter 创建章节分段器
func NewSectionSegmenter() *SectionSegmenter {
	return &SectionSegmenter{
		patterns: sectionPatterns,
		logger:   logger.Component("section_segmenter"),
	}
}

// IdentifySection 判断一行是否为章节标题，返回章节标签
// 未命中任何类别时返回空字符串
func (s *SectionSegmenter) IdentifySection(line string) string {
	lower := strings.ToLower(line)
	for _, p := range s.patterns {
		for _, keyword := range p.Keywords {
			if strings.Contains(lower, keyword) {
				return p.Label
			}
		}
	}
	return ""
}

// Segment 将规范化文本切分为带标签的章节
// 标题行本身被消费不进入正文；标题出现前的行逐行归入general
func (s *SectionSegmenter) Segment(text string) map[string][]string {
	sections := make(map[string][]string)
	if text == "" {
		return sections
	}

	var currentSection string
	var sectionText []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		detected := s.IdentifySection(line)
		switch {
		case detected != "":
			// 新标题先冲刷上一个章节的累积块
			if currentSection != "" && len(sectionText) > 0 {
				sections[currentSection] = append(sections[currentSection], strings.Join(sectionText, "\n"))
				sectionText = nil
			}
			currentSection = detected
		case currentSection != "":
			sectionText = append(sectionText, line)
		default:
			sections[types.SectionGeneral] = append(sections[types.SectionGeneral], line)
		}
	}

	if currentSection != "" && len(sectionText) > 0 {
		sections[currentSection] = append(sections[currentSection], strings.Join(sectionText, "\n"))
	}

	s.logger.Debug().Int("sections", len(sections)).Msg("章节切分完成")
	return sections
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// CountSentences 按句末标点切分统计句子数，空文本为0
func CountSentences(text string) int {
	if text == "" {
		return 0
	}
	return len(sentenceSplitRe.Split(text, -1))
}

// SectionStatistics 为每个章节计算词数与句数
// 统计口径：同章节所有块以空格拼接后计算
func (s *SectionSegmenter) SectionStatistics(sections map[string][]string) map[string]types.SectionStats {
	stats := make(map[string]types.SectionStats, len(sections))
	for label, blocks := range sections {
		joined := strings.Join(blocks, " ")
		stats[label] = types.SectionStats{
			WordCount:     len(strings.Fields(joined)),
			SentenceCount: CountSentences(joined),
		}
	}
	return stats
}
