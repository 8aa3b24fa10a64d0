package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer-go/internal/types"
)

func TestIdentifySection(t *testing.T) {
	segmenter := NewSectionSegmenter()

	tests := []struct {
		line     string
		expected string
	}{
		{"Work Experience", types.SectionExperience},
		{"EDUCATION", types.SectionEducation},
		{"Professional Summary", types.SectionSummary},
		{"Technical Skills", types.SectionSkills},
		{"Key Projects", types.SectionProjects},
		{"Awards and Honors", types.SectionAchievements},
		{"Certifications", types.SectionCertifications},
		{"Publications", types.SectionPublications},
		{"Volunteer Work", types.SectionVolunteer},
		{"John Smith, Software Engineer", ""},
		{"Built a payment platform", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, segmenter.IdentifySection(tt.line), "行: %q", tt.line)
	}
}

func TestIdentifySectionPriorityOrder(t *testing.T) {
	segmenter := NewSectionSegmenter()

	// summary在experience之前声明，同时命中时取summary
	assert.Equal(t, types.SectionSummary, segmenter.IdentifySection("Summary of Experience"))
	// 标题匹配是子串匹配，正文行也可能被识别为标题
	assert.Equal(t, types.SectionExperience, segmenter.IdentifySection("I have experience in sales"))
}

func TestSegment(t *testing.T) {
	segmenter := NewSectionSegmenter()

	text := `John Smith
Senior Engineer

Work Experience
Led a team of 5 engineers.
Shipped the billing platform.

Education
B.S. Computer Science

Skills
Python, Go, SQL`

	sections := segmenter.Segment(text)

	// 标题前的行逐行归入general
	require.Contains(t, sections, types.SectionGeneral)
	assert.Equal(t, []string{"John Smith", "Senior Engineer"}, sections[types.SectionGeneral])

	require.Contains(t, sections, types.SectionExperience)
	require.Len(t, sections[types.SectionExperience], 1)
	assert.Equal(t, "Led a team of 5 engineers.\nShipped the billing platform.", sections[types.SectionExperience][0])

	require.Contains(t, sections, types.SectionEducation)
	assert.Equal(t, []string{"B.S. Computer Science"}, sections[types.SectionEducation])

	require.Contains(t, sections, types.SectionSkills)
	assert.Equal(t, []string{"Python, Go, SQL"}, sections[types.SectionSkills])
}

func TestSegmentHeadingConsumesLine(t *testing.T) {
	segmenter := NewSectionSegmenter()

	sections := segmenter.Segment("Education\nMIT")
	require.Contains(t, sections, types.SectionEducation)
	// 标题行本身不进入正文
	assert.Equal(t, []string{"MIT"}, sections[types.SectionEducation])
}

func TestSegmentEmptyText(t *testing.T) {
	segmenter := NewSectionSegmenter()
	assert.Empty(t, segmenter.Segment(""), "空文本应该返回空章节表")
}

func TestSegmentHeadingWithoutBody(t *testing.T) {
	segmenter := NewSectionSegmenter()
	sections := segmenter.Segment("Skills")
	// 没有正文的标题不产生章节条目
	assert.NotContains(t, sections, types.SectionSkills)
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"", 0},
		// 切分包含句末标点后的尾段，与历史统计口径一致
		{"One sentence.", 2},
		{"First. Second! Third?", 4},
		{"no punctuation", 1},
		{"Ellipsis... done.", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CountSentences(tt.text), "文本: %q", tt.text)
	}
}

func TestSectionStatistics(t *testing.T) {
	segmenter := NewSectionSegmenter()

	sections := map[string][]string{
		types.SectionExperience: {"Led a team.", "Shipped products!"},
	}
	stats := segmenter.SectionStatistics(sections)

	require.Contains(t, stats, types.SectionExperience)
	assert.Equal(t, 5, stats[types.SectionExperience].WordCount)
	assert.Equal(t, 3, stats[types.SectionExperience].SentenceCount)
}
