package parser

import (
	"resume-analyzer-go/internal/types"
)

// ResumeContentProcessor 组合章节分段器与特征提取器，
// 把规范化文本一次性加工为结构化简历内容。
type ResumeContentProcessor struct {
	segmenter *SectionSegmenter
	extractor *FeatureExtractor
}

// NewResumeContentProcessor 创建内容加工器
func NewResumeContentProcessor() *ResumeContentProcessor {
	return &ResumeContentProcessor{
		segmenter: NewSectionSegmenter(),
		extractor: NewFeatureExtractor(),
	}
}

// Process 执行章节切分与特征提取，空文本返回全空结构
func (p *ResumeContentProcessor) Process(text string) *types.ExtractedContent {
	return p.extractor.Extract(text, p.segmenter)
}
