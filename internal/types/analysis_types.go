package types

import "time"

// SectionLabel 表示简历章节标签（分段器输出的固定枚举）
type SectionLabel = string

const (
	// SectionSummary 个人总结章节
	SectionSummary SectionLabel = "summary"
	// SectionExperience 工作经历章节
	SectionExperience SectionLabel = "experience"
	// SectionEducation 教育经历章节
	SectionEducation SectionLabel = "education"
	// SectionSkills 技能章节
	SectionSkills SectionLabel = "skills"
	// SectionProjects 项目经历章节
	SectionProjects SectionLabel = "projects"
	// SectionAchievements 获奖/成就章节
	SectionAchievements SectionLabel = "achievements"
	// SectionCertifications 证书章节
	SectionCertifications SectionLabel = "certifications"
	// SectionPublications 论文/出版物章节
	SectionPublications SectionLabel = "publications"
	// SectionVolunteer 志愿服务章节
	SectionVolunteer SectionLabel = "volunteer"
	// SectionGeneral 未命中任何标题前的内容归入 general
	SectionGeneral SectionLabel = "general"
)

// SectionStats 单个章节的统计信息
type SectionStats struct {
	WordCount     int `json:"word_count"`     // 按空白切分的词数
	SentenceCount int `json:"sentence_count"` // 按 .!? 切分的句子数
}

// ExtractedContent 一次处理运行产出的结构化简历内容
// 产出后不可变，供评分器与叙事分析器共同消费
type ExtractedContent struct {
	// 规范化后的全文（空白已折叠，段落保留为空行）
	RawText string `json:"raw_text"`

	// 章节标签 -> 按出现顺序排列的文本块
	Sections map[string][]string `json:"sections"`

	// 主分类 -> 子分类 -> 命中的技能短语（已排序，空子分类被丢弃）
	Skills map[string]map[string][]string `json:"skills"`

	// 量化指标字符串，去重后按字典序排序
	Metrics []string `json:"metrics"`

	// 日期字符串，去重后按字典序排序（非时间序）
	Dates []string `json:"dates"`

	// 章节标签 -> 统计信息
	SectionStatistics map[string]SectionStats `json:"section_statistics"`
}

// IsEmpty 判断内容是否为空（无可分析文本）
func (c *ExtractedContent) IsEmpty() bool {
	return c == nil || c.RawText == ""
}

// AnalysisSet 四类叙事分析的结果集合
type AnalysisSet struct {
	CareerTrajectory   string `json:"career_trajectory"`   // 职业轨迹分析
	SkillsAnalysis     string `json:"skills_analysis"`     // 技能分析
	ResumeOptimization string `json:"resume_optimization"` // 简历优化建议
	ActionPlan         string `json:"action_plan"`         // 行动计划
}

// Empty 判断四个字段是否全部为空
func (a *AnalysisSet) Empty() bool {
	return a == nil || (a.CareerTrajectory == "" && a.SkillsAnalysis == "" &&
		a.ResumeOptimization == "" && a.ActionPlan == "")
}

// ATSScoreDetail 面向服务层的增强评分对象
// 核心评分函数仅返回数值，此结构由展示层包装器补充评级与明细
type ATSScoreDetail struct {
	Score         float64           `json:"score"`          // 55.0 - 80.0，保留一位小数
	Rating        string            `json:"rating"`         // 人类可读评级
	PassThreshold bool              `json:"pass_threshold"` // 是否达到通过阈值
	Breakdown     map[string]string `json:"breakdown"`      // 各因子明细（展示用）
}

// ReportMetadata 报告元数据
type ReportMetadata struct {
	Timestamp             string  `json:"timestamp"`               // RFC3339 时间戳
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"` // 整条流水线耗时
	Version               string  `json:"version"`                 // 分析器版本号
}

// AnalysisReport 一次流水线运行的终态产物
type AnalysisReport struct {
	Analysis         *AnalysisSet      `json:"analysis"`
	ExtractedContent *ExtractedContent `json:"extracted_content"`
	ATSScore         *ATSScoreDetail   `json:"ats_score"`
	Metadata         ReportMetadata    `json:"metadata"`
}

// NewEmptyContent 返回一个全空但非 nil 的内容结构
// 空文本输入时流水线返回它而不是报错
func NewEmptyContent() *ExtractedContent {
	return &ExtractedContent{
		RawText:           "",
		Sections:          map[string][]string{},
		Skills:            map[string]map[string][]string{},
		Metrics:           []string{},
		Dates:             []string{},
		SectionStatistics: map[string]SectionStats{},
	}
}

// Elapsed 计算从 start 起的耗时秒数（保留展示精度）
func Elapsed(start time.Time) float64 {
	return time.Since(start).Seconds()
}
