package parser

// skillCategory 技能主分类及其子分类关键词表
type skillCategory struct {
	Name          string
	Subcategories []skillSubcategory
}

// skillSubcategory 技能子分类
type skillSubcategory struct {
	Name     string
	Keywords []string
}

// skillCategories 技能关键词表，匹配时统一转小写
var skillCategories = []skillCategory{
	{
		Name: "technical_skills",
		Subcategories: []skillSubcategory{
			{Name: "programming", Keywords: []string{"python", "java", "javascript", "c++", "ruby", "go"}},
			{Name: "data", Keywords: []string{"sql", "mongodb", "postgresql", "data analysis", "big data"}},
			{Name: "cloud", Keywords: []string{"aws", "azure", "gcp", "docker", "kubernetes"}},
			{Name: "ai_ml", Keywords: []string{"machine learning", "deep learning", "nlp", "computer vision"}},
		},
	},
	{
		Name: "business_skills",
		Subcategories: []skillSubcategory{
			{Name: "management", Keywords: []string{"project management", "team leadership", "strategic planning"}},
			{Name: "analysis", Keywords: []string{"business analysis", "requirements gathering", "process improvement"}},
			{Name: "operations", Keywords: []string{"operations management", "supply chain", "resource planning"}},
		},
	},
	{
		Name: "soft_skills",
		Subcategories: []skillSubcategory{
			{Name: "communication", Keywords: []string{"presentation", "writing", "public speaking"}},
			{Name: "leadership", Keywords: []string{"team building", "mentoring", "decision making"}},
			{Name: "interpersonal", Keywords: []string{"collaboration", "conflict resolution", "negotiation"}},
		},
	},
	{
		Name: "domain_specific",
		Subcategories: []skillSubcategory{
			{Name: "finance", Keywords: []string{"financial analysis", "budgeting", "forecasting"}},
			{Name: "marketing", Keywords: []string{"digital marketing", "seo", "content strategy"}},
			{Name: "sales", Keywords: []string{"sales management", "account management", "crm"}},
		},
	},
}

// sectionPattern 章节标签及其标题关键词
// 顺序即匹配优先级，一行命中多个类别时取最先声明的
type sectionPattern struct {
	Label    string
	Keywords []string
}

var sectionPatterns = []sectionPattern{
	{Label: "summary", Keywords: []string{"summary", "professional summary", "profile", "objective"}},
	{Label: "experience", Keywords: []string{"experience", "work history", "employment", "work experience"}},
	{Label: "education", Keywords: []string{"education", "academic background", "qualifications", "training"}},
	{Label: "skills", Keywords: []string{"skills", "expertise", "competencies", "technical skills"}},
	{Label: "projects", Keywords: []string{"projects", "key projects", "portfolio", "works"}},
	{Label: "achievements", Keywords: []string{"achievements", "accomplishments", "awards", "honors"}},
	{Label: "certifications", Keywords: []string{"certifications", "certificates", "licenses"}},
	{Label: "publications", Keywords: []string{"publications", "research", "papers"}},
	{Label: "volunteer", Keywords: []string{"volunteer", "community service", "social work"}},
}

// industryKeywords ATS系统视为正向信号的行业关键词，评分因子1的匹配基准
var industryKeywords = []string{
	// General professional terms
	"leadership", "manage", "team", "project", "develop", "implement", "strategy",
	"analyze", "research", "coordinate", "collaborate", "communicate", "budget",
	"improve", "create", "design", "optimize", "growth", "success", "initiative",
	"deliver", "achieve", "increase", "decrease", "reduce", "enhance", "streamline",
	"efficient", "effective", "experience", "skill", "knowledge", "proficient",
	"expert", "specialist", "professional", "certified", "trained", "educated",
	"competent", "responsible", "accountable", "proven", "demonstrated", "track record",

	// Technical terms
	"software", "hardware", "network", "database", "system", "application",
	"program", "code", "develop", "engineer", "architecture", "infrastructure",
	"security", "analytics", "automation", "integration", "solution", "platform",
	"framework", "methodology", "agile", "scrum", "kanban", "waterfall",
	"client", "server", "web", "mobile", "cloud", "saas", "paas", "iaas",
	"api", "interface", "frontend", "backend", "fullstack", "devops",

	// Business terms
	"revenue", "profit", "cost", "sales", "market", "customer", "client",
	"stakeholder", "roi", "kpi", "metric", "analysis", "strategy", "plan",
	"goal", "objective", "target", "forecast", "budget", "finance", "operation",
	"process", "procedure", "policy", "compliance", "regulation", "standard",
	"quality", "assurance", "control", "manage", "supervise", "direct", "lead",
}

// IndustryKeywords 返回行业关键词表的副本，供评分器使用
func IndustryKeywords() []string {
	out := make([]string, len(industryKeywords))
	copy(out, industryKeywords)
	return out
}
