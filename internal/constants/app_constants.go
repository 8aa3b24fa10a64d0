package constants

const (
	// Application-level constants
	AnalyzerVersion = "2.1.0" // Reported in response metadata

	// Scoring constants
	ATSScoreFloor    = 55.0
	ATSScoreCeiling  = 80.0
	ATSPassThreshold = 65.0
	ATSFallbackScore = 65.0 // Returned when scoring input is unusable
)

// Analysis kinds, also used as JSON field names in the report
const (
	AnalysisCareerTrajectory   = "career_trajectory"
	AnalysisSkillsAnalysis     = "skills_analysis"
	AnalysisResumeOptimization = "resume_optimization"
	AnalysisActionPlan         = "action_plan"
)

// Placeholder texts when a narrative analysis cannot be produced
const (
	TimeoutPlaceholder  = "Analysis could not be completed due to timeout. Please try again."
	ErrorPlaceholderFmt = "Analysis encountered an error: %s"
)
