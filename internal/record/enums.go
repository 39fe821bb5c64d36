package record

// Closed vocabularies for every categorical field. The external contract
// serializes these as plain strings; modeling them as typed constants keeps
// categories from drifting.

type Flag string

const (
	FlagVagueScope     Flag = "vague_scope"
	FlagStackedAsks    Flag = "stacked_asks"
	FlagMissingContext Flag = "missing_context"
	FlagSafetyRisk     Flag = "safety_risk"
	FlagOffTopic       Flag = "off_topic"
)

var AllFlags = []Flag{FlagVagueScope, FlagStackedAsks, FlagMissingContext, FlagSafetyRisk, FlagOffTopic}

type YMYLCategory string

const (
	YMYLNone          YMYLCategory = "none"
	YMYLHealth        YMYLCategory = "health"
	YMYLFinancial     YMYLCategory = "financial"
	YMYLLegal         YMYLCategory = "legal"
	YMYLCareer        YMYLCategory = "career"
	YMYLRelationships YMYLCategory = "relationships"
)

var AllYMYLCategories = []YMYLCategory{YMYLNone, YMYLHealth, YMYLFinancial, YMYLLegal, YMYLCareer, YMYLRelationships}

type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var AllRiskLevels = []RiskLevel{RiskNone, RiskLow, RiskMedium, RiskHigh, RiskCritical}

// AtLeast reports whether r is at or above the given level in severity order.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return riskRank(r) >= riskRank(other)
}

func riskRank(r RiskLevel) int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

type GradeLabel string

const (
	GradePoor      GradeLabel = "poor"
	GradeWeak      GradeLabel = "weak"
	GradeFair      GradeLabel = "fair"
	GradeSolid     GradeLabel = "solid"
	GradeStrong    GradeLabel = "strong"
	GradeExcellent GradeLabel = "excellent"
)

var AllGradeLabels = []GradeLabel{GradePoor, GradeWeak, GradeFair, GradeSolid, GradeStrong, GradeExcellent}

type TriLevel string

const (
	TriLow    TriLevel = "low"
	TriMedium TriLevel = "medium"
	TriHigh   TriLevel = "high"
)

var AllTriLevels = []TriLevel{TriLow, TriMedium, TriHigh}

type QueryComplexity string

const (
	ComplexitySimple   QueryComplexity = "simple"
	ComplexityModerate QueryComplexity = "moderate"
	ComplexityComplex  QueryComplexity = "complex"
)

var AllQueryComplexities = []QueryComplexity{ComplexitySimple, ComplexityModerate, ComplexityComplex}

type VulnerabilityProfile string

const (
	ProfileCommodity  VulnerabilityProfile = "commodity"
	ProfileContested  VulnerabilityProfile = "contested"
	ProfileDefensible VulnerabilityProfile = "defensible"
)

var AllVulnerabilityProfiles = []VulnerabilityProfile{ProfileCommodity, ProfileContested, ProfileDefensible}

type UsagePolicyHint string

const (
	PolicyAllowFull       UsagePolicyHint = "allow_full"
	PolicyAllowAttributed UsagePolicyHint = "allow_attributed"
	PolicySummaryOnly     UsagePolicyHint = "summary_only"
)

var AllUsagePolicyHints = []UsagePolicyHint{PolicyAllowFull, PolicyAllowAttributed, PolicySummaryOnly}

type QuestionType string

const (
	QuestionDiagnostic       QuestionType = "diagnostic"
	QuestionHowTo            QuestionType = "how_to"
	QuestionComparison       QuestionType = "comparison"
	QuestionPurchaseDecision QuestionType = "purchase_decision"
	QuestionBusinessStrategy QuestionType = "business_strategy"
	QuestionFactual          QuestionType = "factual"
	QuestionPlanning         QuestionType = "planning"
)

var AllQuestionTypes = []QuestionType{
	QuestionDiagnostic, QuestionHowTo, QuestionComparison, QuestionPurchaseDecision,
	QuestionBusinessStrategy, QuestionFactual, QuestionPlanning,
}

type ProtocolType string

const (
	ProtocolDIY       ProtocolType = "diy"
	ProtocolResearch  ProtocolType = "research"
	ProtocolDecision  ProtocolType = "decision"
	ProtocolTalkToPro ProtocolType = "talk_to_pro"
)

var AllProtocolTypes = []ProtocolType{ProtocolDIY, ProtocolResearch, ProtocolDecision, ProtocolTalkToPro}

type CheckDimension string

const (
	DimensionFinancial     CheckDimension = "financial"
	DimensionHealth        CheckDimension = "health"
	DimensionTime          CheckDimension = "time"
	DimensionRelationships CheckDimension = "relationships"
	DimensionSkillsProfile CheckDimension = "skills_profile"
	DimensionGeneral       CheckDimension = "general"
)

var AllCheckDimensions = []CheckDimension{
	DimensionFinancial, DimensionHealth, DimensionTime,
	DimensionRelationships, DimensionSkillsProfile, DimensionGeneral,
}

// GradeForScore maps a 0-10 score to its band label. Monotone by construction.
func GradeForScore(score int) GradeLabel {
	switch {
	case score >= 9:
		return GradeExcellent
	case score >= 8:
		return GradeStrong
	case score >= 6:
		return GradeSolid
	case score >= 4:
		return GradeFair
	case score >= 2:
		return GradeWeak
	default:
		return GradePoor
	}
}
