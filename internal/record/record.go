// Package record defines the structured output contract of the answer
// pipeline: the OutputRecord aggregate, its nested blocks, and the closed
// vocabularies every categorical field draws from.
package record

// NormalizedQuestion is the immutable result of the normalization stage.
type NormalizedQuestion struct {
	CleanedQuestion string   `json:"cleaned_question"`
	CanonicalQuery  string   `json:"canonical_query"`
	PrimaryIntent   string   `json:"primary_intent"`
	SubIntents      []string `json:"sub_intents"`
}

// Classification holds both classifier passes. Pass one fills the gating
// fields; pass two fills score, grade and the AI-era fields.
type Classification struct {
	Flags                 []Flag               `json:"flags"`
	Score10               int                  `json:"score_10"`
	GradeLabel            GradeLabel           `json:"grade_label"`
	ClarificationRequired bool                 `json:"clarification_required"`
	YMYLCategory          YMYLCategory         `json:"ymyl_category"`
	YMYLRiskLevel         RiskLevel            `json:"ymyl_risk_level"`
	AIDisplacementRisk    TriLevel             `json:"ai_displacement_risk"`
	QueryComplexity       QueryComplexity      `json:"query_complexity"`
	PublisherProfile      VulnerabilityProfile `json:"publisher_vulnerability_profile"`
	AICitationPotential   TriLevel             `json:"ai_citation_potential"`
	AIUsagePolicyHint     UsagePolicyHint      `json:"ai_usage_policy_hint"`
}

// HasFlag reports whether the classification carries the given flag.
func (c Classification) HasFlag(f Flag) bool {
	for _, have := range c.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// InputCheck is the classification block surfaced in the output record.
type InputCheck struct {
	Flags                 []Flag     `json:"flags"`
	Score10               int        `json:"score_10"`
	GradeLabel            GradeLabel `json:"grade_label"`
	ClarificationRequired bool       `json:"clarification_required"`
}

// IntentMap surfaces the normalized question plus the follow-up suggestion.
type IntentMap struct {
	CleanedQuestion  string   `json:"cleaned_question"`
	CanonicalQuery   string   `json:"canonical_query"`
	PrimaryIntent    string   `json:"primary_intent"`
	SubIntents       []string `json:"sub_intents"`
	NextBestQuestion string   `json:"next_best_question"`
}

// VaultNode is the record's storage envelope. CMNStatus is always "draft" and
// PublicURL always null for records emitted by this pipeline; promotion is
// owned downstream.
type VaultNode struct {
	Slug          string  `json:"slug"`
	VerticalGuess string  `json:"vertical_guess"`
	CMNStatus     string  `json:"cmn_status"`
	PublicURL     *string `json:"public_url"`
}

// ShareBlocks are pure functions of the normalized question and capsule.
// AnswerOnly must be a strict prefix of AnswerWithLink.
type ShareBlocks struct {
	AnswerOnly     string `json:"answer_only"`
	AnswerWithLink string `json:"answer_with_link"`
}

// DecisionItem is one pro or con in the decision frame.
type DecisionItem struct {
	Label             string   `json:"label"`
	Reason            string   `json:"reason"`
	Tags              []string `json:"tags"`
	SpawnQuestionSlug string   `json:"spawn_question_slug"`
}

// PersonalCheck prompts the reader to test the answer against their own
// situation along one dimension.
type PersonalCheck struct {
	Label     string         `json:"label"`
	Prompt    string         `json:"prompt"`
	Dimension CheckDimension `json:"dimension"`
}

type DecisionFrame struct {
	QuestionType   QuestionType    `json:"question_type"`
	Pros           []DecisionItem  `json:"pros"`
	Cons           []DecisionItem  `json:"cons"`
	PersonalChecks []PersonalCheck `json:"personal_checks"`
}

// ActionProtocol lists 3-5 literally orderable steps.
type ActionProtocol struct {
	Type             ProtocolType `json:"type"`
	Steps            []string     `json:"steps"`
	EstimatedEffort  string       `json:"estimated_effort"`
	RecommendedTools []string     `json:"recommended_tools"`
}

// OutputRecord is the full composed aggregate. Key set, nesting and names are
// fixed; emitting anything else is a contract violation.
type OutputRecord struct {
	InputCheck          InputCheck           `json:"inputcheck"`
	MiniAnswer          string               `json:"mini_answer"`
	VaultNode           VaultNode            `json:"vault_node"`
	ShareBlocks         ShareBlocks          `json:"share_blocks"`
	DecisionFrame       DecisionFrame        `json:"decision_frame"`
	IntentMap           IntentMap            `json:"intent_map"`
	ActionProtocol      ActionProtocol       `json:"action_protocol"`
	AnswerCapsule25W    string               `json:"answer_capsule_25w"`
	OwnedInsight        string               `json:"owned_insight"`
	AIDisplacementRisk  TriLevel             `json:"ai_displacement_risk"`
	QueryComplexity     QueryComplexity      `json:"query_complexity"`
	PublisherProfile    VulnerabilityProfile `json:"publisher_vulnerability_profile"`
	AICitationPotential TriLevel             `json:"ai_citation_potential"`
	AIUsagePolicyHint   UsagePolicyHint      `json:"ai_usage_policy_hint"`
	YMYLCategory        YMYLCategory         `json:"ymyl_category"`
	YMYLRiskLevel       RiskLevel            `json:"ymyl_risk_level"`
}

// CMNStatusDraft is the only status this pipeline ever emits.
const CMNStatusDraft = "draft"
