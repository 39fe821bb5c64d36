// Package generator defines the capability boundary to the external text
// generation service. Everything past this boundary is fallible and
// untrusted: drafts are validated and repaired by the pipeline, never taken
// at face value.
package generator

import (
	"context"
	"errors"

	"answer-pipeline/internal/record"
)

var (
	ErrGeneratorTimeout = errors.New("GENERATOR_TIMEOUT")
	ErrGeneratorFailed  = errors.New("GENERATOR_FAILED")
)

// AnswerMode tells the generator how confident the prose may be.
type AnswerMode string

const (
	// ModeDirect asks for a confident, complete general-information answer.
	ModeDirect AnswerMode = "direct"
	// ModeSafetyDeferring asks for general information only, deferring to a
	// professional for anything situation-specific.
	ModeSafetyDeferring AnswerMode = "safety_deferring"
)

// Request is the prompt context handed to the generator. RepairNotes carries
// the concrete validation violations of the previous draft when the repair
// loop re-invokes generation.
type Request struct {
	CleanedQuestion string              `json:"cleaned_question"`
	CanonicalQuery  string              `json:"canonical_query"`
	PrimaryIntent   string              `json:"primary_intent"`
	SubIntents      []string            `json:"sub_intents"`
	Mode            AnswerMode          `json:"mode"`
	YMYLCategory    record.YMYLCategory `json:"ymyl_category"`
	YMYLRiskLevel   record.RiskLevel    `json:"ymyl_risk_level"`
	RepairNotes     []string            `json:"repair_notes,omitempty"`
}

// DraftItem is a generated pro or con candidate.
type DraftItem struct {
	Label         string   `json:"label"`
	Reason        string   `json:"reason"`
	Tags          []string `json:"tags"`
	SpawnQuestion string   `json:"spawn_question"`
}

// DraftCheck is a generated personal-check candidate.
type DraftCheck struct {
	Label     string `json:"label"`
	Prompt    string `json:"prompt"`
	Dimension string `json:"dimension"`
}

// Draft is the generator's structured output. Every field is advisory; the
// composer enforces the structural rules and the validator the contract.
type Draft struct {
	AnswerCapsule    string       `json:"answer_capsule"`
	MiniAnswer       string       `json:"mini_answer"`
	OwnedInsight     string       `json:"owned_insight"`
	NextBestQuestion string       `json:"next_best_question"`
	QuestionType     string       `json:"question_type"`
	Pros             []DraftItem  `json:"pros"`
	Cons             []DraftItem  `json:"cons"`
	PersonalChecks   []DraftCheck `json:"personal_checks"`
	ProtocolType     string       `json:"protocol_type"`
	Steps            []string     `json:"steps"`
	EstimatedEffort  string       `json:"estimated_effort"`
	RecommendedTools []string     `json:"recommended_tools"`
}

// Generator is the single fallible operation exposed by the external text
// service.
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Draft, error)
}
