package validate

import (
	"fmt"
	"strings"

	"answer-pipeline/internal/classify"
	"answer-pipeline/internal/derive"
	"answer-pipeline/internal/record"
)

const (
	capsuleMaxWords  = 25
	nearDupThreshold = 0.9
)

// Validate runs the full contract check: schema shape first, then the
// cross-field invariants. The returned list is empty only for an acceptable
// record.
func Validate(out *record.OutputRecord) ([]Violation, error) {
	violations, err := ValidateShape(out)
	if err != nil {
		return nil, err
	}
	violations = append(violations, CheckInvariants(out)...)
	return violations, nil
}

// CheckInvariants verifies the cross-field rules the schema alone cannot
// express.
func CheckInvariants(out *record.OutputRecord) []Violation {
	var violations []Violation

	add := func(field, format string, args ...interface{}) {
		violations = append(violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// YMYL category always travels with the safety flag.
	if out.YMYLCategory != record.YMYLNone && !hasFlag(out.InputCheck.Flags, record.FlagSafetyRisk) {
		add("inputcheck.flags", "ymyl_category %q requires the safety_risk flag", out.YMYLCategory)
	}

	// A clarification-gated answer is never scored as confidently complete.
	if out.InputCheck.ClarificationRequired && out.InputCheck.Score10 > classify.ClarificationScoreCeiling {
		add("inputcheck.score_10", "clarification_required caps score_10 at %d, got %d",
			classify.ClarificationScoreCeiling, out.InputCheck.Score10)
	}

	// answer_only must be a strict prefix of answer_with_link.
	if !strings.HasPrefix(out.ShareBlocks.AnswerWithLink, out.ShareBlocks.AnswerOnly) ||
		len(out.ShareBlocks.AnswerWithLink) <= len(out.ShareBlocks.AnswerOnly) {
		add("share_blocks", "answer_only must be a strict prefix of answer_with_link")
	}

	// Slug is the deterministic derivation of cleaned_question.
	if expected := derive.Slug(out.IntentMap.CleanedQuestion); out.VaultNode.Slug != expected {
		add("vault_node.slug", "slug %q does not match derivation %q of cleaned_question", out.VaultNode.Slug, expected)
	}

	// Mini answer must not lead with the capsule.
	first := derive.FirstSentence(out.MiniAnswer)
	if first == out.AnswerCapsule25W {
		add("mini_answer", "first sentence is identical to answer_capsule_25w")
	} else if derive.TokenOverlap(first, out.AnswerCapsule25W) > nearDupThreshold {
		add("mini_answer", "first sentence near-duplicates answer_capsule_25w")
	}

	if derive.WordCount(out.AnswerCapsule25W) > capsuleMaxWords {
		add("answer_capsule_25w", "capsule exceeds %d words", capsuleMaxWords)
	}

	// Capsule and mini answer are citation surfaces; links are forbidden.
	if derive.ContainsURL(out.AnswerCapsule25W) {
		add("answer_capsule_25w", "capsule must not contain URLs")
	}
	if derive.ContainsURL(out.MiniAnswer) {
		add("mini_answer", "mini answer must not contain URLs")
	}

	if out.VaultNode.CMNStatus != record.CMNStatusDraft {
		add("vault_node.cmn_status", "emitted records are always %q", record.CMNStatusDraft)
	}
	if out.VaultNode.PublicURL != nil {
		add("vault_node.public_url", "public_url must be null; promotion is owned downstream")
	}

	// The schema bounds these too, but checking here keeps the repair notes
	// readable when a draft overflows.
	if n := len(out.DecisionFrame.Pros); n > 3 {
		add("decision_frame.pros", "at most 3 pros, got %d", n)
	}
	if n := len(out.DecisionFrame.Cons); n > 3 {
		add("decision_frame.cons", "at most 3 cons, got %d", n)
	}
	if n := len(out.DecisionFrame.PersonalChecks); n > 3 {
		add("decision_frame.personal_checks", "at most 3 personal checks, got %d", n)
	}
	if n := len(out.ActionProtocol.Steps); n < 3 || n > 5 {
		add("action_protocol.steps", "between 3 and 5 steps required, got %d", n)
	}

	return violations
}

func hasFlag(flags []record.Flag, want record.Flag) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
