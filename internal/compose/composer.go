// Package compose assembles every free-text and structured-guidance field of
// the output record. The external generator supplies prose; the composer owns
// the structure: word caps, link-freeness, list bounds, step ordering, the
// controlled question-type vocabulary and safety-deferring shaping. Nothing
// the generator returns is trusted past this package without enforcement.
package compose

import (
	"context"
	"fmt"
	"strings"

	"answer-pipeline/internal/classify"
	"answer-pipeline/internal/common/logger"
	"answer-pipeline/internal/derive"
	"answer-pipeline/internal/generator"
	"answer-pipeline/internal/record"
)

const (
	CapsuleMaxWords  = 25
	maxListEntries   = 3
	maxSteps         = 5
	minSteps         = 3
	maxTools         = 5
	nearDupThreshold = 0.9
)

// Sentences that talk about the machinery instead of the topic get dropped.
var metaPhrases = []string{
	"as an ai", "language model", "as a language", "this prompt", "the prompt",
	"my training", "i cannot provide", "i am unable", "as requested",
	"in this response", "this pipeline",
}

// Placeholder insights are worse than no insight.
var placeholderValues = map[string]bool{
	"n/a": true, "na": true, "tbd": true, "todo": true, "none": true,
	"placeholder": true, "lorem ipsum": true, "insert insight here": true,
}

const referralStep = "Book an appointment with a licensed professional and bring your notes from the steps above"

type Composer struct {
	gen    generator.Generator
	logger logger.Logger
}

func New(gen generator.Generator, log logger.Logger) *Composer {
	return &Composer{
		gen: gen,
		logger: log.With(map[string]interface{}{
			"component": "composer",
		}),
	}
}

// Compose invokes the generator and builds the record's content fields. The
// classification decides up front whether the generator is asked for a
// confident direct answer or a safety-deferring one. Pass-two classification
// fields are left for the caller.
func (c *Composer) Compose(ctx context.Context, nq record.NormalizedQuestion, cls record.Classification, repairNotes []string) (*record.OutputRecord, error) {
	mode := generator.ModeDirect
	if cls.ClarificationRequired && cls.YMYLRiskLevel.AtLeast(record.RiskHigh) {
		mode = generator.ModeSafetyDeferring
	}

	draft, err := c.gen.Generate(ctx, &generator.Request{
		CleanedQuestion: nq.CleanedQuestion,
		CanonicalQuery:  nq.CanonicalQuery,
		PrimaryIntent:   nq.PrimaryIntent,
		SubIntents:      nq.SubIntents,
		Mode:            mode,
		YMYLCategory:    cls.YMYLCategory,
		YMYLRiskLevel:   cls.YMYLRiskLevel,
		RepairNotes:     repairNotes,
	})
	if err != nil {
		return nil, err
	}

	capsule := c.sanitizeProse(draft.AnswerCapsule)
	capsule = derive.TruncateWords(capsule, CapsuleMaxWords)
	miniAnswer := c.buildMiniAnswer(draft.MiniAnswer, capsule)

	slug := derive.Slug(nq.CleanedQuestion)
	out := &record.OutputRecord{
		InputCheck: record.InputCheck{
			Flags:                 cls.Flags,
			ClarificationRequired: cls.ClarificationRequired,
		},
		MiniAnswer: miniAnswer,
		VaultNode: record.VaultNode{
			Slug:          slug,
			VerticalGuess: derive.VerticalGuess(nq.CanonicalQuery),
			CMNStatus:     record.CMNStatusDraft,
			PublicURL:     nil,
		},
		ShareBlocks: BuildShareBlocks(capsule, slug),
		DecisionFrame: record.DecisionFrame{
			QuestionType:   c.questionType(draft.QuestionType, nq, cls),
			Pros:           c.buildItems(draft.Pros, nq),
			Cons:           c.buildItems(draft.Cons, nq),
			PersonalChecks: c.buildChecks(draft.PersonalChecks),
		},
		IntentMap: record.IntentMap{
			CleanedQuestion:  nq.CleanedQuestion,
			CanonicalQuery:   nq.CanonicalQuery,
			PrimaryIntent:    nq.PrimaryIntent,
			SubIntents:       append([]string{}, nq.SubIntents...),
			NextBestQuestion: c.nextBestQuestion(draft.NextBestQuestion, nq),
		},
		ActionProtocol:   c.buildProtocol(draft, mode, cls),
		AnswerCapsule25W: capsule,
		OwnedInsight:     c.ownedInsight(draft.OwnedInsight),
		YMYLCategory:     cls.YMYLCategory,
		YMYLRiskLevel:    cls.YMYLRiskLevel,
	}

	if out.IntentMap.SubIntents == nil {
		out.IntentMap.SubIntents = []string{}
	}

	return out, nil
}

// BuildShareBlocks derives both share strings from the capsule and slug.
// answer_only is a strict prefix of answer_with_link by construction.
func BuildShareBlocks(capsule, slug string) record.ShareBlocks {
	return record.ShareBlocks{
		AnswerOnly:     capsule,
		AnswerWithLink: capsule + " (full breakdown: vault/" + slug + ")",
	}
}

// sanitizeProse strips links and meta sentences from generated prose.
func (c *Composer) sanitizeProse(text string) string {
	text = derive.StripURLs(text)
	sentences := splitSentences(text)
	kept := make([]string, 0, len(sentences))
	for _, s := range sentences {
		lower := strings.ToLower(s)
		meta := false
		for _, phrase := range metaPhrases {
			if strings.Contains(lower, phrase) {
				meta = true
				break
			}
		}
		if !meta {
			kept = append(kept, s)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// buildMiniAnswer sanitizes the mini answer and enforces lexical distance
// from the capsule: when the first sentence near-duplicates the capsule and a
// later sentence exists, the duplicate is dropped. A single-sentence
// duplicate is left in place for the validator to flag into a repair round.
func (c *Composer) buildMiniAnswer(miniAnswer, capsule string) string {
	mini := c.sanitizeProse(miniAnswer)
	first := derive.FirstSentence(mini)
	if first == "" || capsule == "" {
		return mini
	}
	if derive.TokenOverlap(first, capsule) > nearDupThreshold {
		remainder := strings.TrimSpace(strings.TrimPrefix(mini, first))
		if remainder != "" {
			c.logger.Debug("dropped duplicate lead sentence from mini answer", nil)
			return remainder
		}
	}
	return mini
}

func (c *Composer) ownedInsight(insight string) string {
	cleaned := c.sanitizeProse(insight)
	if placeholderValues[strings.ToLower(strings.TrimSpace(cleaned))] {
		return ""
	}
	return cleaned
}

// questionType trusts the draft when it names a known type, otherwise infers
// one from the dominant intent.
func (c *Composer) questionType(draftType string, nq record.NormalizedQuestion, cls record.Classification) record.QuestionType {
	for _, qt := range record.AllQuestionTypes {
		if draftType == string(qt) {
			return qt
		}
	}
	return InferQuestionType(nq, cls)
}

// InferQuestionType maps the dominant intent onto the controlled vocabulary.
func InferQuestionType(nq record.NormalizedQuestion, cls record.Classification) record.QuestionType {
	lower := strings.ToLower(nq.CleanedQuestion)
	words := derive.Words(nq.CleanedQuestion)

	switch {
	case strings.Contains(lower, " vs ") || strings.Contains(lower, " versus ") || strings.Contains(lower, "better than") || strings.Contains(lower, " or should"):
		return record.QuestionComparison
	case classify.IsExperiential(nq) || strings.Contains(lower, "not working") || strings.Contains(lower, "keeps ") || cls.YMYLCategory == record.YMYLHealth:
		return record.QuestionDiagnostic
	case len(words) > 0 && words[0] == "how":
		return record.QuestionHowTo
	case strings.Contains(lower, "worth buying") || strings.Contains(lower, "should i buy") || strings.Contains(lower, "worth it"):
		return record.QuestionPurchaseDecision
	case containsAny(words, "business", "money", "startup", "marketing", "dropshipping", "revenue", "customers", "sell", "selling"):
		return record.QuestionBusinessStrategy
	case len(words) > 0 && words[0] == "plan" || strings.Contains(lower, "roadmap") || strings.Contains(lower, "timeline"):
		return record.QuestionPlanning
	default:
		return record.QuestionFactual
	}
}

// nextBestQuestion keeps the draft's follow-up when it is genuinely narrower
// than the cleaned question; otherwise it synthesizes one from the first
// sub-intent or the canonical query.
func (c *Composer) nextBestQuestion(draftNext string, nq record.NormalizedQuestion) string {
	next := strings.TrimSpace(derive.StripURLs(draftNext))
	if next != "" && !sameQuestion(next, nq.CleanedQuestion) {
		return next
	}
	if len(nq.SubIntents) > 0 {
		topic := strings.ReplaceAll(nq.SubIntents[0], "_", " ")
		head := firstWord(nq.CanonicalQuery)
		return fmt.Sprintf("how do i %s for %s", topic, head)
	}
	return fmt.Sprintf("what does %s cost to resolve", nq.CanonicalQuery)
}

func sameQuestion(a, b string) bool {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return true
	}
	return derive.TokenOverlap(a, b) > nearDupThreshold && derive.WordCount(a) <= derive.WordCount(b)
}

func (c *Composer) buildItems(items []generator.DraftItem, nq record.NormalizedQuestion) []record.DecisionItem {
	out := make([]record.DecisionItem, 0, maxListEntries)
	for _, item := range items {
		if len(out) == maxListEntries {
			break
		}
		label := strings.TrimSpace(derive.StripURLs(item.Label))
		if label == "" {
			continue
		}
		spawn := strings.TrimSpace(item.SpawnQuestion)
		if spawn == "" {
			spawn = label + " " + firstWord(nq.CanonicalQuery)
		}
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, record.DecisionItem{
			Label:             label,
			Reason:            strings.TrimSpace(derive.StripURLs(item.Reason)),
			Tags:              tags,
			SpawnQuestionSlug: derive.Slug(spawn),
		})
	}
	return out
}

func (c *Composer) buildChecks(checks []generator.DraftCheck) []record.PersonalCheck {
	out := make([]record.PersonalCheck, 0, maxListEntries)
	for _, check := range checks {
		if len(out) == maxListEntries {
			break
		}
		label := strings.TrimSpace(check.Label)
		if label == "" {
			continue
		}
		dimension := record.DimensionGeneral
		for _, d := range record.AllCheckDimensions {
			if check.Dimension == string(d) {
				dimension = d
				break
			}
		}
		out = append(out, record.PersonalCheck{
			Label:     label,
			Prompt:    strings.TrimSpace(check.Prompt),
			Dimension: dimension,
		})
	}
	return out
}

// buildProtocol bounds the step list and applies safety shaping: a gated
// request always ends in a professional referral and is typed talk_to_pro.
func (c *Composer) buildProtocol(draft *generator.Draft, mode generator.AnswerMode, cls record.Classification) record.ActionProtocol {
	ptype := record.ProtocolResearch
	for _, t := range record.AllProtocolTypes {
		if draft.ProtocolType == string(t) {
			ptype = t
			break
		}
	}

	steps := make([]string, 0, maxSteps)
	for _, s := range draft.Steps {
		s = strings.TrimSpace(derive.StripURLs(s))
		if s == "" {
			continue
		}
		steps = append(steps, s)
		if len(steps) == maxSteps {
			break
		}
	}

	tools := make([]string, 0, maxTools)
	for _, tool := range draft.RecommendedTools {
		tool = strings.TrimSpace(tool)
		if tool == "" {
			continue
		}
		tools = append(tools, tool)
		if len(tools) == maxTools {
			break
		}
	}

	if mode == generator.ModeSafetyDeferring {
		ptype = record.ProtocolTalkToPro
		if !hasReferralStep(steps) {
			if len(steps) == maxSteps {
				steps = steps[:maxSteps-1]
			}
			steps = append(steps, referralStep)
		}
		if !hasProfessionalTool(tools) {
			if len(tools) == maxTools {
				tools = tools[:maxTools-1]
			}
			tools = append(tools, professionalToolFor(cls.YMYLCategory))
		}
	}

	effort := strings.TrimSpace(draft.EstimatedEffort)
	if effort == "" {
		effort = "varies"
	}

	return record.ActionProtocol{
		Type:             ptype,
		Steps:            steps,
		EstimatedEffort:  effort,
		RecommendedTools: tools,
	}
}

func hasReferralStep(steps []string) bool {
	for _, s := range steps {
		lower := strings.ToLower(s)
		if strings.Contains(lower, "professional") || strings.Contains(lower, "doctor") ||
			strings.Contains(lower, "licensed") || strings.Contains(lower, "advisor") ||
			strings.Contains(lower, "attorney") {
			return true
		}
	}
	return false
}

func hasProfessionalTool(tools []string) bool {
	for _, t := range tools {
		lower := strings.ToLower(t)
		if strings.Contains(lower, "licensed") || strings.Contains(lower, "professional") ||
			strings.Contains(lower, "physician") || strings.Contains(lower, "attorney") ||
			strings.Contains(lower, "advisor") {
			return true
		}
	}
	return false
}

func professionalToolFor(category record.YMYLCategory) string {
	switch category {
	case record.YMYLHealth:
		return "licensed physician or urgent care clinic"
	case record.YMYLFinancial:
		return "licensed financial advisor"
	case record.YMYLLegal:
		return "licensed attorney"
	default:
		return "licensed professional in this field"
	}
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func firstWord(text string) string {
	words := derive.Words(text)
	if len(words) == 0 {
		return "this"
	}
	return words[0]
}

func containsAny(words []string, targets ...string) bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	for _, t := range targets {
		if set[t] {
			return true
		}
	}
	return false
}
