// Package classify implements the two-pass question classifier. Pass one
// works from text alone and decides the gating fields (flags, YMYL risk,
// clarification). Pass two runs after composition and fills score, grade and
// the AI-era metadata from fixed decision tables. Both passes are pure
// functions over immutable snapshots so ordering and idempotence stay
// testable.
package classify

import (
	"strings"

	"answer-pipeline/internal/derive"
	"answer-pipeline/internal/record"
)

// ClarificationScoreCeiling caps score_10 whenever clarification is required:
// an answer that hinges on missing personal variables is never presented as
// confidently complete.
const ClarificationScoreCeiling = 6

// flaggedScoreCeiling reserves 8-10 for unambiguous, safe questions.
const flaggedScoreCeiling = 7

type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// PassOne classifies from the normalized question alone, before any content
// exists. The returned Classification leaves score/grade and the AI-era
// fields at zero values; PassTwo owns those.
func (c *Classifier) PassOne(raw string, nq record.NormalizedQuestion) record.Classification {
	lower := strings.ToLower(nq.CleanedQuestion)
	words := derive.Words(nq.CleanedQuestion)

	category, risk := classifyYMYL(lower)

	var flags []record.Flag
	if isVagueScope(nq, words) {
		flags = append(flags, record.FlagVagueScope)
	}
	if isStackedAsks(raw, nq) {
		flags = append(flags, record.FlagStackedAsks)
	}
	missingContext := isMissingContext(lower, words)
	if missingContext {
		flags = append(flags, record.FlagMissingContext)
	}
	if category != record.YMYLNone {
		// Any YMYL category implies the safety_risk flag.
		flags = append(flags, record.FlagSafetyRisk)
	}
	if isOffTopic(raw, lower, words) {
		flags = append(flags, record.FlagOffTopic)
	}
	if flags == nil {
		flags = []record.Flag{}
	}

	clarification := risk.AtLeast(record.RiskHigh) ||
		(missingContext && category != record.YMYLNone)

	return record.Classification{
		Flags:                 flags,
		ClarificationRequired: clarification,
		YMYLCategory:          category,
		YMYLRiskLevel:         risk,
	}
}

// ContentSignals carries the composed-content facts pass two keys on.
type ContentSignals struct {
	CapsulePresent  bool
	OwnedInsight    bool
	ExperientialCtx bool
}

// Signals derives ContentSignals from the normalized question and composed
// fields.
func Signals(nq record.NormalizedQuestion, capsule, ownedInsight string) ContentSignals {
	return ContentSignals{
		CapsulePresent:  strings.TrimSpace(capsule) != "",
		OwnedInsight:    strings.TrimSpace(ownedInsight) != "",
		ExperientialCtx: IsExperiential(nq),
	}
}

// IsExperiential reports whether the question depends on local, physical or
// hands-on context.
func IsExperiential(nq record.NormalizedQuestion) bool {
	for _, w := range derive.Words(nq.CanonicalQuery) {
		if experientialWords[w] {
			return true
		}
	}
	return false
}

// PassTwo finalizes the classification using the composed content. The pass
// one snapshot is copied, never mutated.
func (c *Classifier) PassTwo(nq record.NormalizedQuestion, first record.Classification, sig ContentSignals) record.Classification {
	final := first
	final.Flags = append([]record.Flag{}, first.Flags...)

	final.Score10 = c.score(first, sig)
	final.GradeLabel = record.GradeForScore(final.Score10)
	final.QueryComplexity = c.complexity(nq, first)
	final.AIDisplacementRisk = c.displacementRisk(final.QueryComplexity, sig)
	final.PublisherProfile = c.publisherProfile(final.AIDisplacementRisk, sig)
	final.AICitationPotential = c.citationPotential(final, sig)
	final.AIUsagePolicyHint = c.usagePolicyHint(first, sig)
	return final
}

// score starts at 9 and pays a fixed price per flag; owned insight earns one
// point back. Flagged questions top out at 7 and clarification caps the
// result at the conservative ceiling.
func (c *Classifier) score(first record.Classification, sig ContentSignals) int {
	score := 9
	for _, f := range first.Flags {
		switch f {
		case record.FlagVagueScope:
			score -= 2
		case record.FlagStackedAsks:
			score--
		case record.FlagMissingContext:
			score -= 2
		case record.FlagOffTopic:
			score -= 5
		case record.FlagSafetyRisk:
			score--
		}
	}
	if sig.OwnedInsight {
		score++
	}
	if len(first.Flags) > 0 && score > flaggedScoreCeiling {
		score = flaggedScoreCeiling
	}
	if first.ClarificationRequired && score > ClarificationScoreCeiling {
		score = ClarificationScoreCeiling
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

func (c *Classifier) complexity(nq record.NormalizedQuestion, first record.Classification) record.QueryComplexity {
	if first.HasFlag(record.FlagStackedAsks) || len(nq.SubIntents) >= 2 || first.ClarificationRequired {
		return record.ComplexityComplex
	}
	if len(nq.SubIntents) == 0 && derive.WordCount(nq.CanonicalQuery) <= 6 {
		return record.ComplexitySimple
	}
	return record.ComplexityModerate
}

func (c *Classifier) displacementRisk(complexity record.QueryComplexity, sig ContentSignals) record.TriLevel {
	if sig.OwnedInsight || sig.ExperientialCtx {
		return record.TriLow
	}
	if complexity == record.ComplexitySimple {
		return record.TriHigh
	}
	return record.TriMedium
}

func (c *Classifier) publisherProfile(displacement record.TriLevel, sig ContentSignals) record.VulnerabilityProfile {
	if sig.OwnedInsight || sig.ExperientialCtx {
		return record.ProfileDefensible
	}
	if displacement == record.TriHigh {
		return record.ProfileCommodity
	}
	return record.ProfileContested
}

func (c *Classifier) citationPotential(final record.Classification, sig ContentSignals) record.TriLevel {
	if final.HasFlag(record.FlagOffTopic) || final.ClarificationRequired {
		return record.TriLow
	}
	if final.Score10 >= 7 && sig.CapsulePresent {
		return record.TriHigh
	}
	return record.TriMedium
}

func (c *Classifier) usagePolicyHint(first record.Classification, sig ContentSignals) record.UsagePolicyHint {
	if first.YMYLRiskLevel.AtLeast(record.RiskHigh) {
		return record.PolicySummaryOnly
	}
	if sig.OwnedInsight || first.YMYLRiskLevel == record.RiskMedium {
		return record.PolicyAllowAttributed
	}
	return record.PolicyAllowFull
}

func classifyYMYL(lower string) (record.YMYLCategory, record.RiskLevel) {
	var category record.YMYLCategory = record.YMYLNone
	// Deterministic category precedence: health > financial > legal > career > relationships.
	for _, cat := range []record.YMYLCategory{
		record.YMYLHealth, record.YMYLFinancial, record.YMYLLegal,
		record.YMYLCareer, record.YMYLRelationships,
	} {
		for _, phrase := range ymylPhrases[cat] {
			if strings.Contains(lower, phrase) {
				category = cat
				break
			}
		}
		if category != record.YMYLNone {
			break
		}
	}

	if category == record.YMYLNone {
		return record.YMYLNone, record.RiskNone
	}

	for _, phrase := range emergencyPhrases {
		if strings.Contains(lower, phrase) {
			return category, record.RiskCritical
		}
	}

	personal := false
	for _, cue := range personalCues {
		if strings.Contains(lower, cue) {
			personal = true
			break
		}
	}
	if personal {
		switch category {
		case record.YMYLHealth, record.YMYLFinancial, record.YMYLLegal:
			return category, record.RiskHigh
		}
		return category, record.RiskMedium
	}
	return category, record.RiskMedium
}

func isVagueScope(nq record.NormalizedQuestion, words []string) bool {
	if len(words) <= 3 {
		return true
	}
	if derive.WordCount(nq.CanonicalQuery) < 2 {
		return true
	}
	switch {
	case strings.HasPrefix(strings.ToLower(nq.CleanedQuestion), "it "),
		strings.HasPrefix(strings.ToLower(nq.CleanedQuestion), "this "),
		strings.HasPrefix(strings.ToLower(nq.CleanedQuestion), "that "):
		return true
	}
	return false
}

func isStackedAsks(raw string, nq record.NormalizedQuestion) bool {
	if len(nq.SubIntents) >= 1 {
		return true
	}
	return strings.Count(raw, "?") >= 2
}

func isMissingContext(lower string, words []string) bool {
	cue := false
	for _, c := range personalCues {
		if strings.Contains(lower, c) {
			cue = true
			break
		}
	}
	if !cue {
		return false
	}
	for _, w := range words {
		for _, r := range w {
			if r >= '0' && r <= '9' {
				// Concrete figures usually mean the asker supplied their variables.
				return false
			}
		}
	}
	return len(words) < 14
}

func isOffTopic(raw, lower string, words []string) bool {
	if len(words) < 2 {
		return true
	}
	hasCue := strings.Contains(raw, "?")
	if !hasCue {
		for _, w := range words {
			if derive.IsQueryStopword(w) && w != "a" && w != "an" && w != "the" && w != "of" && w != "to" && w != "it" && w != "its" && w != "my" && w != "me" && w != "i" {
				hasCue = true
				break
			}
		}
	}
	if hasCue {
		return false
	}
	// No question shape at all: spammy link bait or too thin to carry a topic.
	if derive.ContainsURL(raw) {
		return true
	}
	return len(words) < 4
}
