package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"answer-pipeline/internal/record"
)

func chestPainQuestion() record.NormalizedQuestion {
	return record.NormalizedQuestion{
		CleanedQuestion: "I have chest pain and shortness of breath what should I do",
		CanonicalQuery:  "have chest pain and shortness breath",
		PrimaryIntent:   "chest_pain_shortness",
		SubIntents:      []string{},
	}
}

func jeepLeakQuestion() record.NormalizedQuestion {
	return record.NormalizedQuestion{
		CleanedQuestion: "My jeep wrangler leaks water from the a pillar when it rains",
		CanonicalQuery:  "jeep wrangler leaks water from pillar rains",
		PrimaryIntent:   "jeep_wrangler_leaks",
		SubIntents:      []string{},
	}
}

func TestPassOne_HealthEmergency(t *testing.T) {
	c := New()
	nq := chestPainQuestion()

	cls := c.PassOne("I have chest pain and shortness of breath, what should I do?", nq)

	assert.Equal(t, record.YMYLHealth, cls.YMYLCategory)
	assert.Equal(t, record.RiskCritical, cls.YMYLRiskLevel)
	assert.True(t, cls.ClarificationRequired)
	assert.Contains(t, cls.Flags, record.FlagSafetyRisk)
	assert.Contains(t, cls.Flags, record.FlagMissingContext)
}

func TestPassOne_CleanDiagnosticQuestion(t *testing.T) {
	c := New()
	nq := jeepLeakQuestion()

	cls := c.PassOne("My jeep wrangler leaks water from the a-pillar when it rains. What could be causing this?", nq)

	assert.Empty(t, cls.Flags)
	assert.False(t, cls.ClarificationRequired)
	assert.Equal(t, record.YMYLNone, cls.YMYLCategory)
	assert.Equal(t, record.RiskNone, cls.YMYLRiskLevel)
}

func TestPassOne_StackedAsks(t *testing.T) {
	c := New()
	nq := record.NormalizedQuestion{
		CleanedQuestion: "How do I start a dropshipping business",
		CanonicalQuery:  "start dropshipping business",
		PrimaryIntent:   "start_dropshipping_business",
		SubIntents:      []string{"find_suppliers"},
	}

	cls := c.PassOne("How do I start a dropshipping business and also how do I find suppliers?", nq)

	assert.Contains(t, cls.Flags, record.FlagStackedAsks)
	assert.False(t, cls.ClarificationRequired)
	assert.Equal(t, record.YMYLNone, cls.YMYLCategory)
}

func TestPassOne_VagueScope(t *testing.T) {
	c := New()
	nq := record.NormalizedQuestion{
		CleanedQuestion: "is it worth it",
		CanonicalQuery:  "worth",
		PrimaryIntent:   "worth",
		SubIntents:      []string{},
	}

	cls := c.PassOne("is it worth it?", nq)

	assert.Contains(t, cls.Flags, record.FlagVagueScope)
}

func TestPassOne_OffTopicSpam(t *testing.T) {
	c := New()
	nq := record.NormalizedQuestion{
		CleanedQuestion: "buy followers cheap",
		CanonicalQuery:  "buy followers cheap",
		PrimaryIntent:   "buy_followers_cheap",
		SubIntents:      []string{},
	}

	cls := c.PassOne("buy followers cheap fast-growth.example.com", nq)

	assert.Contains(t, cls.Flags, record.FlagOffTopic)
}

func TestPassOne_FinancialPersonal(t *testing.T) {
	c := New()
	nq := record.NormalizedQuestion{
		CleanedQuestion: "Should I invest my savings in crypto",
		CanonicalQuery:  "invest savings in crypto",
		PrimaryIntent:   "invest_savings_crypto",
		SubIntents:      []string{},
	}

	cls := c.PassOne("Should I invest my savings in crypto?", nq)

	assert.Equal(t, record.YMYLFinancial, cls.YMYLCategory)
	assert.Equal(t, record.RiskHigh, cls.YMYLRiskLevel)
	assert.True(t, cls.ClarificationRequired)
}

func TestPassTwo_ScoreAndCeilings(t *testing.T) {
	c := New()

	tests := []struct {
		name          string
		nq            record.NormalizedQuestion
		first         record.Classification
		sig           ContentSignals
		expectedScore int
		expectedGrade record.GradeLabel
	}{
		{
			name: "clean question with owned insight hits the top",
			nq:   jeepLeakQuestion(),
			first: record.Classification{
				Flags: []record.Flag{},
			},
			sig:           ContentSignals{CapsulePresent: true, OwnedInsight: true, ExperientialCtx: true},
			expectedScore: 10,
			expectedGrade: record.GradeExcellent,
		},
		{
			name: "stacked asks caps at seven",
			nq: record.NormalizedQuestion{
				CleanedQuestion: "How do I start a dropshipping business",
				CanonicalQuery:  "start dropshipping business",
				SubIntents:      []string{"find_suppliers"},
			},
			first: record.Classification{
				Flags: []record.Flag{record.FlagStackedAsks},
			},
			sig:           ContentSignals{CapsulePresent: true},
			expectedScore: 7,
			expectedGrade: record.GradeSolid,
		},
		{
			name: "clarification caps at six",
			nq:   chestPainQuestion(),
			first: record.Classification{
				Flags:                 []record.Flag{record.FlagMissingContext, record.FlagSafetyRisk},
				ClarificationRequired: true,
				YMYLCategory:          record.YMYLHealth,
				YMYLRiskLevel:         record.RiskCritical,
			},
			sig:           ContentSignals{CapsulePresent: true},
			expectedScore: 6,
			expectedGrade: record.GradeSolid,
		},
		{
			name: "off topic sinks the score",
			nq: record.NormalizedQuestion{
				CleanedQuestion: "buy followers cheap",
				CanonicalQuery:  "buy followers cheap",
			},
			first: record.Classification{
				Flags: []record.Flag{record.FlagOffTopic, record.FlagVagueScope},
			},
			sig:           ContentSignals{CapsulePresent: true},
			expectedScore: 2,
			expectedGrade: record.GradeWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final := c.PassTwo(tt.nq, tt.first, tt.sig)
			assert.Equal(t, tt.expectedScore, final.Score10)
			assert.Equal(t, tt.expectedGrade, final.GradeLabel)
		})
	}
}

func TestPassTwo_AIEraFields(t *testing.T) {
	c := New()

	t.Run("experiential question is defensible", func(t *testing.T) {
		final := c.PassTwo(jeepLeakQuestion(), record.Classification{Flags: []record.Flag{}},
			ContentSignals{CapsulePresent: true, OwnedInsight: true, ExperientialCtx: true})

		assert.Equal(t, record.TriLow, final.AIDisplacementRisk)
		assert.Equal(t, record.ProfileDefensible, final.PublisherProfile)
		assert.Equal(t, record.TriHigh, final.AICitationPotential)
		assert.Equal(t, record.PolicyAllowAttributed, final.AIUsagePolicyHint)
	})

	t.Run("simple generic question is commodity", func(t *testing.T) {
		nq := record.NormalizedQuestion{
			CleanedQuestion: "what is compound interest",
			CanonicalQuery:  "compound interest",
			SubIntents:      []string{},
		}
		final := c.PassTwo(nq, record.Classification{Flags: []record.Flag{}},
			ContentSignals{CapsulePresent: true})

		assert.Equal(t, record.ComplexitySimple, final.QueryComplexity)
		assert.Equal(t, record.TriHigh, final.AIDisplacementRisk)
		assert.Equal(t, record.ProfileCommodity, final.PublisherProfile)
		assert.Equal(t, record.PolicyAllowFull, final.AIUsagePolicyHint)
	})

	t.Run("critical risk forces summary only", func(t *testing.T) {
		final := c.PassTwo(chestPainQuestion(), record.Classification{
			Flags:                 []record.Flag{record.FlagMissingContext, record.FlagSafetyRisk},
			ClarificationRequired: true,
			YMYLCategory:          record.YMYLHealth,
			YMYLRiskLevel:         record.RiskCritical,
		}, ContentSignals{CapsulePresent: true})

		assert.Equal(t, record.PolicySummaryOnly, final.AIUsagePolicyHint)
		assert.Equal(t, record.TriLow, final.AICitationPotential)
		assert.Equal(t, record.ComplexityComplex, final.QueryComplexity)
	})
}

func TestPassTwo_DoesNotMutateFirstPass(t *testing.T) {
	c := New()
	first := record.Classification{
		Flags:                 []record.Flag{record.FlagMissingContext, record.FlagSafetyRisk},
		ClarificationRequired: true,
		YMYLCategory:          record.YMYLHealth,
		YMYLRiskLevel:         record.RiskCritical,
	}
	snapshot := record.Classification{
		Flags:                 []record.Flag{record.FlagMissingContext, record.FlagSafetyRisk},
		ClarificationRequired: true,
		YMYLCategory:          record.YMYLHealth,
		YMYLRiskLevel:         record.RiskCritical,
	}

	_ = c.PassTwo(chestPainQuestion(), first, ContentSignals{CapsulePresent: true})

	assert.Equal(t, snapshot, first)
	assert.Zero(t, first.Score10)
}

func TestPassTwo_Idempotent(t *testing.T) {
	c := New()
	nq := jeepLeakQuestion()
	first := record.Classification{Flags: []record.Flag{}}
	sig := ContentSignals{CapsulePresent: true, OwnedInsight: true, ExperientialCtx: true}

	a := c.PassTwo(nq, first, sig)
	b := c.PassTwo(nq, first, sig)

	assert.Equal(t, a, b)
}

func TestIsExperiential(t *testing.T) {
	assert.True(t, IsExperiential(jeepLeakQuestion()))
	assert.False(t, IsExperiential(record.NormalizedQuestion{CanonicalQuery: "compound interest basics"}))
}
