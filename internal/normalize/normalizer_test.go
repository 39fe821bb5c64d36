package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_MultiTopicQuestion(t *testing.T) {
	n := New()

	nq := n.Normalize("How do I start a dropshipping business and also how do I find suppliers? I don't know where to start.")

	assert.Equal(t, "How do I start a dropshipping business", nq.CleanedQuestion)
	assert.Equal(t, "start dropshipping business", nq.CanonicalQuery)
	assert.Equal(t, "start_dropshipping_business", nq.PrimaryIntent)
	assert.Contains(t, nq.SubIntents, "find_suppliers")
	assert.LessOrEqual(t, len(nq.SubIntents), 5)
}

func TestNormalize_SingleClause(t *testing.T) {
	n := New()

	nq := n.Normalize("Why is my sourdough dense?")

	assert.Equal(t, "Why is my sourdough dense", nq.CleanedQuestion)
	assert.Equal(t, "sourdough_dense", nq.PrimaryIntent)
	assert.Empty(t, nq.SubIntents)
	assert.NotNil(t, nq.SubIntents)
}

func TestNormalize_StripsLinksAndNoise(t *testing.T) {
	n := New()

	nq := n.Normalize("Is this\ta scam https://totally-legit.example.com or\nis it real?")

	assert.NotContains(t, nq.CleanedQuestion, "http")
	assert.NotContains(t, nq.CleanedQuestion, "\t")
	assert.NotContains(t, nq.CleanedQuestion, "\n")
	assert.NotEmpty(t, nq.CanonicalQuery)
}

func TestNormalize_LinkOnlySpamStillYieldsText(t *testing.T) {
	n := New()

	nq := n.Normalize("https://spam.example.com/buy-now")

	// Downstream flags it, but normalization never produces an empty question.
	assert.NotEmpty(t, nq.CleanedQuestion)
	assert.NotEmpty(t, nq.CanonicalQuery)
}

func TestNormalize_TokenlessInputGetsSentinels(t *testing.T) {
	n := New()

	nq := n.Normalize("???!!!")

	// Punctuation spam carries no intent tokens; the sentinel keeps every
	// derived field populated so composition can still run.
	assert.Equal(t, "unclassified", nq.PrimaryIntent)
	assert.NotEmpty(t, nq.CleanedQuestion)
	assert.NotEmpty(t, nq.CanonicalQuery)
}

func TestNormalize_HedgingClauseIsNotATopic(t *testing.T) {
	n := New()

	nq := n.Normalize("Should I refinance my mortgage? I'm not sure it makes sense.")

	assert.Equal(t, "Should I refinance my mortgage", nq.CleanedQuestion)
	for _, tag := range nq.SubIntents {
		assert.NotContains(t, tag, "not_sure")
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New()
	raw := "How do I start a dropshipping business and also how do I find suppliers?"

	first := n.Normalize(raw)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, n.Normalize(raw))
	}
}

func TestNormalize_SubIntentsDeduplicated(t *testing.T) {
	n := New()

	nq := n.Normalize("What are closing costs? And what are closing costs exactly? And what about rates?")

	seen := map[string]bool{}
	for _, tag := range nq.SubIntents {
		assert.False(t, seen[tag], "duplicate sub-intent %q", tag)
		seen[tag] = true
	}
}
