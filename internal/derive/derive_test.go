package derive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic question",
			input:    "How do I stop my basement from flooding?",
			expected: "how-do-i-stop-my-basement-from-flooding",
		},
		{
			name:     "punctuation collapses to single hyphens",
			input:    "Jeep Wrangler -- a-pillar... water leak?!",
			expected: "jeep-wrangler-a-pillar-water-leak",
		},
		{
			name:     "leading and trailing junk trimmed",
			input:    "  ***what now***  ",
			expected: "what-now",
		},
		{
			name:     "digits survive",
			input:    "is a 401k worth it at 25",
			expected: "is-a-401k-worth-it-at-25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input))
		})
	}
}

func TestSlug_Deterministic(t *testing.T) {
	input := "Why does my sourdough turn out dense?"
	first := Slug(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Slug(input))
	}
	// Slugging a slug is a no-op.
	assert.Equal(t, first, Slug(first))
}

func TestSlug_LengthCapOnHyphenBoundary(t *testing.T) {
	long := strings.Repeat("blueberry ", 20)
	slug := Slug(long)

	assert.LessOrEqual(t, len(slug), SlugMaxLength)
	assert.False(t, strings.HasSuffix(slug, "-"))
	// The cap lands between words, never inside one.
	for _, part := range strings.Split(slug, "-") {
		assert.Equal(t, "blueberry", part)
	}
}

func TestSlug_TokenlessFallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "non-latin script", input: "为什么我的面包这么密实"},
		{name: "punctuation only", input: "???!!!"},
		{name: "emoji only", input: "🤔🤔🤔"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := Slug(tt.input)

			// No sluggable runes means a content-hash slug, never an empty one.
			assert.Regexp(t, "^q-[0-9a-f]{8}$", slug)
			assert.Equal(t, slug, Slug(tt.input))
		})
	}

	assert.NotEqual(t, Slug("为什么我的面包这么密实"), Slug("???!!!"))
}

func TestCanonicalQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "interrogative scaffolding dropped",
			input:    "why does my sourdough turn out dense",
			expected: "sourdough turn out dense",
		},
		{
			name:     "short question falls back to raw tokens",
			input:    "what is rust",
			expected: "what is rust",
		},
		{
			name:     "token-less input yields the sentinel",
			input:    "?!?!",
			expected: "unclassified",
		},
		{
			name:     "long question capped at twelve words",
			input:    "best budget gravel bike tires for mixed terrain commuting in wet weather with tubeless setup and puncture protection",
			expected: "best budget gravel bike tires for mixed terrain commuting in wet weather",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalQuery(tt.input))
		})
	}
}

func TestVerticalGuess(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "first and pluralized last token", input: "jeep wrangler a pillar water leak", expected: "jeep_leaks"},
		{name: "y to ies", input: "tax strategy", expected: "tax_strategies"},
		{name: "x takes es", input: "drywall fix", expected: "drywall_fixes"},
		{name: "single token stands alone", input: "sourdough", expected: "sourdough"},
		{name: "empty input", input: "", expected: "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VerticalGuess(tt.input))
		})
	}
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "First things first.", FirstSentence("First things first. Then the rest."))
	assert.Equal(t, "No terminator here", FirstSentence("No terminator here"))
	assert.Equal(t, "Really?", FirstSentence("Really? Yes."))
}

func TestURLHandling(t *testing.T) {
	assert.True(t, ContainsURL("see https://example.com/page for details"))
	assert.True(t, ContainsURL("go to www.example.org now"))
	assert.True(t, ContainsURL("just visit example.com"))
	assert.False(t, ContainsURL("no links in this sentence at all"))

	assert.Equal(t, "check now", StripURLs("check https://example.com/deep/path now"))
	assert.Equal(t, "", StripURLs("www.spam.io"))
}

func TestTokenOverlap(t *testing.T) {
	assert.Equal(t, 1.0, TokenOverlap("the same words", "the same words"))
	assert.Equal(t, 0.0, TokenOverlap("apples bananas", "trucks engines"))
	assert.Equal(t, 0.0, TokenOverlap("", "something"))
	// Overlap is measured against the smaller token set.
	assert.Equal(t, 1.0, TokenOverlap("bulk fermentation", "extend bulk fermentation for longer"))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two three", TruncateWords("one two three four five", 3))
	assert.Equal(t, "short", TruncateWords("short", 10))
	assert.Equal(t, "", TruncateWords("", 5))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"don", "t", "panic"}, Words("Don't panic!"))
	assert.Equal(t, 4, WordCount("four words right here"))
	assert.Equal(t, 0, WordCount("   "))
}
