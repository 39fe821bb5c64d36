// Package derive holds the pure text derivations shared across the pipeline:
// slugs, canonical queries, vertical guesses, and the small text predicates
// the composer and validator both rely on. Every function here is
// deterministic and idempotent.
package derive

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

const (
	// SlugMaxLength caps slugs at a URL-friendly length; the cut lands on a
	// hyphen boundary when possible.
	SlugMaxLength = 80

	canonicalMinWords = 3
	canonicalMaxWords = 12
)

var urlPattern = regexp.MustCompile(`(?i)(https?://|www\.)[^\s]+|\b[a-z0-9-]+\.(com|org|net|io|gov|edu|co)\b`)

// Slug turns free text into a lowercase, hyphen-separated, URL-safe
// identifier. Non-alphanumeric runs collapse to single hyphens and
// leading/trailing hyphens are trimmed. Text with no ASCII-alphanumeric
// content (non-Latin scripts, punctuation-only input) falls back to a short
// content-hash identifier so every question still gets a stable slug.
func Slug(text string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		sum := sha256.Sum256([]byte(text))
		return "q-" + hex.EncodeToString(sum[:4])
	}
	if len(slug) > SlugMaxLength {
		slug = slug[:SlugMaxLength]
		if i := strings.LastIndexByte(slug, '-'); i > 0 {
			slug = slug[:i]
		}
	}
	return slug
}

// Interrogative lead-ins and auxiliaries stripped when reducing a cleaned
// question to an entity+attribute search phrase.
var queryStopwords = map[string]bool{
	"is": true, "are": true, "was": true, "were": true, "am": true, "be": true,
	"do": true, "does": true, "did": true, "can": true, "could": true,
	"should": true, "would": true, "will": true, "shall": true, "may": true,
	"what": true, "whats": true, "which": true, "who": true, "whom": true,
	"how": true, "why": true, "when": true, "where": true,
	"a": true, "an": true, "the": true, "i": true, "my": true, "me": true,
	"to": true, "of": true, "it": true, "its": true, "please": true,
}

// IsQueryStopword reports whether the token is interrogative scaffolding
// rather than entity/attribute content.
func IsQueryStopword(word string) bool {
	return queryStopwords[word]
}

/// CanonicalQuery reduces a cleaned question to a 3-12 word search phrase:
// punctuation and quotes removed, interrogative scaffolding dropped,
// entity+attribute tokens kept in their original order. Input that yields no
// tokens at all gets the "unclassified" sentinel so the query is never empty.
func CanonicalQuery(cleanedQuestion string) string {
	words := Words(cleanedQuestion)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if queryStopwords[w] {
			continue
		}
		kept = append(kept, w)
	}
	// Too aggressive for short questions; fall back to the raw tokens.
	if len(kept) < canonicalMinWords {
		kept = words
	}
	if len(kept) == 0 {
		return "unclassified"
	}
	if len(kept) > canonicalMaxWords {
		kept = kept[:canonicalMaxWords]
	}
	return strings.Join(kept, " ")
}

// VerticalGuess derives a coarse content vertical from the canonical query:
// first content token joined to the pluralized last content token, e.g.
// "jeep wrangler a pillar water leak" -> "jeep_leaks".
func VerticalGuess(canonicalQuery string) string {
	words := Words(canonicalQuery)
	if len(words) == 0 {
		return "general"
	}
	if len(words) == 1 {
		return words[0]
	}
	return words[0] + "_" + pluralize(words[len(words)-1])
}

func pluralize(noun string) string {
	switch {
	case strings.HasSuffix(noun, "s"),
		strings.HasSuffix(noun, "x"),
		strings.HasSuffix(noun, "z"),
		strings.HasSuffix(noun, "ch"),
		strings.HasSuffix(noun, "sh"):
		return noun + "es"
	case len(noun) > 2 && strings.HasSuffix(noun, "y") && !isVowel(noun[len(noun)-2]):
		return noun[:len(noun)-1] + "ies"
	default:
		return noun + "s"
	}
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// Words lowercases text and splits it into alphanumeric tokens, dropping
// punctuation and quotes.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// WordCount reports the number of alphanumeric tokens in text.
func WordCount(text string) int {
	return len(Words(text))
}

// FirstSentence returns the text up to and including the first sentence
// terminator, or the whole string when none is present.
func FirstSentence(text string) string {
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			return strings.TrimSpace(text[:i+1])
		}
	}
	return strings.TrimSpace(text)
}

// ContainsURL reports whether text carries anything that reads as a link.
func ContainsURL(text string) bool {
	return urlPattern.MatchString(text)
}

// StripURLs removes link-like substrings and collapses leftover whitespace.
func StripURLs(text string) string {
	cleaned := urlPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// TokenOverlap computes the Jaccard-style overlap between the token sets of
// two strings: |intersection| / |smaller set|. Returns 0 when either side is
// empty.
func TokenOverlap(a, b string) float64 {
	wordsA := Words(a)
	wordsB := Words(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}
	shared := 0
	for w := range setA {
		if setB[w] {
			shared++
		}
	}
	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(shared) / float64(smaller)
}

// TruncateWords keeps at most n tokens of text, preserving original spacing
// between the kept tokens.
func TruncateWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return strings.TrimSpace(text)
	}
	return strings.Join(fields[:n], " ")
}
