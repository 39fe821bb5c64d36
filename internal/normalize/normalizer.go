// Package normalize turns raw free-form question text into an immutable
// NormalizedQuestion: one dominant intent, up to five sub-intent tags, and
// the derived canonical query. Multi-topic input is split into clauses and
// the clause most likely to resolve the user's primary need wins.
package normalize

import (
	"regexp"
	"strings"

	"answer-pipeline/internal/derive"
	"answer-pipeline/internal/record"
)

const maxSubIntents = 5

// Connectors that usually join a second ask onto the first.
var clauseSplitter = regexp.MustCompile(`(?i)\s*(?:[.?!;]+|\band also\b|\bbut also\b|\balso\b|\bplus\b|\band how\b|\band what\b|\band where\b|\band should\b|\band can\b|\bi don'?t know\b|\bi'?m not sure\b)\s*`)

var questionCues = []string{
	"how", "what", "why", "when", "where", "which", "who",
	"is", "are", "can", "should", "could", "would", "do", "does", "did",
}

type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Normalize produces the NormalizedQuestion for raw input. It never fails:
// spam and non-questions still yield a best-effort cleaned question and the
// classifier downstream decides how to flag them.
func (n *Normalizer) Normalize(raw string) record.NormalizedQuestion {
	cleaned := cleanText(raw)

	clauses := splitClauses(cleaned)
	dominant, rest := pickDominant(clauses)

	cleanedQuestion := dominant
	if cleanedQuestion == "" {
		cleanedQuestion = cleaned
	}

	subIntents := make([]string, 0, maxSubIntents)
	seen := map[string]bool{}
	for _, clause := range rest {
		tag := intentTag(clause)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		subIntents = append(subIntents, tag)
		if len(subIntents) == maxSubIntents {
			break
		}
	}

	primary := intentTag(cleanedQuestion)
	if primary == "" {
		// Token-less input (punctuation spam, unsegmentable scripts) still
		// carries a stable sentinel so downstream fields are never empty.
		primary = "unclassified"
	}

	return record.NormalizedQuestion{
		CleanedQuestion: cleanedQuestion,
		CanonicalQuery:  derive.CanonicalQuery(cleanedQuestion),
		PrimaryIntent:   primary,
		SubIntents:      subIntents,
	}
}

// cleanText lowercases nothing; it only strips links, control characters and
// redundant whitespace so the user's phrasing survives for the composer.
func cleanText(raw string) string {
	text := derive.StripURLs(raw)
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if r < 32 {
			return -1
		}
		return r
	}, text)
	cleaned := strings.TrimSpace(strings.Join(strings.Fields(text), " "))
	if cleaned == "" {
		// Link-only spam: keep the raw text so downstream still has something
		// to flag and slug.
		cleaned = strings.TrimSpace(strings.Join(strings.Fields(raw), " "))
	}
	return cleaned
}

func splitClauses(text string) []string {
	parts := clauseSplitter.Split(text, -1)
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if derive.WordCount(p) > 0 {
			clauses = append(clauses, p)
		}
	}
	return clauses
}

// pickDominant selects the clause that, answered alone, resolves the primary
// need: question-shaped clauses beat statements, longer beats shorter, and
// the earliest clause wins ties.
func pickDominant(clauses []string) (string, []string) {
	if len(clauses) == 0 {
		return "", nil
	}

	best := 0
	bestScore := -1
	for i, clause := range clauses {
		score := clauseScore(clause)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	rest := make([]string, 0, len(clauses)-1)
	for i, clause := range clauses {
		if i == best {
			continue
		}
		// Filler like "i dont know where to start" carries no separate topic.
		if clauseScore(clause) <= 0 {
			continue
		}
		rest = append(rest, clause)
	}
	return clauses[best], rest
}

func clauseScore(clause string) int {
	words := derive.Words(clause)
	if len(words) == 0 {
		return -1
	}
	score := 0
	for _, cue := range questionCues {
		if words[0] == cue {
			score += 4
			break
		}
	}
	if strings.Contains(clause, "?") {
		score += 2
	}
	if len(words) >= 4 {
		score += 2
	} else {
		score += len(words) / 2
	}
	// Hedging statements add context, not a topic of their own.
	if strings.HasPrefix(strings.ToLower(clause), "i dont know") ||
		strings.HasPrefix(strings.ToLower(clause), "i don't know") ||
		strings.HasPrefix(strings.ToLower(clause), "i'm not sure") ||
		strings.HasPrefix(strings.ToLower(clause), "im not sure") {
		score -= 6
	}
	return score
}

// intentTag reduces a clause to a short stable topic tag, e.g.
// "how do i find suppliers" -> "find_suppliers".
func intentTag(clause string) string {
	all := derive.Words(clause)
	words := make([]string, 0, len(all))
	for _, w := range all {
		if derive.IsQueryStopword(w) {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		words = all
	}
	if len(words) == 0 {
		return ""
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, "_")
}
