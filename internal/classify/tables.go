package classify

import "answer-pipeline/internal/record"

// Keyword tables behind the text-only pass. Phrases are matched against the
// lowercased cleaned question; single words against its token set.

var ymylPhrases = map[record.YMYLCategory][]string{
	record.YMYLHealth: {
		"chest pain", "shortness of breath", "blood pressure", "heart attack",
		"side effect", "symptom", "diagnos", "medication", "dosage", "pain in",
		"infection", "rash", "fever", "injur", "pregnan", "anxiety", "depress",
		"overdose", "suicid", "bleeding", "stroke", "cancer", "tumor", "allerg",
	},
	record.YMYLFinancial: {
		"invest", "debt", "loan", "mortgage", "tax", "retirement", "401k",
		"crypto", "stock market", "insurance", "bankrupt", "credit score",
		"savings", "pension", "refinanc",
	},
	record.YMYLLegal: {
		"lawsuit", "sue ", "legal", "contract dispute", "visa", "immigration",
		"custody", "divorce filing", "arrest", "warrant", "liabilit", "tenant rights",
		"eviction", "copyright claim",
	},
	record.YMYLCareer: {
		"quit my job", "resign", "fired", "laid off", "salary negotiation",
		"career change", "notice period",
	},
	record.YMYLRelationships: {
		"divorce", "breakup", "break up", "cheating", "custody", "marriage counsel",
	},
}

// Emergency markers force critical risk regardless of category specifics.
var emergencyPhrases = []string{
	"chest pain", "shortness of breath", "can't breathe", "cant breathe",
	"heart attack", "stroke", "suicid", "overdose", "severe bleeding",
	"unconscious", "seizure", "poisoned", "911",
}

// Personal-variable cues: the answer materially changes on facts we don't have.
var personalCues = []string{
	"should i", "is it worth", "for me", "my situation", "can i afford",
	"am i able", "do i need to", "what should i do", "right for me",
}

// Physical, local or hands-on context an AI summary cannot substitute for.
var experientialWords = map[string]bool{
	"leak": true, "leaks": true, "leaking": true, "install": true, "fix": true,
	"repair": true, "replace": true, "noise": true, "rattle": true, "smell": true,
	"fit": true, "fits": true, "torque": true, "drain": true, "mount": true,
	"alignment": true, "wiring": true, "plumbing": true, "paint": true,
	"nearby": true, "local": true, "measure": true, "drill": true, "seal": true,
}
