// Package validate checks a composed record against the fixed external
// schema and the cross-field invariants. It reports every violation it finds
// so a single repair round can address all of them at once.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"answer-pipeline/internal/record"
)

// Violation describes one schema or invariant failure in terms the generator
// can act on during repair.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Describe flattens violations into repair notes for the generator.
func Describe(violations []Violation) []string {
	notes := make([]string, len(violations))
	for i, v := range violations {
		notes[i] = v.String()
	}
	return notes
}

func enumJSON[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", string(v))
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func decisionItemSchema() string {
	return `{
		"type": "object",
		"required": ["label", "reason", "tags", "spawn_question_slug"],
		"additionalProperties": false,
		"properties": {
			"label": {"type": "string", "minLength": 1},
			"reason": {"type": "string"},
			"tags": {"type": "array", "items": {"type": "string"}},
			"spawn_question_slug": {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"}
		}
	}`
}

// schemaJSON is the fixed external contract: exact key set at every level, no
// additional properties, closed enumerations, no null strings anywhere
// except vault_node.public_url.
func schemaJSON() string {
	return fmt.Sprintf(`{
	"type": "object",
	"required": [
		"inputcheck", "mini_answer", "vault_node", "share_blocks",
		"decision_frame", "intent_map", "action_protocol",
		"answer_capsule_25w", "owned_insight", "ai_displacement_risk",
		"query_complexity", "publisher_vulnerability_profile",
		"ai_citation_potential", "ai_usage_policy_hint",
		"ymyl_category", "ymyl_risk_level"
	],
	"additionalProperties": false,
	"properties": {
		"inputcheck": {
			"type": "object",
			"required": ["flags", "score_10", "grade_label", "clarification_required"],
			"additionalProperties": false,
			"properties": {
				"flags": {"type": "array", "items": {"type": "string", "enum": %s}},
				"score_10": {"type": "integer", "minimum": 0, "maximum": 10},
				"grade_label": {"type": "string", "enum": %s},
				"clarification_required": {"type": "boolean"}
			}
		},
		"mini_answer": {"type": "string", "minLength": 1},
		"vault_node": {
			"type": "object",
			"required": ["slug", "vertical_guess", "cmn_status", "public_url"],
			"additionalProperties": false,
			"properties": {
				"slug": {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
				"vertical_guess": {"type": "string", "minLength": 1},
				"cmn_status": {"type": "string", "enum": ["draft"]},
				"public_url": {"type": "null"}
			}
		},
		"share_blocks": {
			"type": "object",
			"required": ["answer_only", "answer_with_link"],
			"additionalProperties": false,
			"properties": {
				"answer_only": {"type": "string", "minLength": 1},
				"answer_with_link": {"type": "string", "minLength": 1}
			}
		},
		"decision_frame": {
			"type": "object",
			"required": ["question_type", "pros", "cons", "personal_checks"],
			"additionalProperties": false,
			"properties": {
				"question_type": {"type": "string", "enum": %s},
				"pros": {"type": "array", "maxItems": 3, "items": %s},
				"cons": {"type": "array", "maxItems": 3, "items": %s},
				"personal_checks": {
					"type": "array",
					"maxItems": 3,
					"items": {
						"type": "object",
						"required": ["label", "prompt", "dimension"],
						"additionalProperties": false,
						"properties": {
							"label": {"type": "string", "minLength": 1},
							"prompt": {"type": "string"},
							"dimension": {"type": "string", "enum": %s}
						}
					}
				}
			}
		},
		"intent_map": {
			"type": "object",
			"required": ["cleaned_question", "canonical_query", "primary_intent", "sub_intents", "next_best_question"],
			"additionalProperties": false,
			"properties": {
				"cleaned_question": {"type": "string", "minLength": 1},
				"canonical_query": {"type": "string", "minLength": 1},
				"primary_intent": {"type": "string", "minLength": 1},
				"sub_intents": {"type": "array", "maxItems": 5, "items": {"type": "string"}},
				"next_best_question": {"type": "string", "minLength": 1}
			}
		},
		"action_protocol": {
			"type": "object",
			"required": ["type", "steps", "estimated_effort", "recommended_tools"],
			"additionalProperties": false,
			"properties": {
				"type": {"type": "string", "enum": %s},
				"steps": {"type": "array", "minItems": 3, "maxItems": 5, "items": {"type": "string", "minLength": 1}},
				"estimated_effort": {"type": "string", "minLength": 1},
				"recommended_tools": {"type": "array", "maxItems": 5, "items": {"type": "string"}}
			}
		},
		"answer_capsule_25w": {"type": "string", "minLength": 1},
		"owned_insight": {"type": "string"},
		"ai_displacement_risk": {"type": "string", "enum": %s},
		"query_complexity": {"type": "string", "enum": %s},
		"publisher_vulnerability_profile": {"type": "string", "enum": %s},
		"ai_citation_potential": {"type": "string", "enum": %s},
		"ai_usage_policy_hint": {"type": "string", "enum": %s},
		"ymyl_category": {"type": "string", "enum": %s},
		"ymyl_risk_level": {"type": "string", "enum": %s}
	}
}`,
		enumJSON(record.AllFlags),
		enumJSON(record.AllGradeLabels),
		enumJSON(record.AllQuestionTypes),
		decisionItemSchema(),
		decisionItemSchema(),
		enumJSON(record.AllCheckDimensions),
		enumJSON(record.AllProtocolTypes),
		enumJSON(record.AllTriLevels),
		enumJSON(record.AllQueryComplexities),
		enumJSON(record.AllVulnerabilityProfiles),
		enumJSON(record.AllTriLevels),
		enumJSON(record.AllUsagePolicyHints),
		enumJSON(record.AllYMYLCategories),
		enumJSON(record.AllRiskLevels),
	)
}

var compiledSchema = gojsonschema.NewStringLoader(schemaJSON())

// ValidateShape runs the gojsonschema contract check over the serialized
// record.
func ValidateShape(out *record.OutputRecord) ([]Violation, error) {
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return validateRaw(payload)
}

// validateRaw checks an already-serialized payload against the contract.
func validateRaw(payload []byte) ([]Violation, error) {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}
	violations := make([]Violation, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		violations = append(violations, Violation{
			Field:   resErr.Field(),
			Message: resErr.Description(),
		})
	}
	return violations, nil
}
