package nlquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pravinyadav/No4jConnect/engine/domain"
)

var (
	ageAboveRe = regexp.MustCompile(`(?i)\bage\s+above\b\s*(\S*)`)
	skillRe    = regexp.MustCompile(`(?i)\bskills?\s+(\w+)`)
)

// rule pairs a predicate with an intent constructor. Rules are evaluated in
// priority order and the first match wins; the order is part of the
// contract, not an artifact of code layout.
type rule struct {
	name  string
	match func(question, lowered string) (Intent, bool, error)
}

// rules is the fixed classification table. A question containing both
// "phone" and "skill" resolves to ListContacts because the contact rule
// outranks the skill rule.
var rules = []rule{
	{
		name: "contacts",
		match: func(_, lowered string) (Intent, bool, error) {
			if strings.Contains(lowered, "contact number") || strings.Contains(lowered, "phone") {
				return ListContacts(), true, nil
			}
			return Intent{}, false, nil
		},
	},
	{
		name: "age above",
		match: func(question, _ string) (Intent, bool, error) {
			m := ageAboveRe.FindStringSubmatch(question)
			if m == nil {
				return Intent{}, false, nil
			}
			// A recognized pattern with a malformed parameter is a hard
			// translation failure, not a silent fallthrough.
			token := strings.TrimRight(m[1], ".,?!;:")
			threshold, err := strconv.Atoi(token)
			if err != nil {
				return Intent{}, false, domain.NewValidationError("age threshold", token, domain.ErrBadThreshold)
			}
			return FilterByAgeAbove(threshold), true, nil
		},
	},
	{
		name: "skill",
		match: func(question, _ string) (Intent, bool, error) {
			m := skillRe.FindStringSubmatch(question)
			if m == nil {
				return Intent{}, false, nil
			}
			// Original casing of the skill token is preserved for query
			// construction; matching happens case-insensitively downstream.
			return FilterBySkill(m[1]), true, nil
		},
	},
	{
		name: "all candidates",
		match: func(_, lowered string) (Intent, bool, error) {
			if strings.Contains(lowered, "all candidates") {
				return ListAll(), true, nil
			}
			return Intent{}, false, nil
		},
	},
}

// Translate classifies a question into an Intent. It is deterministic:
// identical questions always yield identical intents. Questions matching no
// rule come back as Unsupported rather than an error; a recognized rule
// with a malformed parameter is an error.
func Translate(question string) (Intent, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return Unsupported(question), domain.NewValidationError("question", "", domain.ErrEmptyQuestion)
	}
	lowered := strings.ToLower(trimmed)

	for _, r := range rules {
		intent, ok, err := r.match(trimmed, lowered)
		if err != nil {
			return Unsupported(question), err
		}
		if ok {
			return intent, nil
		}
	}
	return Unsupported(question), nil
}
