// Package nlquery turns natural-language questions about stored candidates
// into structured graph queries: classify the question into an intent,
// execute the fixed query shape for that intent, and format the result rows
// for display.
package nlquery

import "fmt"

// IntentKind tags the supported question classes.
type IntentKind int

const (
	// KindUnsupported is the fallback for questions matching no rule.
	KindUnsupported IntentKind = iota
	// KindListContacts lists name and phone for all candidates.
	KindListContacts
	// KindFilterByAgeAbove lists candidates older than a threshold.
	KindFilterByAgeAbove
	// KindFilterBySkill lists candidates holding a named skill.
	KindFilterBySkill
	// KindListAll lists all candidates with every stored field.
	KindListAll
)

func (k IntentKind) String() string {
	switch k {
	case KindListContacts:
		return "list_contacts"
	case KindFilterByAgeAbove:
		return "filter_by_age_above"
	case KindFilterBySkill:
		return "filter_by_skill"
	case KindListAll:
		return "list_all"
	default:
		return "unsupported"
	}
}

// Intent is a classified question with its bound parameters. Only the
// fields for the tagged kind are meaningful.
type Intent struct {
	Kind         IntentKind
	AgeThreshold int    // KindFilterByAgeAbove
	Skill        string // KindFilterBySkill, original casing preserved
	Question     string // KindUnsupported, for diagnostics
}

// ListContacts constructs a contact-listing intent.
func ListContacts() Intent { return Intent{Kind: KindListContacts} }

// FilterByAgeAbove constructs an age-filter intent.
func FilterByAgeAbove(threshold int) Intent {
	return Intent{Kind: KindFilterByAgeAbove, AgeThreshold: threshold}
}

// FilterBySkill constructs a skill-filter intent.
func FilterBySkill(skill string) Intent {
	return Intent{Kind: KindFilterBySkill, Skill: skill}
}

// ListAll constructs a list-everything intent.
func ListAll() Intent { return Intent{Kind: KindListAll} }

// Unsupported constructs the fallback intent carrying the original question.
func Unsupported(question string) Intent {
	return Intent{Kind: KindUnsupported, Question: question}
}

func (i Intent) String() string {
	switch i.Kind {
	case KindFilterByAgeAbove:
		return fmt.Sprintf("%s(%d)", i.Kind, i.AgeThreshold)
	case KindFilterBySkill:
		return fmt.Sprintf("%s(%s)", i.Kind, i.Skill)
	default:
		return i.Kind.String()
	}
}
