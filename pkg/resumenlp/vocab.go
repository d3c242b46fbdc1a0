package resumenlp

import "strings"

// defaultSkills is the built-in controlled vocabulary of skill names.
// Matching is case-insensitive; the casing here is what gets reported.
var defaultSkills = []string{
	"Python",
	"Java",
	"Golang",
	"JavaScript",
	"TypeScript",
	"SQL",
	"NoSQL",
	"Neo4j",
	"Cypher",
	"MongoDB",
	"PostgreSQL",
	"Redis",
	"Kafka",
	"Docker",
	"Kubernetes",
	"Terraform",
	"AWS",
	"Azure",
	"GCP",
	"Linux",
	"React",
	"Angular",
	"Django",
	"Flask",
	"Spring",
	"Machine Learning",
	"Deep Learning",
	"Data Analysis",
	"Data Engineering",
	"NLP",
	"Excel",
	"Tableau",
	"Git",
	"Jenkins",
	"Selenium",
	"Communication",
	"Leadership",
	"Project Management",
}

// Vocabulary is a fixed set of known skill names with case-insensitive lookup.
type Vocabulary struct {
	entries   []string
	canonical map[string]string // lowercase -> original casing
}

// NewVocabulary builds a Vocabulary from the given skill names.
// Duplicate entries (case-insensitively) keep their first casing.
func NewVocabulary(skills []string) *Vocabulary {
	v := &Vocabulary{canonical: make(map[string]string, len(skills))}
	for _, s := range skills {
		lower := strings.ToLower(strings.TrimSpace(s))
		if lower == "" {
			continue
		}
		if _, ok := v.canonical[lower]; ok {
			continue
		}
		v.canonical[lower] = strings.TrimSpace(s)
		v.entries = append(v.entries, strings.TrimSpace(s))
	}
	return v
}

// DefaultVocabulary returns the built-in skill vocabulary.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultSkills)
}

// Len returns the number of distinct skills.
func (v *Vocabulary) Len() int { return len(v.entries) }

// Entries returns the skills in their canonical casing.
func (v *Vocabulary) Entries() []string {
	out := make([]string, len(v.entries))
	copy(out, v.entries)
	return out
}

// Canonical returns the vocabulary casing for a skill name, matched
// case-insensitively. ok is false for names outside the vocabulary.
func (v *Vocabulary) Canonical(name string) (string, bool) {
	s, ok := v.canonical[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Contains reports whether name is a vocabulary member, case-insensitively.
func (v *Vocabulary) Contains(name string) bool {
	_, ok := v.Canonical(name)
	return ok
}

// MatchAll returns every vocabulary skill mentioned in text, deduplicated,
// in canonical casing. The scan is a case-insensitive containment test, so
// unknown skill mentions are silently ignored.
func (v *Vocabulary) MatchAll(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var out []string
	for _, skill := range v.entries {
		if strings.Contains(lower, strings.ToLower(skill)) {
			out = append(out, skill)
		}
	}
	return out
}
