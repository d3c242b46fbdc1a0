// Package resumenlp extracts structured candidate details (name, contact,
// age, skills) from unstructured resume text using regex patterns and a
// controlled skill vocabulary. No external dependencies.
package resumenlp

import (
	"regexp"
	"strconv"
	"strings"
)

// CandidateRecord is the structured output of extraction for one document.
// Every field is best-effort: string fields are "" and Age is 0 when the
// corresponding detail was not found in the text.
type CandidateRecord struct {
	Name   string   `json:"name,omitempty"`
	Phone  string   `json:"phone,omitempty"`
	Email  string   `json:"email,omitempty"`
	Age    int      `json:"age,omitempty"` // 0 when not found
	Skills []string `json:"skills,omitempty"`
}

// IsEmpty reports whether extraction found nothing at all.
func (r CandidateRecord) IsEmpty() bool {
	return r.Name == "" && r.Phone == "" && r.Email == "" && r.Age == 0 && len(r.Skills) == 0
}

// HasSkill reports whether the record carries the given skill,
// case-insensitively.
func (r CandidateRecord) HasSkill(name string) bool {
	for _, s := range r.Skills {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

var (
	phoneRe = regexp.MustCompile(`[0-9]{10,}`)
	emailRe = regexp.MustCompile(`\S+@\S+`)
	ageRe   = regexp.MustCompile(`(?i)\b([0-9]{2})\s*years\b`)
	// personRe matches two or three adjacent capitalized words.
	personRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,2})\b`)
)

// nonNameWords are capitalized tokens common in resume headers that should
// never be taken as part of a person name.
var nonNameWords = map[string]bool{
	"resume": true, "curriculum": true, "vitae": true, "summary": true,
	"profile": true, "skills": true, "experience": true, "education": true,
	"objective": true, "contact": true, "phone": true, "email": true,
	"years": true, "candidate": true,
}

// Extractor converts raw text into CandidateRecords against a vocabulary.
type Extractor struct {
	vocab *Vocabulary
}

// NewExtractor creates an Extractor. A nil vocabulary falls back to the
// built-in one.
func NewExtractor(vocab *Vocabulary) *Extractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Extractor{vocab: vocab}
}

// Vocabulary returns the vocabulary the extractor matches against.
func (e *Extractor) Vocabulary() *Vocabulary { return e.vocab }

// Extract parses candidate details out of text. It never fails: fields that
// cannot be parsed stay at their zero value and the rest of the record is
// still populated. Empty input yields an empty record.
func (e *Extractor) Extract(text string) CandidateRecord {
	if text == "" {
		return CandidateRecord{}
	}
	return CandidateRecord{
		Name:   e.findPerson(text),
		Phone:  phoneRe.FindString(text),
		Email:  findEmail(text),
		Age:    findAge(text),
		Skills: e.vocab.MatchAll(text),
	}
}

// Extract runs a one-off extraction with the default vocabulary.
func Extract(text string) CandidateRecord {
	return NewExtractor(nil).Extract(text)
}

// findPerson returns the first run of capitalized words that looks like a
// person name. Tokens from the resume-header stoplist and vocabulary skills
// disqualify a match. When a document mentions several people only the first
// is used.
func (e *Extractor) findPerson(text string) string {
	for _, m := range personRe.FindAllString(text, -1) {
		if e.plausibleName(m) {
			return m
		}
	}
	return ""
}

func (e *Extractor) plausibleName(candidate string) bool {
	for _, word := range strings.Fields(candidate) {
		if nonNameWords[strings.ToLower(word)] {
			return false
		}
		if e.vocab.Contains(word) {
			return false
		}
	}
	return true
}

func findEmail(text string) string {
	m := emailRe.FindString(text)
	// Trailing punctuation from sentence context is not part of the address.
	return strings.TrimRight(m, ".,;:")
}

func findAge(text string) int {
	m := ageRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	age, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return age
}
