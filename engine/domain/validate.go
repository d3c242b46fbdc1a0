package domain

import "strings"

// validSource returns true if the source is known. Sources with prefixes
// like "file:resumes" are accepted.
func validSource(src string) bool {
	if ValidSources[src] {
		return true
	}
	for base := range ValidSources {
		if strings.HasPrefix(src, base+":") {
			return true
		}
	}
	return false
}

// ValidateDocument checks a Document before extraction. An invalid document
// is rejected at the pipeline boundary; extraction itself never fails.
func ValidateDocument(d Document) error {
	if strings.TrimSpace(d.Text) == "" {
		return NewValidationError("text", "", ErrEmptyDocument)
	}
	if !validSource(d.Source) {
		return NewValidationError("source", d.Source, ErrUnknownSource)
	}
	if d.SourceID == "" {
		return NewValidationError("source_id", "", ErrMissingID)
	}
	return nil
}
