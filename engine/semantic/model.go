package semantic

// Match is a single similarity hit against the candidate collection.
type Match struct {
	CandidateID string            `json:"candidate_id"`
	Score       float32           `json:"score"`
	Name        string            `json:"name"`
	Profile     string            `json:"profile"`
	Meta        map[string]string `json:"meta"`
}

// CandidateVector is one candidate profile vector to store.
type CandidateVector struct {
	ID        string
	Embedding []float32
	Payload   map[string]any // name, profile, source, skills
}
