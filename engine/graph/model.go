// Package graph provides Neo4j persistence for candidate records: idempotent
// writes of Candidate/Skill nodes and the fixed read queries the question
// answering layer runs against them.
package graph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

// Candidate represents a stored Candidate node.
type Candidate struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Phone  string   `json:"phone,omitempty"`
	Email  string   `json:"email,omitempty"`
	Age    int      `json:"age,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

// Skill represents a stored Skill node. Skill identity is global: one node
// per distinct name across all candidates.
type Skill struct {
	Name string `json:"name"`
}

// WriteStatus is the outcome of a graph write.
type WriteStatus string

const (
	StatusSuccess WriteStatus = "success"
	StatusFailure WriteStatus = "failure"
)

// WriteResult reports a write outcome. Transaction failures never propagate
// past the writer; they land here as a failure status with a message.
type WriteResult struct {
	Status  WriteStatus `json:"status"`
	ID      string      `json:"id,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK reports whether the write succeeded.
func (r WriteResult) OK() bool { return r.Status == StatusSuccess }

// CandidateID derives the stable node identity for an extracted record.
// Email is the strongest signal of "the same person", then exact name; a
// record with neither hashes its remaining contact details so repeated
// writes of identical input still converge on one node.
func CandidateID(rec resumenlp.CandidateRecord) string {
	var key string
	switch {
	case rec.Email != "":
		key = "email:" + strings.ToLower(rec.Email)
	case rec.Name != "":
		key = "name:" + strings.ToLower(rec.Name)
	default:
		key = fmt.Sprintf("record:%s:%d:%s", rec.Phone, rec.Age, strings.ToLower(strings.Join(rec.Skills, ",")))
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("candidate/"+key)).String()
}

// candidateProps builds the node property map for a record, including only
// fields extraction actually found.
func candidateProps(rec resumenlp.CandidateRecord) map[string]any {
	props := make(map[string]any, 4)
	if rec.Name != "" {
		props["name"] = rec.Name
	}
	if rec.Phone != "" {
		props["phone"] = rec.Phone
	}
	if rec.Email != "" {
		props["email"] = rec.Email
	}
	if rec.Age > 0 {
		props["age"] = rec.Age
	}
	return props
}

// candidateFromProps constructs a Candidate from Neo4j node properties.
func candidateFromProps(props map[string]any) Candidate {
	return Candidate{
		ID:    strProp(props, "id"),
		Name:  strProp(props, "name"),
		Phone: strProp(props, "phone"),
		Email: strProp(props, "email"),
		Age:   intProp(props, "age"),
	}
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intProp(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
