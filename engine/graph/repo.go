package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/pravinyadav/No4jConnect/pkg/repo"
)

// newCandidateRepo creates a Neo4j-backed repository for Candidate nodes.
func newCandidateRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[Candidate, string] {
	return repo.NewNeo4jRepo[Candidate, string](
		driver,
		"Candidate",
		candidateToMap,
		candidateFromRecord,
	)
}

func candidateToMap(c Candidate) map[string]any {
	m := map[string]any{"id": c.ID}
	if c.Name != "" {
		m["name"] = c.Name
	}
	if c.Phone != "" {
		m["phone"] = c.Phone
	}
	if c.Email != "" {
		m["email"] = c.Email
	}
	if c.Age > 0 {
		m["age"] = c.Age
	}
	return m
}

func candidateFromRecord(rec *neo4j.Record) (Candidate, error) {
	node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
	if err != nil {
		return Candidate{}, err
	}
	return candidateFromProps(node.Props), nil
}
