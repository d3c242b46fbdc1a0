package graph

import (
	"context"
)

// Row is one result record, mapping projected field names to values.
type Row map[string]any

// Str returns the named field as a string, or "" when absent.
func (r Row) Str(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int returns the named field as an int, or 0 when absent.
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Strings returns the named field as a string slice; collect() values come
// back from the driver as []any.
func (r Row) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Contacts projects name and phone for every stored candidate.
func (g *Store) Contacts(ctx context.Context) ([]Row, error) {
	return g.readRows(ctx,
		`MATCH (c:Candidate) RETURN c.name AS name, c.phone AS phone ORDER BY c.name`,
		nil)
}

// OlderThan returns candidates with age strictly above the threshold,
// projecting name and age.
func (g *Store) OlderThan(ctx context.Context, age int) ([]Row, error) {
	return g.readRows(ctx,
		`MATCH (c:Candidate) WHERE c.age > $age RETURN c.name AS name, c.age AS age ORDER BY c.age DESC`,
		map[string]any{"age": age})
}

// WithSkill returns candidates holding the given skill (matched on the
// skill node's name, case-insensitively), projecting name and the
// candidate's full skill set.
func (g *Store) WithSkill(ctx context.Context, skill string) ([]Row, error) {
	return g.readRows(ctx,
		`MATCH (c:Candidate)-[:HAS_SKILL]->(s:Skill)
		 WHERE toLower(s.name) = toLower($skill)
		 WITH DISTINCT c
		 MATCH (c)-[:HAS_SKILL]->(all:Skill)
		 RETURN c.name AS name, collect(all.name) AS skills ORDER BY name`,
		map[string]any{"skill": skill})
}

// All returns every candidate with all stored fields and skills.
func (g *Store) All(ctx context.Context) ([]Row, error) {
	return g.readRows(ctx,
		`MATCH (c:Candidate)
		 OPTIONAL MATCH (c)-[:HAS_SKILL]->(s:Skill)
		 RETURN c.name AS name, c.age AS age, c.email AS email, c.phone AS phone,
		        collect(s.name) AS skills
		 ORDER BY name`,
		nil)
}

// readRows runs a read-only statement in a scoped session and collects the
// result set. An empty result is a valid success, distinct from query errors.
func (g *Store) readRows(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cursor, err := sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for cursor.Next(ctx) {
		rec := cursor.Record()
		row := make(Row, len(rec.Keys))
		for i, key := range rec.Keys {
			if rec.Values[i] != nil {
				row[key] = rec.Values[i]
			}
		}
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
