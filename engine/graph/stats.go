package graph

import "context"

// Stats holds aggregate graph counts for the status surface.
type Stats struct {
	Nodes         map[string]int64 `json:"nodes"`
	Relationships map[string]int64 `json:"relationships"`
}

// NodeCounts returns node counts grouped by label.
func (g *Store) NodeCounts(ctx context.Context) (map[string]int64, error) {
	return g.countsBy(ctx, `MATCH (n) RETURN labels(n)[0] AS type, count(*) AS count`)
}

// RelationshipCounts returns relationship counts grouped by type.
func (g *Store) RelationshipCounts(ctx context.Context) (map[string]int64, error) {
	return g.countsBy(ctx, `MATCH ()-[r]->() RETURN type(r) AS type, count(*) AS count`)
}

// GraphStats collects node and relationship counts in one call.
func (g *Store) GraphStats(ctx context.Context) (Stats, error) {
	nodes, err := g.NodeCounts(ctx)
	if err != nil {
		return Stats{}, err
	}
	rels, err := g.RelationshipCounts(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Nodes: nodes, Relationships: rels}, nil
}

func (g *Store) countsBy(ctx context.Context, cypher string) (map[string]int64, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cursor, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		rec := cursor.Record()
		typ, _ := rec.Get("type")
		cnt, _ := rec.Get("count")
		if t, ok := typ.(string); ok {
			if c, ok := cnt.(int64); ok {
				counts[t] = c
			}
		}
	}
	return counts, cursor.Err()
}
