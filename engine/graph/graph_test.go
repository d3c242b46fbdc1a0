package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

// memGraph applies the writer's two statement shapes to in-memory state so
// tests can observe the merge semantics across repeated writes.
type memGraph struct {
	candidates map[string]map[string]any // id -> props
	skills     map[string]bool           // skill name
	rels       map[string]int            // "candidateID->skill" -> count
}

func newMemGraph() *memGraph {
	return &memGraph{
		candidates: make(map[string]map[string]any),
		skills:     make(map[string]bool),
		rels:       make(map[string]int),
	}
}

func (m *memGraph) apply(cypher string, params map[string]any) error {
	switch {
	case strings.Contains(cypher, "MERGE (c:Candidate"):
		id := params["id"].(string)
		if m.candidates[id] == nil {
			m.candidates[id] = make(map[string]any)
		}
		for k, v := range params["props"].(map[string]any) {
			m.candidates[id][k] = v
		}
	case strings.Contains(cypher, "UNWIND $skills"):
		id := params["id"].(string)
		for _, s := range params["skills"].([]string) {
			m.skills[s] = true
			key := id + "->" + s
			if m.rels[key] == 0 {
				m.rels[key] = 1
			}
		}
	default:
		return errors.New("unexpected statement: " + cypher)
	}
	return nil
}

type fakeTx struct {
	graph *memGraph
	err   error
}

func (t *fakeTx) Run(_ context.Context, cypher string, params map[string]any) error {
	if t.err != nil {
		return t.err
	}
	return t.graph.apply(cypher, params)
}

type fakeSession struct {
	graph   *memGraph
	txErr   error
	runErr  error
	cursor  *fakeCursor
	closed  int
	queries []string
}

func (s *fakeSession) Run(_ context.Context, cypher string, _ map[string]any) (Cursor, error) {
	s.queries = append(s.queries, cypher)
	if s.runErr != nil {
		return nil, s.runErr
	}
	if s.cursor == nil {
		return &fakeCursor{}, nil
	}
	return s.cursor, nil
}

func (s *fakeSession) ExecuteWrite(ctx context.Context, work func(ctx context.Context, tx Tx) error) error {
	if s.txErr != nil {
		return s.txErr
	}
	return work(ctx, &fakeTx{graph: s.graph})
}

func (s *fakeSession) Close(context.Context) error {
	s.closed++
	return nil
}

type fakeOpener struct {
	session *fakeSession
}

func (o *fakeOpener) OpenSession(context.Context) Session { return o.session }

type fakeCursor struct {
	records []*neo4j.Record
	pos     int
	err     error
}

func (c *fakeCursor) Next(context.Context) bool {
	if c.pos >= len(c.records) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Record() *neo4j.Record { return c.records[c.pos-1] }
func (c *fakeCursor) Err() error            { return c.err }

func record(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestUpsertCandidateIdempotent(t *testing.T) {
	mem := newMemGraph()
	sess := &fakeSession{graph: mem}
	store := NewWithOpener(&fakeOpener{session: sess})

	rec := resumenlp.CandidateRecord{
		Name:   "Jane Smith",
		Email:  "jane@x.com",
		Phone:  "9998887770",
		Age:    29,
		Skills: []string{"Python", "SQL"},
	}

	first := store.UpsertCandidate(context.Background(), rec)
	second := store.UpsertCandidate(context.Background(), rec)

	if !first.OK() || !second.OK() {
		t.Fatalf("writes failed: %+v %+v", first, second)
	}
	if first.ID != second.ID {
		t.Errorf("identity not stable: %s vs %s", first.ID, second.ID)
	}
	if len(mem.candidates) != 1 {
		t.Errorf("candidate nodes = %d, want 1", len(mem.candidates))
	}
	if len(mem.skills) != 2 {
		t.Errorf("skill nodes = %d, want 2", len(mem.skills))
	}
	for key, n := range mem.rels {
		if n != 1 {
			t.Errorf("relationship %s duplicated %d times", key, n)
		}
	}
	if len(mem.rels) != 2 {
		t.Errorf("relationships = %d, want 2", len(mem.rels))
	}
	if sess.closed != 2 {
		t.Errorf("session closed %d times, want once per write", sess.closed)
	}
}

func TestUpsertCandidateSharedSkillNode(t *testing.T) {
	mem := newMemGraph()
	store := NewWithOpener(&fakeOpener{session: &fakeSession{graph: mem}})

	store.UpsertCandidate(context.Background(), resumenlp.CandidateRecord{
		Name: "Jane Smith", Email: "jane@x.com", Skills: []string{"Python"},
	})
	store.UpsertCandidate(context.Background(), resumenlp.CandidateRecord{
		Name: "Bob Brown", Email: "bob@y.org", Skills: []string{"Python"},
	})

	if len(mem.candidates) != 2 {
		t.Errorf("candidate nodes = %d, want 2", len(mem.candidates))
	}
	if len(mem.skills) != 1 {
		t.Errorf("skill nodes = %d, want 1 shared Python node", len(mem.skills))
	}
	if len(mem.rels) != 2 {
		t.Errorf("relationships = %d, want 2", len(mem.rels))
	}
}

func TestUpsertCandidateFailureReported(t *testing.T) {
	sess := &fakeSession{txErr: errors.New("connection refused")}
	store := NewWithOpener(&fakeOpener{session: sess})

	res := store.UpsertCandidate(context.Background(), resumenlp.CandidateRecord{Name: "Jane Smith"})
	if res.Status != StatusFailure {
		t.Fatalf("Status = %s, want failure", res.Status)
	}
	if res.Message == "" {
		t.Error("failure result carries no message")
	}
	if sess.closed != 1 {
		t.Errorf("session not released on failure path (closed=%d)", sess.closed)
	}
}

func TestUpsertCandidateNoSkills(t *testing.T) {
	mem := newMemGraph()
	store := NewWithOpener(&fakeOpener{session: &fakeSession{graph: mem}})

	res := store.UpsertCandidate(context.Background(), resumenlp.CandidateRecord{Email: "x@y.z"})
	if !res.OK() {
		t.Fatalf("write failed: %+v", res)
	}
	if len(mem.skills) != 0 || len(mem.rels) != 0 {
		t.Errorf("unexpected skill state: %v %v", mem.skills, mem.rels)
	}
}

func TestCandidateID(t *testing.T) {
	byEmail := resumenlp.CandidateRecord{Name: "Jane Smith", Email: "jane@x.com"}
	byEmailUpper := resumenlp.CandidateRecord{Name: "Someone Else", Email: "JANE@X.COM"}
	if CandidateID(byEmail) != CandidateID(byEmailUpper) {
		t.Error("email identity should be case-insensitive and dominate name")
	}

	byName := resumenlp.CandidateRecord{Name: "Jane Smith"}
	if CandidateID(byName) == CandidateID(byEmail) {
		t.Error("name-only identity should differ from email identity")
	}
	if CandidateID(byName) != CandidateID(resumenlp.CandidateRecord{Name: "jane smith"}) {
		t.Error("name identity should be case-insensitive")
	}

	empty := resumenlp.CandidateRecord{}
	if CandidateID(empty) != CandidateID(resumenlp.CandidateRecord{}) {
		t.Error("empty records should converge on one identity")
	}
}

func TestReadRows(t *testing.T) {
	cursor := &fakeCursor{records: []*neo4j.Record{
		record([]string{"name", "phone"}, []any{"Jane Smith", "9998887770"}),
		record([]string{"name", "phone"}, []any{"Bob Brown", nil}),
	}}
	sess := &fakeSession{cursor: cursor}
	store := NewWithOpener(&fakeOpener{session: sess})

	rows, err := store.Contacts(context.Background())
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Str("name") != "Jane Smith" || rows[0].Str("phone") != "9998887770" {
		t.Errorf("row[0] = %v", rows[0])
	}
	if _, ok := rows[1]["phone"]; ok {
		t.Error("nil values should be omitted from rows")
	}
	if sess.closed != 1 {
		t.Errorf("session closed %d times", sess.closed)
	}
}

func TestReadRowsError(t *testing.T) {
	sess := &fakeSession{runErr: errors.New("boom")}
	store := NewWithOpener(&fakeOpener{session: sess})

	if _, err := store.OlderThan(context.Background(), 25); err == nil {
		t.Fatal("expected error")
	}
	if sess.closed != 1 {
		t.Error("session not released on error path")
	}
}

func TestReadRowsEmptyIsSuccess(t *testing.T) {
	store := NewWithOpener(&fakeOpener{session: &fakeSession{}})
	rows, err := store.WithSkill(context.Background(), "Python")
	if err != nil {
		t.Fatalf("empty result should not be an error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

func TestRowAccessors(t *testing.T) {
	row := Row{"name": "Jane", "age": int64(29), "skills": []any{"Python", "SQL"}}
	if row.Str("name") != "Jane" {
		t.Error("Str")
	}
	if row.Int("age") != 29 {
		t.Error("Int int64")
	}
	if got := row.Strings("skills"); len(got) != 2 || got[0] != "Python" {
		t.Errorf("Strings = %v", got)
	}
	if row.Str("missing") != "" || row.Int("missing") != 0 || row.Strings("missing") != nil {
		t.Error("missing keys should return zero values")
	}
}

func TestStatsCounts(t *testing.T) {
	cursor := &fakeCursor{records: []*neo4j.Record{
		record([]string{"type", "count"}, []any{"Candidate", int64(3)}),
		record([]string{"type", "count"}, []any{"Skill", int64(5)}),
	}}
	store := NewWithOpener(&fakeOpener{session: &fakeSession{cursor: cursor}})

	counts, err := store.NodeCounts(context.Background())
	if err != nil {
		t.Fatalf("NodeCounts: %v", err)
	}
	if counts["Candidate"] != 3 || counts["Skill"] != 5 {
		t.Errorf("counts = %v", counts)
	}
}
