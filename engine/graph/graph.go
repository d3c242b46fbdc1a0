package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pravinyadav/No4jConnect/pkg/repo"
	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

// Cursor is the minimal interface needed from a neo4j result stream.
type Cursor interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// Tx is the minimal interface needed from a managed write transaction.
type Tx interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

// Session is a scoped unit of graph access. It must be closed on every exit
// path; the Store acquires one per operation.
type Session interface {
	Run(ctx context.Context, cypher string, params map[string]any) (Cursor, error)
	ExecuteWrite(ctx context.Context, work func(ctx context.Context, tx Tx) error) error
	Close(ctx context.Context) error
}

// Opener hands out scoped sessions. The production implementation wraps a
// neo4j driver; tests substitute fakes.
type Opener interface {
	OpenSession(ctx context.Context) Session
}

// Store owns all graph reads and writes for candidates and skills.
type Store struct {
	opener     Opener
	candidates *repo.Neo4jRepo[Candidate, string]
}

// New creates a Store backed by a neo4j driver.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{
		opener:     driverOpener{driver: driver},
		candidates: newCandidateRepo(driver),
	}
}

// NewWithOpener creates a Store with a custom session opener.
func NewWithOpener(opener Opener) *Store {
	return &Store{opener: opener}
}

// UpsertCandidate writes one extracted record into the graph inside a single
// write transaction: the candidate node is merged on its derived identity,
// each skill merges into the global Skill node of that name, and exactly one
// HAS_SKILL relationship exists per (candidate, skill) pair. Writing the
// same record twice leaves the graph unchanged after the first write.
//
// Failures are reported in the result, never raised.
func (g *Store) UpsertCandidate(ctx context.Context, rec resumenlp.CandidateRecord) WriteResult {
	id := CandidateID(rec)
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	err := sess.ExecuteWrite(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Run(ctx,
			`MERGE (c:Candidate {id: $id}) SET c += $props`,
			map[string]any{"id": id, "props": candidateProps(rec)},
		); err != nil {
			return err
		}
		if len(rec.Skills) == 0 {
			return nil
		}
		return tx.Run(ctx,
			`MATCH (c:Candidate {id: $id})
			 UNWIND $skills AS skill
			 MERGE (s:Skill {name: skill})
			 MERGE (c)-[:HAS_SKILL]->(s)`,
			map[string]any{"id": id, "skills": rec.Skills},
		)
	})
	if err != nil {
		return WriteResult{Status: StatusFailure, ID: id, Message: err.Error()}
	}
	return WriteResult{Status: StatusSuccess, ID: id}
}

// GetCandidate returns a candidate by ID.
func (g *Store) GetCandidate(ctx context.Context, id string) (Candidate, error) {
	if g.candidates == nil {
		return Candidate{}, fmt.Errorf("graph: candidate repository not configured")
	}
	return g.candidates.Get(ctx, id)
}

// ListCandidates returns stored candidates with pagination.
func (g *Store) ListCandidates(ctx context.Context, opts repo.ListOpts) ([]Candidate, error) {
	if g.candidates == nil {
		return nil, fmt.Errorf("graph: candidate repository not configured")
	}
	return g.candidates.List(ctx, opts)
}

// --- driver adapters ---

type driverOpener struct {
	driver neo4j.DriverWithContext
}

func (o driverOpener) OpenSession(ctx context.Context) Session {
	return driverSession{sess: o.driver.NewSession(ctx, neo4j.SessionConfig{})}
}

type driverSession struct {
	sess neo4j.SessionWithContext
}

func (s driverSession) Run(ctx context.Context, cypher string, params map[string]any) (Cursor, error) {
	return s.sess.Run(ctx, cypher, params)
}

func (s driverSession) ExecuteWrite(ctx context.Context, work func(ctx context.Context, tx Tx) error) error {
	_, err := s.sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, work(ctx, managedTx{tx: tx})
	})
	return err
}

func (s driverSession) Close(ctx context.Context) error {
	return s.sess.Close(ctx)
}

type managedTx struct {
	tx neo4j.ManagedTransaction
}

func (t managedTx) Run(ctx context.Context, cypher string, params map[string]any) error {
	_, err := t.tx.Run(ctx, cypher, params)
	return err
}
