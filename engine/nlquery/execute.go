package nlquery

import (
	"context"
	"fmt"

	"github.com/pravinyadav/No4jConnect/engine/graph"
	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

// GraphReader is the read-only graph surface the executor needs.
// *graph.Store satisfies it.
type GraphReader interface {
	Contacts(ctx context.Context) ([]graph.Row, error)
	OlderThan(ctx context.Context, age int) ([]graph.Row, error)
	WithSkill(ctx context.Context, skill string) ([]graph.Row, error)
	All(ctx context.Context) ([]graph.Row, error)
}

// Executor maps each intent variant onto its fixed query shape. Execution
// never mutates graph state.
type Executor struct {
	reader GraphReader
	vocab  *resumenlp.Vocabulary
}

// NewExecutor creates an Executor. A nil vocabulary falls back to the
// built-in one; it is used to canonicalize skill parameters before lookup.
func NewExecutor(reader GraphReader, vocab *resumenlp.Vocabulary) *Executor {
	if vocab == nil {
		vocab = resumenlp.DefaultVocabulary()
	}
	return &Executor{reader: reader, vocab: vocab}
}

// Execute runs the query for an intent and returns the raw result rows.
// An Unsupported intent yields an empty row set with no error; the caller
// is responsible for telling the user the query is not supported. Query
// failures are returned as errors, distinct from valid empty results.
func (e *Executor) Execute(ctx context.Context, intent Intent) ([]graph.Row, error) {
	switch intent.Kind {
	case KindListContacts:
		return e.reader.Contacts(ctx)
	case KindFilterByAgeAbove:
		return e.reader.OlderThan(ctx, intent.AgeThreshold)
	case KindFilterBySkill:
		skill := intent.Skill
		if canonical, ok := e.vocab.Canonical(skill); ok {
			skill = canonical
		}
		return e.reader.WithSkill(ctx, skill)
	case KindListAll:
		return e.reader.All(ctx)
	case KindUnsupported:
		return nil, nil
	default:
		return nil, fmt.Errorf("nlquery: unknown intent kind %d", intent.Kind)
	}
}
