// Package ingest runs documents through validation, candidate extraction
// and graph storage. The pipeline is composed of fn.Stage values so the
// binaries can wrap it with rate limiting or tracing as needed.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pravinyadav/No4jConnect/engine/domain"
	"github.com/pravinyadav/No4jConnect/engine/graph"
	"github.com/pravinyadav/No4jConnect/pkg/fn"
	"github.com/pravinyadav/No4jConnect/pkg/metrics"
	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

const (
	// Subject is the NATS subject documents arrive on.
	Subject = "resume.ingest"
	// DLQSubject receives documents that failed too many times.
	DLQSubject = "resume.ingest.dlq"
	// Queue is the consumer queue group, so workers share the subject.
	Queue = "ingest-workers"
	// MaxRetries before a document is sent to the DLQ.
	MaxRetries = 3
)

// GraphWriter is the slice of graph.Store the pipeline needs.
type GraphWriter interface {
	UpsertCandidate(ctx context.Context, rec resumenlp.CandidateRecord) graph.WriteResult
}

// Indexer mirrors semantic.Index. Nil disables profile indexing.
type Indexer interface {
	IndexCandidate(ctx context.Context, id string, rec resumenlp.CandidateRecord) error
}

// Deps holds the pipeline's external dependencies.
type Deps struct {
	Graph     GraphWriter
	Extractor *resumenlp.Extractor
	Index     Indexer
	// Seen reports whether docID was already ingested. Nil disables
	// deduplication.
	Seen    func(ctx context.Context, docID string) (bool, error)
	Logger  *slog.Logger
	Metrics *metrics.Registry
}

// Validate rejects documents that fail domain validation.
var Validate fn.Stage[domain.Document, domain.Document] = func(_ context.Context, doc domain.Document) fn.Result[domain.Document] {
	if err := domain.ValidateDocument(doc); err != nil {
		return fn.Err[domain.Document](err)
	}
	return fn.Ok(doc)
}

// NewExtract builds the stage that pulls a candidate record out of the
// document text and derives its stable identity.
func NewExtract(ex *resumenlp.Extractor) fn.Stage[domain.Document, Extraction] {
	if ex == nil {
		ex = resumenlp.NewExtractor(nil)
	}
	return func(_ context.Context, doc domain.Document) fn.Result[Extraction] {
		rec := ex.Extract(doc.Text)
		return fn.Ok(Extraction{
			Doc:         doc,
			Record:      rec,
			CandidateID: graph.CandidateID(rec),
		})
	}
}

// NewStore builds the stage that writes the candidate to the graph and,
// when an index is configured, embeds its profile. Index failures are
// logged but do not fail the document.
func NewStore(gw GraphWriter, index Indexer, log *slog.Logger) fn.Stage[Extraction, graph.WriteResult] {
	return func(ctx context.Context, ex Extraction) fn.Result[graph.WriteResult] {
		res := gw.UpsertCandidate(ctx, ex.Record)
		if !res.OK() {
			return fn.Err[graph.WriteResult](fmt.Errorf("graph write: %s", res.Message))
		}
		if index != nil {
			if err := index.IndexCandidate(ctx, ex.CandidateID, ex.Record); err != nil {
				log.Warn("profile index failed", "candidate_id", ex.CandidateID, "error", err)
			}
		}
		return fn.Ok(res)
	}
}

// LoggedTap logs stage entry and exit with duration.
func LoggedTap[T any](name string, log *slog.Logger) fn.Stage[T, T] {
	return func(_ context.Context, t T) fn.Result[T] {
		log.Debug("stage.enter", "stage", name)
		start := time.Now()
		defer func() {
			log.Debug("stage.exit", "stage", name, "duration", time.Since(start))
		}()
		return fn.Ok(t)
	}
}

// NewPipeline wires Validate, Extract and Store into one traced stage.
func NewPipeline(deps Deps) fn.Stage[domain.Document, graph.WriteResult] {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	validated := fn.Then(LoggedTap[domain.Document]("validate", log), Validate)
	extracted := fn.Then(validated, fn.TracedStage("ingest.extract", NewExtract(deps.Extractor)))
	stored := fn.Then(extracted, fn.TracedStage("ingest.store", NewStore(deps.Graph, deps.Index, log)))

	if deps.Metrics == nil {
		return stored
	}
	docs := deps.Metrics
	return func(ctx context.Context, doc domain.Document) fn.Result[graph.WriteResult] {
		start := time.Now()
		res := stored(ctx, doc)
		outcome := "ok"
		if res.IsErr() {
			outcome = "error"
		}
		docs.Counter(metrics.WithLabels("ingest_docs_total", "result", outcome), "Documents ingested.").Inc()
		docs.Histogram("ingest_seconds", "Ingest pipeline latency.", nil).Since(start)
		return res
	}
}

// Run pushes a single document through the pipeline. Used by the file
// ingester and the API.
func Run(ctx context.Context, deps Deps, doc domain.Document) (graph.WriteResult, error) {
	res := NewPipeline(deps)(ctx, doc)
	out, err := res.Unwrap()
	if err != nil {
		return graph.WriteResult{Status: graph.StatusFailure, Message: err.Error()}, err
	}
	return out, nil
}

// IsValidation reports whether err came from document validation, which
// should not be retried.
func IsValidation(err error) bool {
	return errors.Is(err, domain.ErrEmptyDocument) ||
		errors.Is(err, domain.ErrUnknownSource) ||
		errors.Is(err, domain.ErrMissingID)
}
