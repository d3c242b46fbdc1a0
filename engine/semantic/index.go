package semantic

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

// Embedder turns text into a vector. Satisfied by ollama.EmbedClient.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the vector backend the index writes to and searches.
type Store interface {
	Upsert(ctx context.Context, vectors []CandidateVector) error
	Search(ctx context.Context, embedding []float32, topK int) ([]Match, error)
}

// Index embeds candidate profiles and answers free-text similarity
// queries over them.
type Index struct {
	embedder Embedder
	store    Store
}

// NewIndex wires an embedder to a vector store.
func NewIndex(embedder Embedder, store Store) *Index {
	return &Index{embedder: embedder, store: store}
}

// ProfileText flattens a candidate record into the text that gets
// embedded. Stable field order keeps re-ingestion idempotent.
func ProfileText(rec resumenlp.CandidateRecord) string {
	var parts []string
	if rec.Name != "" {
		parts = append(parts, rec.Name)
	}
	if rec.Age > 0 {
		parts = append(parts, strconv.Itoa(rec.Age)+" years")
	}
	if len(rec.Skills) > 0 {
		parts = append(parts, "skills: "+strings.Join(rec.Skills, ", "))
	}
	return strings.Join(parts, ". ")
}

// IndexCandidate embeds the candidate's profile and upserts it under the
// given id.
func (ix *Index) IndexCandidate(ctx context.Context, id string, rec resumenlp.CandidateRecord) error {
	profile := ProfileText(rec)
	if profile == "" {
		return nil
	}
	vec, err := ix.embedder.Embed(ctx, profile)
	if err != nil {
		return fmt.Errorf("semantic: embed candidate %s: %w", id, err)
	}
	payload := map[string]any{"profile": profile}
	if rec.Name != "" {
		payload["name"] = rec.Name
	}
	if len(rec.Skills) > 0 {
		payload["skills"] = strings.Join(rec.Skills, ", ")
	}
	return ix.store.Upsert(ctx, []CandidateVector{{ID: id, Embedding: vec, Payload: payload}})
}

// Similar embeds the query text and returns the topK closest candidates.
func (ix *Index) Similar(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}
	vec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed query: %w", err)
	}
	return ix.store.Search(ctx, vec, topK)
}
