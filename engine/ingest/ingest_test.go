package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/pravinyadav/No4jConnect/engine/domain"
	"github.com/pravinyadav/No4jConnect/engine/graph"
	"github.com/pravinyadav/No4jConnect/pkg/metrics"
	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

type fakeGraph struct {
	upserts []resumenlp.CandidateRecord
	fail    bool
}

func (f *fakeGraph) UpsertCandidate(_ context.Context, rec resumenlp.CandidateRecord) graph.WriteResult {
	if f.fail {
		return graph.WriteResult{Status: graph.StatusFailure, Message: "neo4j down"}
	}
	f.upserts = append(f.upserts, rec)
	return graph.WriteResult{Status: graph.StatusSuccess, ID: graph.CandidateID(rec)}
}

type fakeIndex struct {
	ids []string
	err error
}

func (f *fakeIndex) IndexCandidate(_ context.Context, id string, _ resumenlp.CandidateRecord) error {
	f.ids = append(f.ids, id)
	return f.err
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doc(text string) domain.Document {
	return domain.Document{Source: "file", SourceID: "r1", Text: text}
}

const resume = "Jane Smith\njane@example.com\n9998887770\n29 years\nSkills: Python, SQL"

func TestPipelineStoresCandidate(t *testing.T) {
	gs := &fakeGraph{}
	deps := Deps{Graph: gs, Logger: quiet()}

	res, err := Run(context.Background(), deps, doc(resume))
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if len(gs.upserts) != 1 {
		t.Fatalf("upserts = %d", len(gs.upserts))
	}
	rec := gs.upserts[0]
	if rec.Name != "Jane Smith" || rec.Email != "jane@example.com" || rec.Age != 29 {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Skills) != 2 {
		t.Errorf("skills = %v", rec.Skills)
	}
	if res.ID == "" {
		t.Error("candidate id not derived")
	}
}

func TestPipelineRejectsInvalidDocument(t *testing.T) {
	gs := &fakeGraph{}
	deps := Deps{Graph: gs, Logger: quiet()}

	_, err := Run(context.Background(), deps, domain.Document{Source: "file", SourceID: "r1"})
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Fatalf("err = %v", err)
	}
	if len(gs.upserts) != 0 {
		t.Error("invalid document reached the store stage")
	}
	if !IsValidation(err) {
		t.Error("validation error not classified")
	}
}

func TestPipelineGraphFailure(t *testing.T) {
	deps := Deps{Graph: &fakeGraph{fail: true}, Logger: quiet()}

	res, err := Run(context.Background(), deps, doc(resume))
	if err == nil {
		t.Fatal("expected error")
	}
	if res.OK() {
		t.Error("failed write reported as success")
	}
	if IsValidation(err) {
		t.Error("backend error classified as validation")
	}
}

func TestPipelineIndexFailureDoesNotFailDocument(t *testing.T) {
	gs := &fakeGraph{}
	ix := &fakeIndex{err: errors.New("qdrant down")}
	deps := Deps{Graph: gs, Index: ix, Logger: quiet()}

	res, err := Run(context.Background(), deps, doc(resume))
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Error("index failure should not fail the document")
	}
	if len(ix.ids) != 1 {
		t.Errorf("index calls = %d", len(ix.ids))
	}
}

func TestPipelineStableCandidateID(t *testing.T) {
	gs := &fakeGraph{}
	deps := Deps{Graph: gs, Logger: quiet()}
	ctx := context.Background()

	first, _ := Run(ctx, deps, doc(resume))
	second, _ := Run(ctx, deps, doc(resume))
	if len(gs.upserts) != 2 {
		t.Fatalf("upserts = %d", len(gs.upserts))
	}
	if first.ID != second.ID {
		t.Error("same resume produced different candidate ids")
	}
}

func TestPipelineMetrics(t *testing.T) {
	reg := metrics.New()
	deps := Deps{Graph: &fakeGraph{}, Logger: quiet(), Metrics: reg}
	ctx := context.Background()

	Run(ctx, deps, doc(resume))
	Run(ctx, deps, domain.Document{})

	out := reg.Render()
	if !strings.Contains(out, `ingest_docs_total{result="ok"} 1`) {
		t.Errorf("ok counter missing in:\n%s", out)
	}
	if !strings.Contains(out, `ingest_docs_total{result="error"} 1`) {
		t.Errorf("error counter missing in:\n%s", out)
	}
}

func TestExtractStageEmptyRecord(t *testing.T) {
	stage := NewExtract(nil)
	res := stage(context.Background(), doc("nothing useful here at all"))
	ex, err := res.Unwrap()
	if err != nil {
		t.Fatal(err)
	}
	// The record may be empty but the identity is still derivable.
	if ex.CandidateID == "" {
		t.Error("no candidate id for empty record")
	}
}
