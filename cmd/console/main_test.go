package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pravinyadav/No4jConnect/engine/nlquery"
)

func TestLoopExitBeforeAsk(t *testing.T) {
	var asked []string
	ask := func(_ context.Context, q string) (nlquery.Answer, error) {
		asked = append(asked, q)
		return nlquery.Answer{Supported: true, Blocks: []string{"name: Jane Smith"}}, nil
	}

	in := strings.NewReader("show all candidates\nexit\nshow all candidates\n")
	var out strings.Builder
	loop(context.Background(), in, &out, ask)

	if len(asked) != 1 {
		t.Fatalf("asked = %v, want one question before exit", asked)
	}
	if !strings.Contains(out.String(), "name: Jane Smith") {
		t.Errorf("output missing answer block:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "bye") {
		t.Error("exit not acknowledged")
	}
}

func TestLoopSkipsBlankLines(t *testing.T) {
	var asked int
	ask := func(context.Context, string) (nlquery.Answer, error) {
		asked++
		return nlquery.Answer{}, nil
	}

	loop(context.Background(), strings.NewReader("\n   \nEXIT\n"), &strings.Builder{}, ask)
	if asked != 0 {
		t.Errorf("asked = %d, want 0", asked)
	}
}

func TestLoopPrintsErrors(t *testing.T) {
	ask := func(context.Context, string) (nlquery.Answer, error) {
		return nlquery.Answer{}, errors.New("age threshold missing")
	}

	var out strings.Builder
	loop(context.Background(), strings.NewReader("age above pancake\n"), &out, ask)
	if !strings.Contains(out.String(), "age threshold missing") {
		t.Errorf("error not surfaced:\n%s", out.String())
	}
}

func TestLoopBlockSeparation(t *testing.T) {
	ask := func(context.Context, string) (nlquery.Answer, error) {
		return nlquery.Answer{Supported: true, Blocks: []string{"name: A", "name: B"}}, nil
	}

	var out strings.Builder
	loop(context.Background(), strings.NewReader("all candidates\nexit\n"), &out, ask)
	if !strings.Contains(out.String(), "name: A\n\nname: B") {
		t.Errorf("blocks not separated by a blank line:\n%s", out.String())
	}
}
