// Command console is an interactive question prompt over the candidate
// graph. Type a question, get the matching candidates; type "exit" to
// quit.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pravinyadav/No4jConnect/engine/graph"
	"github.com/pravinyadav/No4jConnect/engine/nlquery"
	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	neo4jURL := envOr("NEO4J_URL", "neo4j://localhost:7687")
	neo4jUser := envOr("NEO4J_USER", "neo4j")
	neo4jPass := envOr("NEO4J_PASS", "password")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := neo4j.NewDriverWithContext(neo4jURL, neo4j.BasicAuth(neo4jUser, neo4jPass, ""))
	if err != nil {
		logger.Error("neo4j connect failed", "err", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		logger.Error("neo4j verify failed", "err", err)
		os.Exit(1)
	}

	store := graph.New(driver)
	svc := nlquery.NewService(nlquery.NewExecutor(store, resumenlp.DefaultVocabulary()), logger)

	fmt.Println("Ask about stored candidates. Type 'exit' to quit.")
	loop(ctx, os.Stdin, os.Stdout, svc.Ask)
}

// loop reads questions until EOF or the exit token. The exit check runs
// before translation, so "exit" is never treated as a question.
func loop(ctx context.Context, in io.Reader, out io.Writer, ask func(context.Context, string) (nlquery.Answer, error)) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") {
			fmt.Fprintln(out, "bye")
			return
		}

		answer, err := ask(ctx, line)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		for i, block := range answer.Blocks {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, block)
		}
	}
}
