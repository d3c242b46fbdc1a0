// Command api serves the candidate graph over HTTP: natural language
// questions, candidate listings, graph stats, similarity search, and a
// direct ingest endpoint.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pravinyadav/No4jConnect/engine/domain"
	"github.com/pravinyadav/No4jConnect/engine/graph"
	"github.com/pravinyadav/No4jConnect/engine/ingest"
	"github.com/pravinyadav/No4jConnect/engine/nlquery"
	"github.com/pravinyadav/No4jConnect/engine/semantic"
	"github.com/pravinyadav/No4jConnect/pkg/metrics"
	"github.com/pravinyadav/No4jConnect/pkg/mid"
	"github.com/pravinyadav/No4jConnect/pkg/ollama"
	"github.com/pravinyadav/No4jConnect/pkg/repo"
	"github.com/pravinyadav/No4jConnect/pkg/resilience"
	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

const vectorDims = 768 // nomic-embed-text

var met = metrics.New()

// Config holds all environment-based configuration.
type Config struct {
	Port        string
	MetricsPort int
	Neo4jURL    string
	Neo4jUser   string
	Neo4jPass   string
	QdrantAddr  string
	Collection  string
	OllamaURL   string
	OllamaModel string
	CORSOrigin  string
}

func loadConfig() Config {
	_ = godotenv.Load()
	mp, _ := strconv.Atoi(envOr("METRICS_PORT", "9090"))
	return Config{
		Port:        envOr("PORT", "8080"),
		MetricsPort: mp,
		Neo4jURL:    envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:   envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:   envOr("NEO4J_PASS", "password"),
		QdrantAddr:  envOr("QDRANT_URL", "localhost:6334"),
		Collection:  envOr("QDRANT_COLLECTION", "candidates"),
		OllamaURL:   envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: envOr("OLLAMA_MODEL", "nomic-embed-text"),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(loadConfig(), logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	met.ServeAsync(cfg.MetricsPort)

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j verify: %w", err)
	}

	store := graph.New(driver)
	vocab := resumenlp.DefaultVocabulary()
	querySvc := nlquery.NewService(nlquery.NewExecutor(store, vocab), logger)
	breaker := resilience.NewBreaker(resilience.DefaultBreakerOpts)

	vectors, err := semantic.NewStore(cfg.QdrantAddr, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectors.Close()
	if err := vectors.EnsureCollection(ctx, vectorDims); err != nil {
		logger.Warn("qdrant collection check failed, similarity search may be unavailable", "err", err)
	}
	embedder := ollama.NewEmbedClient(cfg.OllamaURL, cfg.OllamaModel)
	index := semantic.NewIndex(embedder, vectors)

	ingestDeps := ingest.Deps{
		Graph:     store,
		Extractor: resumenlp.NewExtractor(vocab),
		Index:     index,
		Logger:    logger,
		Metrics:   met,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/query", handleQuery(querySvc, breaker, logger))
	mux.HandleFunc("GET /api/candidates", handleCandidates(store))
	mux.HandleFunc("GET /api/candidates/{id}", handleCandidate(store))
	mux.HandleFunc("GET /api/stats", handleStats(store))
	mux.HandleFunc("GET /api/similar", handleSimilar(index, logger))
	mux.HandleFunc("POST /api/ingest", handleIngest(ingestDeps, logger))

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.RequestID(),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.Instrument(met),
		mid.OTel("candidate-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// QueryRequest is the JSON body for POST /api/query.
type QueryRequest struct {
	Question string `json:"question"`
}

func handleQuery(svc *nlquery.Service, breaker *resilience.Breaker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var answer nlquery.Answer
		var askErr error
		err := breaker.Call(r.Context(), func(ctx context.Context) error {
			answer, askErr = svc.Ask(ctx, req.Question)
			// Malformed questions are the caller's fault and should
			// not trip the breaker.
			if askErr != nil && !isBadQuestion(askErr) {
				return askErr
			}
			return nil
		})
		switch {
		case errors.Is(err, resilience.ErrCircuitOpen):
			writeError(w, http.StatusServiceUnavailable, "query backend unavailable")
		case err != nil:
			logger.Error("query failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		case askErr != nil:
			writeError(w, http.StatusBadRequest, askErr.Error())
		default:
			writeJSON(w, http.StatusOK, answer)
		}
	}
}

func isBadQuestion(err error) bool {
	return errors.Is(err, domain.ErrEmptyQuestion) || errors.Is(err, domain.ErrBadThreshold)
}

func handleCandidates(store *graph.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}
		list, err := store.ListCandidates(r.Context(), repo.ListOpts{Offset: offset, Limit: limit})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"candidates": list, "count": len(list)})
	}
}

func handleCandidate(store *graph.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetCandidate(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "candidate not found")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleStats(store *graph.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.GraphStats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "stats failed")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleSimilar(index *semantic.Index, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}
		topK, _ := strconv.Atoi(r.URL.Query().Get("k"))
		matches, err := index.Similar(r.Context(), query, topK)
		if err != nil {
			logger.Error("similarity search failed", "err", err)
			writeError(w, http.StatusInternalServerError, "search failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
	}
}

// IngestRequest is the JSON body for POST /api/ingest.
type IngestRequest struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text"`
}

func handleIngest(deps ingest.Deps, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		doc := domain.Document{
			Source:     "api",
			SourceID:   req.SourceID,
			Title:      req.Title,
			Text:       req.Text,
			ReceivedAt: time.Now().UTC(),
		}
		res, err := ingest.Run(r.Context(), deps, doc)
		if err != nil {
			if ingest.IsValidation(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("ingest failed", "doc_id", doc.DocID(), "err", err)
			writeError(w, http.StatusInternalServerError, "ingest failed")
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}
