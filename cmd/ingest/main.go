// Command ingest watches a directory for resume files, extracts candidate
// records from them, and writes them to the graph and the vector index.
// With -nats it also consumes documents from the ingest subject.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pravinyadav/No4jConnect/engine/domain"
	"github.com/pravinyadav/No4jConnect/engine/graph"
	"github.com/pravinyadav/No4jConnect/engine/ingest"
	"github.com/pravinyadav/No4jConnect/engine/semantic"
	"github.com/pravinyadav/No4jConnect/pkg/doctext"
	"github.com/pravinyadav/No4jConnect/pkg/fn"
	"github.com/pravinyadav/No4jConnect/pkg/metrics"
	"github.com/pravinyadav/No4jConnect/pkg/ollama"
	"github.com/pravinyadav/No4jConnect/pkg/resilience"
	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

const vectorDims = 768 // nomic-embed-text

var met = metrics.New()

var (
	mFilesProcessed = met.Counter("ingest_files_processed_total", "Resume files processed")
	mFileErrors     = met.Counter("ingest_file_errors_total", "Resume files that failed")
	mDedupHits      = met.Counter("ingest_dedup_hits_total", "Documents skipped by dedup")
	mLastScan       = met.Gauge("ingest_last_scan_timestamp", "Epoch of last directory scan")
	mQueueDepth     = met.Gauge("ingest_queue_depth", "Files waiting to process")
)

func main() {
	_ = godotenv.Load()
	var (
		dataDir     = flag.String("dir", "./resumes", "directory to watch for resume files")
		interval    = flag.Duration("interval", 30*time.Second, "scan interval")
		stateFile   = flag.String("state", "./resumes/.ingest-state.json", "processed files state")
		workers     = flag.Int("workers", 4, "parallel file workers")
		docsPerSec  = flag.Float64("rate", 10, "max documents per second")
		neo4jURL    = flag.String("neo4j", envOr("NEO4J_URL", "neo4j://localhost:7687"), "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", envOr("NEO4J_USER", "neo4j"), "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", envOr("NEO4J_PASS", "password"), "Neo4j password")
		qdrantAddr  = flag.String("qdrant", envOr("QDRANT_URL", "localhost:6334"), "Qdrant gRPC address")
		collection  = flag.String("collection", envOr("QDRANT_COLLECTION", "candidates"), "Qdrant collection name")
		ollamaURL   = flag.String("ollama", envOr("OLLAMA_URL", "http://localhost:11434"), "Ollama base URL")
		ollamaModel = flag.String("model", envOr("OLLAMA_MODEL", "nomic-embed-text"), "Ollama embedding model")
		natsURL     = flag.String("nats", os.Getenv("NATS_URL"), "NATS URL, empty disables the queue consumer")
		metricsPort = flag.Int("metrics-port", 9091, "metrics port")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	met.ServeAsync(*metricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Error("neo4j verify failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Neo4j")

	vectors, err := semantic.NewStore(*qdrantAddr, *collection)
	if err != nil {
		log.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer vectors.Close()
	if err := vectors.EnsureCollection(ctx, vectorDims); err != nil {
		log.Error("qdrant ensure collection failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Qdrant", "collection", *collection, "dims", vectorDims)

	embedder := ollama.NewEmbedClient(*ollamaURL, *ollamaModel)
	index := semantic.NewIndex(embedder, vectors)

	var mu sync.Mutex
	seen := make(map[string]bool)

	deps := ingest.Deps{
		Graph:     graph.New(driver),
		Extractor: resumenlp.NewExtractor(nil),
		Index:     index,
		Seen: func(_ context.Context, docID string) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			if seen[docID] {
				mDedupHits.Inc()
				return true, nil
			}
			seen[docID] = true
			return false, nil
		},
		Logger:  log,
		Metrics: met,
	}

	if *natsURL != "" {
		nc, err := nats.Connect(*natsURL, nats.Name("resume-ingest"))
		if err != nil {
			log.Error("nats connect failed", "error", err)
			os.Exit(1)
		}
		defer nc.Drain()
		sub, err := ingest.StartConsumer(nc, deps)
		if err != nil {
			log.Error("nats subscribe failed", "error", err)
			os.Exit(1)
		}
		defer sub.Unsubscribe()
		log.Info("consuming queue documents", "subject", ingest.Subject)
	}

	limiter := resilience.NewLimiter(*docsPerSec, *workers)
	processed := loadState(*stateFile)
	os.MkdirAll(*dataDir, 0o755)
	log.Info("watching for resumes", "dir", *dataDir, "interval", *interval)

	scan := func() {
		mLastScan.Set(time.Now().Unix())
		entries, err := os.ReadDir(*dataDir)
		if err != nil {
			log.Error("readdir failed", "error", err)
			return
		}

		var pending []string
		for _, e := range entries {
			if e.IsDir() || e.Name()[0] == '.' || !doctext.Supported(e.Name()) {
				continue
			}
			if processed[e.Name()] {
				continue
			}
			pending = append(pending, e.Name())
		}
		if len(pending) == 0 {
			return
		}
		mQueueDepth.Set(int64(len(pending)))

		results := fn.ParMapResult(pending, *workers, func(name string) fn.Result[string] {
			if err := limiter.Wait(ctx); err != nil {
				return fn.Err[string](err)
			}
			return processFile(ctx, deps, filepath.Join(*dataDir, name))
		})
		for i, r := range results {
			mQueueDepth.Dec()
			if id, err := r.Unwrap(); err != nil {
				mFileErrors.Inc()
				log.Error("file failed, will retry on next scan", "file", pending[i], "error", err)
			} else {
				mFilesProcessed.Inc()
				processed[pending[i]] = true
				log.Info("file ingested", "file", pending[i], "candidate_id", id)
			}
		}
		saveState(*stateFile, processed)
	}

	scan()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return
		case <-ticker.C:
			scan()
		}
	}
}

var fileRetry = fn.RetryOpts{
	MaxAttempts: 3,
	InitialWait: time.Second,
	MaxWait:     10 * time.Second,
	Jitter:      true,
}

// processFile flattens one resume file and runs it through the pipeline,
// returning the candidate id. Backend failures are retried with backoff;
// validation failures are not, since retrying cannot fix the file.
func processFile(ctx context.Context, deps ingest.Deps, path string) fn.Result[string] {
	text, err := doctext.Load(path)
	if err != nil {
		return fn.Err[string](fmt.Errorf("load %s: %w", path, err))
	}
	doc := domain.Document{
		Source:     "file",
		SourceID:   filepath.Base(path),
		Text:       text,
		ReceivedAt: time.Now().UTC(),
	}
	if err := domain.ValidateDocument(doc); err != nil {
		return fn.Err[string](err)
	}
	return fn.Retry(ctx, fileRetry, func(ctx context.Context) fn.Result[string] {
		res, err := ingest.Run(ctx, deps, doc)
		if err != nil {
			return fn.Err[string](err)
		}
		return fn.Ok(res.ID)
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadState(path string) map[string]bool {
	m := make(map[string]bool)
	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}
	json.Unmarshal(data, &m)
	return m
}

func saveState(path string, m map[string]bool) {
	data, _ := json.Marshal(m)
	os.WriteFile(path, data, 0o644)
}
