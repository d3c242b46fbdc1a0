package ingest

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/pravinyadav/No4jConnect/engine/domain"
	"github.com/pravinyadav/No4jConnect/pkg/natsutil"
)

// StartConsumer subscribes to the ingest subject and runs each document
// through the pipeline. Failed documents are republished with a retry
// counter and land on the DLQ after MaxRetries. Validation failures go
// to the DLQ immediately since retrying cannot fix them.
func StartConsumer(nc *nats.Conn, deps Deps) (*nats.Subscription, error) {
	pipeline := NewPipeline(deps)
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return natsutil.QueueSubscribe(nc, Subject, Queue, func(ctx context.Context, doc domain.Document, msg *nats.Msg) {
		if deps.Seen != nil {
			seen, err := deps.Seen(ctx, doc.DocID())
			if err != nil {
				log.Warn("dedup check failed", "doc_id", doc.DocID(), "error", err)
			} else if seen {
				log.Info("skipping duplicate", "doc_id", doc.DocID())
				return
			}
		}

		result := pipeline(ctx, doc)
		if result.IsOk() {
			res, _ := result.Unwrap()
			log.Info("document ingested", "doc_id", doc.DocID(), "candidate_id", res.ID)
			return
		}

		_, pipeErr := result.Unwrap()
		retries := natsutil.RetryCount(msg) + 1
		log.Error("pipeline failed",
			"doc_id", doc.DocID(),
			"error", pipeErr,
			"retry", retries,
		)

		if retries >= MaxRetries || IsValidation(pipeErr) {
			dlq := DLQMessage{Doc: doc, Error: pipeErr.Error(), Retries: retries}
			if err := natsutil.Publish(ctx, nc, DLQSubject, dlq); err != nil {
				log.Error("dlq publish failed", "doc_id", doc.DocID(), "error", err)
			}
			return
		}
		if err := natsutil.PublishRetry(ctx, nc, Subject, doc, retries); err != nil {
			log.Error("retry publish failed", "doc_id", doc.DocID(), "error", err)
		}
	})
}
