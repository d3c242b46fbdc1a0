package nlquery

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
)

// Answer is the full outcome of asking one question.
type Answer struct {
	Intent    Intent   `json:"-"`
	IntentTag string   `json:"intent"`
	Supported bool     `json:"supported"`
	Blocks    []string `json:"blocks"`
}

// Service ties translation, execution, and formatting together for one
// question at a time.
type Service struct {
	executor *Executor
	logger   *slog.Logger
}

// NewService creates a question-answering Service over a graph reader.
func NewService(executor *Executor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{executor: executor, logger: logger}
}

// Ask classifies the question, runs the corresponding graph query, and
// formats the rows. Translation failures (malformed parameters) and query
// failures come back as errors; unsupported questions come back as a
// successful Answer with Supported false.
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	ctx, span := otel.Tracer("engine/nlquery").Start(ctx, "nlquery.ask")
	defer span.End()

	intent, err := Translate(question)
	if err != nil {
		s.logger.Warn("translation failed", "question", question, "error", err)
		span.RecordError(err)
		return Answer{Intent: intent, IntentTag: intent.String()}, err
	}

	if intent.Kind == KindUnsupported {
		s.logger.Info("unsupported question", "question", question)
		return Answer{
			Intent:    intent,
			IntentTag: intent.String(),
			Blocks:    []string{NotSupported},
		}, nil
	}

	rows, err := s.executor.Execute(ctx, intent)
	if err != nil {
		s.logger.Error("query failed", "intent", intent.String(), "error", err)
		span.RecordError(err)
		return Answer{Intent: intent, IntentTag: intent.String()}, err
	}

	s.logger.Info("question answered", "intent", intent.String(), "rows", len(rows))
	return Answer{
		Intent:    intent,
		IntentTag: intent.String(),
		Supported: true,
		Blocks:    Format(rows),
	}, nil
}
