package inference

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/llm"
)

// maxEmbedValues caps how many sample values are included in the text sent
// to the embedding endpoint.
const maxEmbedValues = 10

// EmbeddingScorer scores semantic similarity between two columns. Scores
// are in [0,1]. Implementations never return errors; any failure degrades
// to a score of 0 so inference can proceed without embeddings.
type EmbeddingScorer interface {
	Score(ctx context.Context, nameA, nameB string, valuesA, valuesB []string) float64
}

// NoopEmbeddingScorer always scores 0. Used when no embedding endpoint is
// configured.
type NoopEmbeddingScorer struct{}

func (NoopEmbeddingScorer) Score(context.Context, string, string, []string, []string) float64 {
	return 0.0
}

type clientEmbeddingScorer struct {
	client llm.EmbeddingClient
	logger *zap.Logger
}

// NewEmbeddingScorer wraps an embedding client as a scorer.
func NewEmbeddingScorer(client llm.EmbeddingClient, logger *zap.Logger) EmbeddingScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &clientEmbeddingScorer{
		client: client,
		logger: logger.Named("embedding-scorer"),
	}
}

func (s *clientEmbeddingScorer) Score(ctx context.Context, nameA, nameB string, valuesA, valuesB []string) float64 {
	texts := []string{columnText(nameA, valuesA), columnText(nameB, valuesB)}

	embeddings, err := s.client.CreateEmbeddings(ctx, texts)
	if err != nil {
		s.logger.Debug("embedding score unavailable",
			zap.String("column_a", nameA),
			zap.String("column_b", nameB),
			zap.Error(err))
		return 0.0
	}
	if len(embeddings) != 2 {
		s.logger.Debug("unexpected embedding count",
			zap.Int("count", len(embeddings)))
		return 0.0
	}

	sim := cosineSimilarity(embeddings[0], embeddings[1])
	if math.IsNaN(sim) || sim < 0 {
		return 0.0
	}
	if sim > 1 {
		return 1.0
	}
	return sim
}

// columnText builds the text representation of a column that gets embedded.
func columnText(name string, values []string) string {
	if len(values) > maxEmbedValues {
		values = values[:maxEmbedValues]
	}
	if len(values) == 0 {
		return fmt.Sprintf("column %s", name)
	}
	return fmt.Sprintf("column %s with values: %s", name, strings.Join(values, ", "))
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
