// Package inference scores every column pair of two sampled tables as a
// join candidate, combining name similarity, value overlap, uniqueness,
// and optional embedding similarity into a single confidence.
package inference

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/models"
)

// Weights control how much each scoring component contributes to the
// final confidence. They are not required to sum to 1; confidence is
// clamped to [0,1] after combination.
type Weights struct {
	Name       float64
	Overlap    float64
	Uniqueness float64
	Embedding  float64
}

// DefaultWeights returns the standard component weighting.
func DefaultWeights() Weights {
	return Weights{
		Name:       0.4,
		Overlap:    0.35,
		Uniqueness: 0.15,
		Embedding:  0.10,
	}
}

// CandidateInferencer scores all cross-table column pairs of two sampled
// tables and returns them ordered by descending confidence.
type CandidateInferencer interface {
	Infer(ctx context.Context, left, right *models.SampleTable) ([]models.CandidateScore, error)
}

type candidateInferencer struct {
	scorer  EmbeddingScorer
	weights Weights
	logger  *zap.Logger
}

// NewCandidateInferencer creates a CandidateInferencer. A nil scorer
// disables embedding similarity; nil weights use DefaultWeights.
func NewCandidateInferencer(scorer EmbeddingScorer, weights *Weights, logger *zap.Logger) CandidateInferencer {
	if scorer == nil {
		scorer = NoopEmbeddingScorer{}
	}
	w := DefaultWeights()
	if weights != nil {
		w = *weights
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &candidateInferencer{
		scorer:  scorer,
		weights: w,
		logger:  logger.Named("candidate-inferencer"),
	}
}

// columnStats holds the per-column values precomputed once per table.
type columnStats struct {
	name       string
	bucket     typeBucket
	distinct   map[string]struct{}
	uniqueness float64
	samples    []string
}

func computeStats(table *models.SampleTable) []columnStats {
	stats := make([]columnStats, 0, len(table.Columns))
	for i := range table.Columns {
		col := &table.Columns[i]
		b := bucketOfColumn(col)
		if b == bucketOther {
			continue
		}
		stats = append(stats, columnStats{
			name:       col.Name,
			bucket:     b,
			distinct:   distinctStrings(col.Values),
			uniqueness: uniqueness(col.Values),
			samples:    sampleStrings(col.Values, maxEmbedValues),
		})
	}
	return stats
}

func (inf *candidateInferencer) Infer(ctx context.Context, left, right *models.SampleTable) ([]models.CandidateScore, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("both left and right tables are required")
	}

	leftStats := computeStats(left)
	rightStats := computeStats(right)

	scores := make([]models.CandidateScore, 0, len(leftStats)*len(rightStats))
	for _, lc := range leftStats {
		for _, rc := range rightStats {
			if lc.bucket != rc.bucket {
				continue
			}
			scores = append(scores, inf.scorePair(ctx, left.Name, right.Name, lc, rc))
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Confidence != scores[j].Confidence {
			return scores[i].Confidence > scores[j].Confidence
		}
		return scores[i].String() < scores[j].String()
	})

	inf.logger.Info("candidate inference complete",
		zap.String("left_table", left.Name),
		zap.String("right_table", right.Name),
		zap.Int("candidates", len(scores)))

	return scores, nil
}

func (inf *candidateInferencer) scorePair(ctx context.Context, leftTable, rightTable string, lc, rc columnStats) models.CandidateScore {
	nameSim, nameNotes := nameSimilarity(leftTable, rightTable, lc.name, rc.name)
	overlap := jaccard(lc.distinct, rc.distinct)
	combinedUniq := clamp01(lc.uniqueness) * clamp01(rc.uniqueness)
	embedSim := inf.scorer.Score(ctx, lc.name, rc.name, lc.samples, rc.samples)

	confidence := inf.weights.Name*nameSim +
		inf.weights.Overlap*overlap +
		inf.weights.Uniqueness*combinedUniq +
		inf.weights.Embedding*embedSim

	notes := []string{fmt.Sprintf("type=%s", lc.bucket)}
	notes = append(notes, fmt.Sprintf("name_sim=%.2f", nameSim))
	notes = append(notes, nameNotes...)
	notes = append(notes, fmt.Sprintf("jaccard=%.2f", overlap))
	notes = append(notes, fmt.Sprintf("uniq=%.2fx%.2f", lc.uniqueness, rc.uniqueness))
	if embedSim > 0 {
		notes = append(notes, fmt.Sprintf("embed=%.2f", embedSim))
	}

	if hasForeignKeySignature(lc, rc) {
		confidence += 0.1
		notes = append(notes, "fk->pk signature (+0.10)")
	}

	return models.CandidateScore{
		JoinCandidate: models.JoinCandidate{
			LeftTable:   leftTable,
			RightTable:  rightTable,
			LeftColumn:  lc.name,
			RightColumn: rc.name,
		},
		TypeCompat:          true,
		NameSimilarity:      nameSim,
		ValueJaccard:        overlap,
		LeftUniqueness:      lc.uniqueness,
		RightUniqueness:     rc.uniqueness,
		EmbeddingSimilarity: embedSim,
		Confidence:          clamp01(confidence),
		Notes:               strings.Join(notes, "; "),
	}
}

// nameSimilarity is the normalized edit-distance similarity plus the
// foreign-key naming boosts, capped at 1.0. Returned notes describe which
// boosts fired.
func nameSimilarity(leftTable, rightTable, leftCol, rightCol string) (float64, []string) {
	l := strings.ToLower(leftCol)
	r := strings.ToLower(rightCol)
	lt := strings.ToLower(leftTable)
	rt := strings.ToLower(rightTable)

	sim := levenshteinRatio(l, r)
	var notes []string

	if l == r {
		sim += 0.1
		notes = append(notes, "exact name match (+0.10)")
	}

	switch {
	case l == rt+"_id":
		sim += 0.2
		notes = append(notes, fmt.Sprintf("fk name %s_id (+0.20)", rt))
	case hasKeySuffix(l) && r == "id":
		sim += 0.15
		notes = append(notes, "fk suffix -> id (+0.15)")
	}

	switch {
	case r == lt+"_id":
		sim += 0.2
		notes = append(notes, fmt.Sprintf("fk name %s_id (+0.20)", lt))
	case hasKeySuffix(r) && l == "id":
		sim += 0.15
		notes = append(notes, "fk suffix -> id (+0.15)")
	}

	if sim > 1.0 {
		sim = 1.0
	}
	return sim, notes
}

func hasKeySuffix(name string) bool {
	return strings.HasSuffix(name, "_id") || strings.HasSuffix(name, "_key")
}

// hasForeignKeySignature detects the classic FK->PK shape: a repeating
// *_id column on the left pointing at a near-unique "id" column on the
// right.
func hasForeignKeySignature(lc, rc columnStats) bool {
	return strings.HasSuffix(strings.ToLower(lc.name), "_id") &&
		lc.uniqueness < 0.5 &&
		strings.ToLower(rc.name) == "id" &&
		rc.uniqueness > 0.9
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}
