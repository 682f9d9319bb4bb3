package inference

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/joinscope/pkg/models"
)

func intColumn(name string, values ...int) models.SampleColumn {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return models.SampleColumn{Name: name, Values: vals}
}

func seqColumn(name string, n int) models.SampleColumn {
	vals := make([]any, n)
	for i := range vals {
		vals[i] = i + 1
	}
	return models.SampleColumn{Name: name, Values: vals}
}

// ordersUsersTables builds the classic FK shape: 20 order rows whose
// user_id cycles through 1..8, against 10 users with unique ids.
func ordersUsersTables() (*models.SampleTable, *models.SampleTable) {
	userIDs := make([]any, 20)
	for i := range userIDs {
		userIDs[i] = (i % 8) + 1
	}
	orders := &models.SampleTable{
		Name: "orders",
		Columns: []models.SampleColumn{
			seqColumn("order_id", 20),
			{Name: "user_id", Values: userIDs},
		},
	}
	names := make([]any, 10)
	for i := range names {
		names[i] = fmt.Sprintf("user-%d", i+1)
	}
	users := &models.SampleTable{
		Name: "users",
		Columns: []models.SampleColumn{
			seqColumn("id", 10),
			{Name: "name", Values: names},
		},
	}
	return orders, users
}

func TestInfer_ForeignKeyCandidateWins(t *testing.T) {
	orders, users := ordersUsersTables()
	inf := NewCandidateInferencer(nil, nil, nil)

	scores, err := inf.Infer(context.Background(), orders, users)
	require.NoError(t, err)
	require.NotEmpty(t, scores)

	top := scores[0]
	assert.Equal(t, "orders", top.LeftTable)
	assert.Equal(t, "user_id", top.LeftColumn)
	assert.Equal(t, "users", top.RightTable)
	assert.Equal(t, "id", top.RightColumn)
	assert.GreaterOrEqual(t, top.Confidence, 0.6)
	assert.Contains(t, strings.ToLower(top.Notes), "fk")
}

func TestInfer_TypeGateExcludesMismatchedBuckets(t *testing.T) {
	orders, users := ordersUsersTables()
	inf := NewCandidateInferencer(nil, nil, nil)

	scores, err := inf.Infer(context.Background(), orders, users)
	require.NoError(t, err)

	// The string column "name" must never pair with a numeric column.
	for _, s := range scores {
		assert.NotEqual(t, "name", s.RightColumn, "numeric/string pair leaked through the type gate: %s", s.String())
	}
}

func TestInfer_ConfidenceClampedForWildWeights(t *testing.T) {
	orders, users := ordersUsersTables()
	tests := []struct {
		name    string
		weights Weights
	}{
		{name: "oversized weights", weights: Weights{Name: 10, Overlap: 10, Uniqueness: 10, Embedding: 10}},
		{name: "negative weights", weights: Weights{Name: -5, Overlap: -5, Uniqueness: -5, Embedding: -5}},
		{name: "zero weights", weights: Weights{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inf := NewCandidateInferencer(nil, &tt.weights, nil)
			scores, err := inf.Infer(context.Background(), orders, users)
			require.NoError(t, err)
			for _, s := range scores {
				assert.GreaterOrEqual(t, s.Confidence, 0.0, s.String())
				assert.LessOrEqual(t, s.Confidence, 1.0, s.String())
			}
		})
	}
}

func TestInfer_ZeroColumnsProducesEmptyResult(t *testing.T) {
	inf := NewCandidateInferencer(nil, nil, nil)

	scores, err := inf.Infer(context.Background(),
		&models.SampleTable{Name: "empty_left"},
		&models.SampleTable{Name: "empty_right"})
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestInfer_NilTableIsAnError(t *testing.T) {
	inf := NewCandidateInferencer(nil, nil, nil)
	_, err := inf.Infer(context.Background(), nil, &models.SampleTable{Name: "users"})
	assert.Error(t, err)
}

func TestInfer_SortedByDescendingConfidence(t *testing.T) {
	orders, users := ordersUsersTables()
	inf := NewCandidateInferencer(nil, nil, nil)

	scores, err := inf.Infer(context.Background(), orders, users)
	require.NoError(t, err)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Confidence, scores[i].Confidence)
	}
}

type stubScorer struct {
	score float64
	calls int
}

func (s *stubScorer) Score(context.Context, string, string, []string, []string) float64 {
	s.calls++
	return s.score
}

func TestInfer_EmbeddingScoreContributes(t *testing.T) {
	orders, users := ordersUsersTables()

	baseline, err := NewCandidateInferencer(nil, nil, nil).Infer(context.Background(), orders, users)
	require.NoError(t, err)

	scorer := &stubScorer{score: 1.0}
	boosted, err := NewCandidateInferencer(scorer, nil, nil).Infer(context.Background(), orders, users)
	require.NoError(t, err)
	require.Positive(t, scorer.calls)

	require.Equal(t, len(baseline), len(boosted))
	assert.Greater(t, boosted[0].Confidence, baseline[0].Confidence)
}

func TestNameSimilarity_Boosts(t *testing.T) {
	tests := []struct {
		name      string
		leftTable string
		rightTab  string
		leftCol   string
		rightCol  string
		minSim    float64
		wantNote  string
	}{
		{
			name:     "exact match",
			leftCol:  "id",
			rightCol: "id",
			minSim:   1.0,
			wantNote: "exact name match",
		},
		{
			name:     "table-named fk supersedes suffix boost",
			rightTab: "users",
			leftCol:  "users_id",
			rightCol: "users_id",
			minSim:   1.0,
			wantNote: "fk name users_id",
		},
		{
			name:     "id suffix against literal id",
			leftCol:  "customer_id",
			rightCol: "id",
			minSim:   0.15,
			wantNote: "fk suffix -> id",
		},
		{
			name:     "key suffix against literal id",
			leftCol:  "customer_key",
			rightCol: "id",
			minSim:   0.15,
			wantNote: "fk suffix -> id",
		},
		{
			name:      "symmetric right-as-fk",
			leftTable: "users",
			leftCol:   "id",
			rightCol:  "users_id",
			minSim:    0.2,
			wantNote:  "fk name users_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, notes := nameSimilarity(tt.leftTable, tt.rightTab, tt.leftCol, tt.rightCol)
			assert.GreaterOrEqual(t, sim, tt.minSim)
			assert.LessOrEqual(t, sim, 1.0)
			assert.Contains(t, strings.Join(notes, "; "), tt.wantNote)
		})
	}
}

func TestHasForeignKeySignature(t *testing.T) {
	fk := columnStats{name: "user_id", uniqueness: 0.4}
	pk := columnStats{name: "id", uniqueness: 1.0}
	assert.True(t, hasForeignKeySignature(fk, pk))

	// A unique left column is not a repeating foreign key.
	uniqueLeft := columnStats{name: "order_id", uniqueness: 1.0}
	assert.False(t, hasForeignKeySignature(uniqueLeft, pk))

	// A low-uniqueness right column is not a primary key.
	dupRight := columnStats{name: "id", uniqueness: 0.5}
	assert.False(t, hasForeignKeySignature(fk, dupRight))
}
