package inference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/joinscope/pkg/models"
)

func TestLevenshteinRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "user_id", b: "user_id", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "id", b: "", want: 0.0},
		{name: "disjoint", a: "ab", b: "xy", want: 0.0},
		{name: "user_id vs id", a: "user_id", b: "id", want: 1.0 - 5.0/7.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, levenshteinRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestJaccard(t *testing.T) {
	set := func(vals ...string) map[string]struct{} {
		s := make(map[string]struct{})
		for _, v := range vals {
			s[v] = struct{}{}
		}
		return s
	}

	assert.Equal(t, 0.0, jaccard(set(), set("a")))
	assert.Equal(t, 0.0, jaccard(set("a"), set()))
	assert.Equal(t, 1.0, jaccard(set("a", "b"), set("a", "b")))
	assert.InDelta(t, 0.5, jaccard(set("a", "b", "c"), set("b", "c", "d")), 1e-9)
}

func TestUniqueness(t *testing.T) {
	assert.Equal(t, 0.0, uniqueness([]any{nil, nil}))
	assert.Equal(t, 1.0, uniqueness([]any{1, 2, 3}))
	assert.InDelta(t, 0.5, uniqueness([]any{1, 1, 2, 2}), 1e-9)
	// Nulls are dropped before the ratio is taken.
	assert.Equal(t, 1.0, uniqueness([]any{1, nil, 2, nil}))
}

func TestBucketOfColumn(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   typeBucket
	}{
		{name: "ints", values: []any{1, 2, 3}, want: bucketNumeric},
		{name: "mixed int widths", values: []any{int32(1), int64(2), 3.5}, want: bucketNumeric},
		{name: "strings", values: []any{"a", "b"}, want: bucketString},
		{name: "bools", values: []any{true, false}, want: bucketBool},
		{name: "timestamps", values: []any{time.Now()}, want: bucketDatetime},
		{name: "mixed buckets", values: []any{1, "a"}, want: bucketOther},
		{name: "all null", values: []any{nil, nil}, want: bucketOther},
		{name: "empty", values: nil, want: bucketOther},
		{name: "unknown type", values: []any{[]byte("x")}, want: bucketOther},
		{name: "nulls ignored", values: []any{nil, 1, nil, 2}, want: bucketNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := models.SampleColumn{Name: "c", Values: tt.values}
			assert.Equal(t, tt.want, bucketOfColumn(&col))
		})
	}
}
