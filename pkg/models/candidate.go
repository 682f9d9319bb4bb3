package models

import "fmt"

// JoinCandidate identifies a proposed join key pair between two tables.
// It is a pure value type: equality is structural over the four fields,
// so candidates are usable as map keys and deduplicate naturally.
type JoinCandidate struct {
	LeftTable   string `json:"left_table"`
	RightTable  string `json:"right_table"`
	LeftColumn  string `json:"left_col"`
	RightColumn string `json:"right_col"`
}

// String renders the candidate as "left.col = right.col" for logs and notes.
func (c JoinCandidate) String() string {
	return fmt.Sprintf("%s.%s = %s.%s", c.LeftTable, c.LeftColumn, c.RightTable, c.RightColumn)
}

// CandidateScore is a JoinCandidate with the component scores computed by
// the inferencer. Confidence is always in [0,1]; Notes records which
// heuristics fired so a human can audit why a pair scored the way it did.
type CandidateScore struct {
	JoinCandidate

	TypeCompat          bool    `json:"type_compat"`
	NameSimilarity      float64 `json:"name_sim"`
	ValueJaccard        float64 `json:"value_jaccard"`
	LeftUniqueness      float64 `json:"left_uniqueness"`
	RightUniqueness     float64 `json:"right_uniqueness"`
	EmbeddingSimilarity float64 `json:"embed_sim"`
	Confidence          float64 `json:"confidence"`
	Notes               string  `json:"notes"`
}
