package models

// CardinalityType is the empirically observed shape of a join result.
type CardinalityType string

const (
	CardinalityOneToOne   CardinalityType = "1-to-1"
	CardinalityOneToMany  CardinalityType = "1-to-many"
	CardinalityManyToOne  CardinalityType = "many-to-1"
	CardinalityManyToMany CardinalityType = "many-to-many"
	CardinalityNoJoinRows CardinalityType = "no-join-rows"
	CardinalityError      CardinalityType = "error"
)

// Validation statuses recorded in the output table.
const (
	ValidationStatusSuccess = "success"
	ValidationStatusError   = "error"
)

// ValidationResult holds the outcome of one join-and-count probe.
// Rows are appended to the durable output and never mutated afterward.
type ValidationResult struct {
	LeftDistinctCount  int64           `json:"left_distinct_count"`
	RightDistinctCount int64           `json:"right_distinct_count"`
	TotalJoinedRows    int64           `json:"total_joined_rows"`
	CardinalityType    CardinalityType `json:"cardinality_type"`
	ValidationStatus   string          `json:"validation_status"`
	ErrorMessage       string          `json:"error_message"`
}
