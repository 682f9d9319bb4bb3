package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ekaya-inc/joinscope/pkg/models"
)

var resultHeader = []string{
	"left_table", "right_table", "left_col", "right_col",
	"left_distinct_count", "right_distinct_count", "total_joined_rows",
	"cardinality_type", "validation_status", "error_message",
}

// ResultWriter appends validation results to a durable CSV file. The
// header is written on creation and every row is flushed immediately, so
// a crash mid-batch loses at most the in-flight candidate.
type ResultWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewResultWriter creates the output file, truncating any existing one,
// and writes the header.
func NewResultWriter(path string) (*ResultWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(resultHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write results header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush results header: %w", err)
	}

	return &ResultWriter{file: f, writer: w}, nil
}

// Append writes one candidate's validation outcome and flushes it to disk.
// Write failures propagate; the output artifact has no silent loss path.
func (rw *ResultWriter) Append(cand models.JoinCandidate, result *models.ValidationResult) error {
	record := []string{
		cand.LeftTable, cand.RightTable, cand.LeftColumn, cand.RightColumn,
		strconv.FormatInt(result.LeftDistinctCount, 10),
		strconv.FormatInt(result.RightDistinctCount, 10),
		strconv.FormatInt(result.TotalJoinedRows, 10),
		string(result.CardinalityType),
		result.ValidationStatus,
		result.ErrorMessage,
	}
	if err := rw.writer.Write(record); err != nil {
		return fmt.Errorf("write result row: %w", err)
	}
	rw.writer.Flush()
	if err := rw.writer.Error(); err != nil {
		return fmt.Errorf("flush result row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (rw *ResultWriter) Close() error {
	rw.writer.Flush()
	if err := rw.writer.Error(); err != nil {
		rw.file.Close()
		return fmt.Errorf("flush results: %w", err)
	}
	return rw.file.Close()
}
