package validation

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ekaya-inc/joinscope/pkg/models"
)

// summaryOrder fixes the display order of cardinality types.
var summaryOrder = []models.CardinalityType{
	models.CardinalityOneToOne,
	models.CardinalityOneToMany,
	models.CardinalityManyToOne,
	models.CardinalityManyToMany,
	models.CardinalityNoJoinRows,
	models.CardinalityError,
}

// Print writes the end-of-run console summary.
func (s *BatchSummary) Print(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "VALIDATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Candidates validated: %d\n", s.Total)
	fmt.Fprintf(w, "Succeeded:            %d\n", s.Succeeded)
	fmt.Fprintf(w, "Failed:               %d\n", s.Failed)
	fmt.Fprintf(w, "Elapsed:              %s\n", s.Elapsed.Round(10*time.Millisecond))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cardinality distribution:")
	for _, ct := range summaryOrder {
		if count, ok := s.ByCardinality[ct]; ok && count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", ct, count)
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
}
