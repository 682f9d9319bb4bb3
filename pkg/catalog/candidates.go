package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ekaya-inc/joinscope/pkg/apperrors"
	"github.com/ekaya-inc/joinscope/pkg/models"
)

var candidateHeader = []string{"left_table", "right_table", "left_col", "right_col"}

// LoadCandidates reads join candidates from a CSV file with a
// `left_table,right_table,left_col,right_col` header. The header is
// required; rows with fewer than four fields are an error.
func LoadCandidates(path string) ([]models.JoinCandidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candidates: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read candidates header: %w", err)
	}
	if len(header) < len(candidateHeader) {
		return nil, fmt.Errorf("%w: want %v, got %v", apperrors.ErrMissingHeader, candidateHeader, header)
	}
	for i, want := range candidateHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("%w: want %v, got %v", apperrors.ErrMissingHeader, candidateHeader, header)
		}
	}

	var candidates []models.JoinCandidate
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candidate row: %w", err)
		}
		candidates = append(candidates, models.JoinCandidate{
			LeftTable:   strings.TrimSpace(record[0]),
			RightTable:  strings.TrimSpace(record[1]),
			LeftColumn:  strings.TrimSpace(record[2]),
			RightColumn: strings.TrimSpace(record[3]),
		})
	}
	return candidates, nil
}
