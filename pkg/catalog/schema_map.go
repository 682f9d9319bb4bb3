// Package catalog handles the file-backed inputs and outputs of a
// validation run: the short-name to fully-qualified-name mapping, the
// candidate list, and the durable results file.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/apperrors"
)

// LoadSchemaMap reads a short-name to fully-qualified-name mapping from a
// CSV file with a `table,full_table_name` header. On duplicate short
// names the first occurrence wins and a warning is logged.
func LoadSchemaMap(path string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema mapping: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read schema mapping header: %w", err)
	}
	if len(header) < 2 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "table") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "full_table_name") {
		return nil, fmt.Errorf("%w: want table,full_table_name, got %v", apperrors.ErrMissingHeader, header)
	}

	mapping := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read schema mapping row: %w", err)
		}
		short := strings.TrimSpace(record[0])
		full := strings.TrimSpace(record[1])
		if short == "" {
			continue
		}
		if existing, ok := mapping[short]; ok {
			logger.Warn("duplicate short table name, keeping first occurrence",
				zap.String("table", short),
				zap.String("kept", existing),
				zap.String("ignored", full))
			continue
		}
		mapping[short] = full
	}

	logger.Info("schema mapping loaded",
		zap.String("path", path),
		zap.Int("tables", len(mapping)))

	return mapping, nil
}
