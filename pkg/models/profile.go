package models

// TableProfile holds size metadata for a warehouse table, used for
// pre-flight cost projection. Profiles are caller-supplied; the estimator
// never queries the engine to build one.
type TableProfile struct {
	TableID              string `json:"table_id"`
	RowCount             int64  `json:"row_count"`
	EstimatedAvgRowBytes int64  `json:"estimated_avg_row_bytes"`
}

// EstimatedBytes returns the projected scan size for reading sampleSize rows.
func (p *TableProfile) EstimatedBytes(sampleSize int64) int64 {
	if sampleSize < 0 {
		return 0
	}
	return sampleSize * p.EstimatedAvgRowBytes
}

// FullTableBytes returns the projected size of a full scan.
func (p *TableProfile) FullTableBytes() int64 {
	return p.EstimatedBytes(p.RowCount)
}
