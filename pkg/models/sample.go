package models

// MaxSampleRows is the cap on sampled rows handed to the inferencer.
// Sampling happens upstream; the inferencer truncates anything larger.
const MaxSampleRows = 1000

// SampleColumn is one column of a sampled table, with raw values as the
// engine returned them. Nil values represent NULLs.
type SampleColumn struct {
	Name   string
	Values []any
}

// SampleTable is a column-oriented sample of a warehouse table (at most
// MaxSampleRows rows) used for join-candidate inference.
type SampleTable struct {
	Name    string
	Columns []SampleColumn
}

// NewSampleTableFromRows builds a SampleTable from row maps, preserving the
// given column order. Rows beyond MaxSampleRows are dropped; columns missing
// from a row contribute a NULL.
func NewSampleTableFromRows(name string, columns []string, rows []map[string]any) *SampleTable {
	if len(rows) > MaxSampleRows {
		rows = rows[:MaxSampleRows]
	}
	t := &SampleTable{Name: name, Columns: make([]SampleColumn, len(columns))}
	for i, col := range columns {
		values := make([]any, len(rows))
		for j, row := range rows {
			values[j] = row[col]
		}
		t.Columns[i] = SampleColumn{Name: col, Values: values}
	}
	return t
}

// Column returns the named column, or nil if the table has no such column.
func (t *SampleTable) Column(name string) *SampleColumn {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}
