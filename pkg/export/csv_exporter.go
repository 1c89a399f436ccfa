package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Column pairs a row key with the header title rendered for it.
type Column struct {
	Key   string
	Title string
}

// Table defines ordered tabular export content.
type Table struct {
	Columns []Column
	Rows    []map[string]string
}

// CSVExporter renders Table records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the table.
func (e *CSVExporter) Render(table Table) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	headers := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Title
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			record[i] = row[col.Key]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
