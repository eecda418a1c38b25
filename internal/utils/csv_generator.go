package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// CSVRow is anything that can flatten itself into one line of a sheet.
type CSVRow interface {
	CSVValues() []string
}

type CSVGenerator struct {
	headers []string
}

func NewCSVGenerator(headers ...string) *CSVGenerator {
	return &CSVGenerator{headers: headers}
}

// Write emits the header line then one line per row. Rows whose width does
// not match the header are rejected so a bad mapping can't shift columns.
func (g *CSVGenerator) Write(w io.Writer, rows []CSVRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(g.headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, row := range rows {
		values := row.CSVValues()
		if len(values) != len(g.headers) {
			return fmt.Errorf("row %d has %d columns, expected %d", i, len(values), len(g.headers))
		}
		if err := writer.Write(values); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (g *CSVGenerator) Bytes(rows []CSVRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
