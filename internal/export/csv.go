// Package export encodes filtered sales records as downloadable CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path"
	"strings"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
)

const DefaultName = "dados"

// FileName normalizes a user-supplied download name: directories are
// stripped, blank names fall back, and the ".csv" suffix is forced.
func FileName(name, fallback string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name != "" {
		name = path.Base(name)
	}
	if name == "" || name == "." || name == "/" {
		name = strings.TrimSpace(fallback)
	}
	if name == "" {
		name = DefaultName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name += ".csv"
	}
	return name
}

// ParseColumns resolves column names (source names or query keys) into
// fields, keeping the given order and dropping repeats. No names selects
// every column in source order.
func ParseColumns(names []string) ([]model.Field, error) {
	var out []model.Field
	seen := map[model.Field]struct{}{}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, err := model.ParseField(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	if len(out) == 0 {
		return model.Fields(), nil
	}
	return out, nil
}

// Encode writes a header row of column names followed by one row per record.
func Encode(records []model.Record, columns []model.Field) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, f := range columns {
		header[i] = f.String()
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}

	row := make([]string, len(columns))
	for n, r := range records {
		for i, f := range columns {
			cell, err := r.Column(f)
			if err != nil {
				return nil, fmt.Errorf("csv: record %d: %w", n, err)
			}
			row[i] = cell
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv: write row %d: %w", n, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: flush: %w", err)
	}
	return buf.Bytes(), nil
}

type Table struct {
	Header []string
	Rows   [][]string
}

// Parse reads back an encoded export.
func Parse(data []byte) (Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	all, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("csv: read: %w", err)
	}
	if len(all) == 0 {
		return Table{}, fmt.Errorf("csv: missing header")
	}
	return Table{Header: all[0], Rows: all[1:]}, nil
}
