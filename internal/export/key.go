package export

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
)

const (
	unitSep   = "\x1f"
	recordSep = "\x1e"
)

// ContentKey hashes the selected columns of records. Equal content gives an
// equal key regardless of slice identity.
func ContentKey(records []model.Record, columns []model.Field) (string, error) {
	d := xxhash.New()
	for _, f := range columns {
		_, _ = d.WriteString(f.String())
		_, _ = d.WriteString(unitSep)
	}
	_, _ = d.WriteString(recordSep)
	for n, r := range records {
		for _, f := range columns {
			cell, err := r.Column(f)
			if err != nil {
				return "", fmt.Errorf("content key: record %d: %w", n, err)
			}
			_, _ = d.WriteString(cell)
			_, _ = d.WriteString(unitSep)
		}
		_, _ = d.WriteString(recordSep)
	}
	return fmt.Sprintf("csv:%d:%d:%016x", len(records), len(columns), d.Sum64()), nil
}
