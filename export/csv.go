package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// encodeCSV writes the same rows the XLSX tier uses as RFC 4180 CSV. This is
// the degraded tabular tier and has no styling of any kind.
func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(tableHeader); err != nil {
		return nil, fmt.Errorf("export: csv write: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: csv write: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: csv flush: %w", err)
	}
	return buf.Bytes(), nil
}
