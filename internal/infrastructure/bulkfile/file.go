// Package bulkfile reads and writes the rating bulk transfer files.
// CSV and XLSX inputs are normalized to the same header-keyed rows, so
// the importer never knows which format it came from.
package bulkfile

import (
	"strings"
)

// Canonical column headers of the bulk format, in order. Import matches
// them case-insensitively and also accepts snake_case variants.
const (
	ColRatingID        = "RatingID"
	ColInstrumentID    = "InstrumentID"
	ColMarketID        = "MarketID"
	ColStateID         = "StateID"
	ColAmount          = "Amount"
	ColIssueDate       = "IssueDate"
	ColPaymentDate     = "PaymentDate"
	ColCreatedBy       = "CreatedBy"
	ColCreatedAt       = "CreatedAt"
	ColEventSeq        = "EventSeq"
	ColCapitalEvent    = "CapitalEvent"
	ColEventYear       = "EventYear"
	ColHistoricalValue = "HistoricalValue"
	ColFactorCode      = "FactorCode"
	ColFactorValue     = "FactorValue"
)

// Columns returns the canonical header row
func Columns() []string {
	return []string{
		ColRatingID, ColInstrumentID, ColMarketID, ColStateID, ColAmount,
		ColIssueDate, ColPaymentDate, ColCreatedBy, ColCreatedAt, ColEventSeq,
		ColCapitalEvent, ColEventYear, ColHistoricalValue, ColFactorCode,
		ColFactorValue,
	}
}

// normalizeHeader folds a header to its canonical lookup key:
// lowercase with underscores removed, so "issue_date" and "IssueDate"
// address the same column.
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.ReplaceAll(h, "_", "")
}

// Row is one parsed data row: its physical file line (header = 1) and
// the cell values keyed by normalized header.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the cell value for a canonical column name
func (r *Row) Get(header string) string {
	return r.Data[normalizeHeader(header)]
}

// IsEmpty returns true if every cell of the row is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRows parses a bulk file by extension. Completely empty rows are
// dropped; structural problems abort with a non-nil error.
func ReadRows(filename string, data []byte) ([]*Row, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return ReadCSV(data)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return ReadXLSX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// rowsFromRecords converts raw records (header first) into Rows
func rowsFromRecords(records [][]string) ([]*Row, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	var rows []*Row
	for i, record := range records[1:] {
		row := &Row{
			// header occupies line 1, first data row is 2
			LineNumber: i + 2,
			Data:       make(map[string]string, len(headers)),
		}
		for j, header := range headers {
			if header == "" {
				continue
			}
			if j < len(record) {
				row.Data[header] = strings.TrimSpace(record[j])
			} else {
				row.Data[header] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
