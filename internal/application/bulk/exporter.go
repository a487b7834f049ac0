// Package bulk implements the mass transfer surface: flattened export of
// ratings to xlsx/csv and the row-isolated import back.
package bulk

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/rating"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/nuam/calificaciones/internal/infrastructure/bulkfile"
)

// Format selects the export encoding
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat maps the query parameter onto a known format, defaulting
// to xlsx when empty.
func ParseFormat(raw string) (Format, error) {
	switch raw {
	case "", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", shared.NewValidationError("format", "Formato no soportado, use xlsx o csv")
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	return string(f)
}

// ExportResult carries the encoded file and its download metadata
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter flattens the ratings visible to the caller into spreadsheet rows
type Exporter struct {
	ratings rating.Repository
	logger  *zap.Logger
}

// NewExporter creates a new exporter
func NewExporter(ratings rating.Repository, logger *zap.Logger) *Exporter {
	return &Exporter{ratings: ratings, logger: logger}
}

// maxExportPageSize loads the visible set in one page; the flattening is
// per-rating so memory stays proportional to the result.
const maxExportPageSize = 500

// Export writes every rating visible to the scope, newest first, one row per
// event and factor pair. Ratings without events and events without factors
// still produce a row with the trailing cells blank.
func (e *Exporter) Export(ctx context.Context, scope rating.Scope, callerName string, format Format) (*ExportResult, error) {
	query := rating.ListQuery{Filter: shared.Filter{Page: 1, PageSize: maxExportPageSize}}

	var rows [][]string
	for {
		// FindAll preloads events and factors, so each page flattens directly
		ratings, total, err := e.ratings.FindAll(ctx, scope, query)
		if err != nil {
			return nil, fmt.Errorf("failed to load ratings for export: %w", err)
		}
		for i := range ratings {
			rows = append(rows, FlattenRating(&ratings[i])...)
		}
		if int64(query.Filter.Page*query.Filter.PageSize) >= total {
			break
		}
		query.Filter.Page++
	}

	data, err := encode(rows, format)
	if err != nil {
		return nil, err
	}

	e.logger.Info("ratings exported",
		zap.Int("rows", len(rows)),
		zap.String("format", string(format)))

	return &ExportResult{
		Filename:    fmt.Sprintf("calificaciones_%s.%s", callerName, format.Extension()),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func encode(rows [][]string, format Format) ([]byte, error) {
	if format == FormatCSV {
		return bulkfile.WriteCSV(rows)
	}
	writer := bulkfile.NewSheetWriter()
	for _, row := range rows {
		writer.Append(row)
	}
	return writer.Bytes()
}

// FlattenRating expands one rating into its export rows following the
// canonical column order.
func FlattenRating(r *rating.Rating) [][]string {
	base := []string{
		r.ID.String(),
		formatID(r.InstrumentID),
		formatID(r.MarketID),
		formatID(r.StateID),
		r.Amount.String(),
		r.IssueDate.Format("2006-01-02"),
		r.PaymentDate.Format("2006-01-02"),
		formatUUID(r.CreatedBy),
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if len(r.TaxEvents) == 0 {
		return [][]string{append(base, "", "", "", "", "")}
	}

	var rows [][]string
	for i := range r.TaxEvents {
		taxEvent := &r.TaxEvents[i]
		eventCells := []string{
			fmt.Sprintf("%d", taxEvent.Sequence),
			taxEvent.CapitalEvent.String(),
			fmt.Sprintf("%d", taxEvent.Year),
			formatDecimal(taxEvent.HistoricalValue),
		}
		if len(taxEvent.TaxFactors) == 0 {
			row := append(append(append([]string{}, base...), eventCells...), "", "")
			rows = append(rows, row)
			continue
		}
		for j := range taxEvent.TaxFactors {
			factor := &taxEvent.TaxFactors[j]
			row := append(append(append([]string{}, base...), eventCells...),
				factor.Code, factor.Value.String())
			rows = append(rows, row)
		}
	}
	return rows
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}

func formatUUID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
