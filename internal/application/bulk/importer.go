package bulk

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/audit"
	"github.com/nuam/calificaciones/internal/domain/rating"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/nuam/calificaciones/internal/infrastructure/bulkfile"
)

// ImportResult reports how many ratings were created and every row that
// failed. Row errors do not fail the import as a whole.
type ImportResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// Importer loads ratings from an uploaded spreadsheet. Each row runs inside
// a savepoint so a failing row rolls back only its own writes.
type Importer struct {
	scope     TransactionScope
	maxErrors int
	logger    *zap.Logger
}

// NewImporter creates a new importer. maxErrors caps the reported error
// list; zero applies the default.
func NewImporter(scope TransactionScope, maxErrors int, logger *zap.Logger) *Importer {
	return &Importer{scope: scope, maxErrors: maxErrors, logger: logger}
}

// Import parses the file and creates one rating per data row, owned by the
// importer. A structural problem (unreadable file, missing header) aborts
// the whole import; individual row failures are collected and skipped.
func (imp *Importer) Import(ctx context.Context, importer uuid.UUID, filename string, data []byte) (*ImportResult, error) {
	rows, err := bulkfile.ReadRows(filename, data)
	if err != nil {
		return nil, err
	}

	collection := bulkfile.NewErrorCollection(imp.maxErrors)
	created := 0

	err = imp.scope.Execute(ctx, func(uow UnitOfWork) error {
		for _, row := range rows {
			if row.Get(bulkfile.ColInstrumentID) == "" {
				continue
			}

			r, buildErr := buildRating(importer, row)
			if buildErr != nil {
				collection.Add(bulkfile.NewRowError(row.LineNumber, rowMessage(buildErr)))
				continue
			}

			saveErr := uow.SavePoint(func(nested UnitOfWork) error {
				return nested.Ratings().Save(ctx, r)
			})
			if saveErr != nil {
				collection.Add(bulkfile.NewRowError(row.LineNumber, rowMessage(saveErr)))
				continue
			}
			created++
		}

		if created > 0 {
			imp.appendLog(ctx, uow, importer, filename, created)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import transaction failed: %w", err)
	}

	imp.logger.Info("bulk import finished",
		zap.String("file", filename),
		zap.Int("created", created),
		zap.Int("row_errors", collection.TotalCount()))

	return &ImportResult{Created: created, Errors: collection.Messages()}, nil
}

// appendLog writes the single "Carga masiva" entry. Trail failures never
// fail the import.
func (imp *Importer) appendLog(ctx context.Context, uow UnitOfWork, importer uuid.UUID, filename string, created int) {
	userID := importer
	entry, err := audit.NewLogEntry(audit.ActionBulkImport,
		fmt.Sprintf("Archivo %s - %d calificaciones creadas", filename, created),
		&userID, nil)
	if err != nil {
		imp.logger.Warn("failed to build bulk import log entry", zap.Error(err))
		return
	}
	if err := uow.Logs().Append(ctx, entry); err != nil {
		imp.logger.Warn("failed to append bulk import log entry", zap.Error(err))
	}
}

// buildRating maps one spreadsheet row onto a rating aggregate. The importer
// always becomes the owner; CreatedBy/CreatedAt cells from exports are
// informational and ignored.
func buildRating(importer uuid.UUID, row *bulkfile.Row) (*rating.Rating, error) {
	amount, err := parseDecimalCell(row, bulkfile.ColAmount)
	if err != nil {
		return nil, err
	}
	issueDate, err := parseDateCell(row, bulkfile.ColIssueDate)
	if err != nil {
		return nil, err
	}
	paymentDate, err := parseDateCell(row, bulkfile.ColPaymentDate)
	if err != nil {
		return nil, err
	}

	r, err := rating.NewRating(importer, amount, issueDate, paymentDate)
	if err != nil {
		return nil, err
	}

	instrumentID, err := parseIDCell(row, bulkfile.ColInstrumentID)
	if err != nil {
		return nil, err
	}
	marketID, err := parseIDCell(row, bulkfile.ColMarketID)
	if err != nil {
		return nil, err
	}
	stateID, err := parseIDCell(row, bulkfile.ColStateID)
	if err != nil {
		return nil, err
	}
	r.SetReferences(instrumentID, marketID, stateID)

	if row.Get(bulkfile.ColEventSeq) != "" {
		taxEvent, err := buildEvent(importer, row)
		if err != nil {
			return nil, err
		}
		if err := r.AddEvent(*taxEvent); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func buildEvent(importer uuid.UUID, row *bulkfile.Row) (*rating.TaxEvent, error) {
	sequence, err := strconv.Atoi(row.Get(bulkfile.ColEventSeq))
	if err != nil {
		return nil, shared.NewValidationError(bulkfile.ColEventSeq, "La secuencia debe ser un número entero")
	}
	capitalEvent, err := parseDecimalCell(row, bulkfile.ColCapitalEvent)
	if err != nil {
		return nil, err
	}
	year, err := strconv.Atoi(row.Get(bulkfile.ColEventYear))
	if err != nil {
		return nil, shared.NewValidationError(bulkfile.ColEventYear, "El año debe ser un número entero")
	}

	taxEvent, err := rating.NewTaxEvent(importer, sequence, capitalEvent, year)
	if err != nil {
		return nil, err
	}

	if raw := row.Get(bulkfile.ColHistoricalValue); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, shared.NewValidationError(bulkfile.ColHistoricalValue, "Valor decimal inválido")
		}
		if err := taxEvent.SetHistoricalValue(value); err != nil {
			return nil, err
		}
	}

	if code := row.Get(bulkfile.ColFactorCode); code != "" {
		value, err := parseDecimalCell(row, bulkfile.ColFactorValue)
		if err != nil {
			return nil, err
		}
		taxEvent.AddFactor(rating.NewTaxFactor(code, "", value))
	}
	return taxEvent, nil
}

func parseDecimalCell(row *bulkfile.Row, column string) (decimal.Decimal, error) {
	raw := row.Get(column)
	if raw == "" {
		return decimal.Zero, shared.NewValidationError(column, "El campo es requerido")
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, shared.NewValidationError(column, "Valor decimal inválido")
	}
	return value, nil
}

// parseDateCell accepts the export layout plus the slash variants seen in
// hand-edited files.
func parseDateCell(row *bulkfile.Row, column string) (time.Time, error) {
	raw := row.Get(column)
	if raw == "" {
		return time.Time{}, shared.NewValidationError(column, "El campo es requerido")
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2006/01/02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, shared.NewValidationError(column, "Formato de fecha inválido, use AAAA-MM-DD")
}

func parseIDCell(row *bulkfile.Row, column string) (*int64, error) {
	raw := row.Get(column)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, shared.NewValidationError(column, "El identificador debe ser un número entero")
	}
	return &id, nil
}

// rowMessage strips the wrapping noise so the per-row error reads like a
// validation message.
func rowMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
