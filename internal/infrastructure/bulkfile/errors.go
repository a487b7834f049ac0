package bulkfile

import (
	"errors"
	"fmt"
)

// Structural file errors. Any of these aborts the whole import, as
// opposed to row errors which only skip the offending row.
var (
	// ErrEmptyFile is returned when the file has no content
	ErrEmptyFile = errors.New("el archivo está vacío")

	// ErrInvalidEncoding is returned when a CSV file is not valid UTF-8
	ErrInvalidEncoding = errors.New("codificación de archivo inválida, se requiere UTF-8")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("el archivo no tiene fila de encabezados")

	// ErrUnsupportedFormat is returned for extensions other than .csv and .xlsx
	ErrUnsupportedFormat = errors.New("formato no soportado, se acepta .csv o .xlsx")
)

// RowError records a failure on one physical file row. The header is
// row 1, so the first data row is 2.
type RowError struct {
	Row     int    `json:"fila"`
	Message string `json:"mensaje"`
}

// Error implements the error interface in the user-facing format
func (e RowError) Error() string {
	return fmt.Sprintf("Fila %d: %s", e.Row, e.Message)
}

// NewRowError creates a RowError
func NewRowError(row int, message string) RowError {
	return RowError{Row: row, Message: message}
}

// ErrorCollection accumulates row errors up to a cap. The total count
// keeps growing past the cap so callers can report truncation.
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates an ErrorCollection with a maximum error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add records an error
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the collected errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Messages returns the collected errors in the "Fila <n>: <mensaje>" form
func (ec *ErrorCollection) Messages() []string {
	msgs := make([]string, len(ec.errors))
	for i, err := range ec.errors {
		msgs[i] = err.Error()
	}
	return msgs
}

// TotalCount returns the total number of errors including uncollected ones
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if any error was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were dropped due to the limit
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}
