package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Sentinel errors for errors.Is checks. Typed errors below match them.
var (
	ErrNoCompetitors         = eris.New("no competitors found")
	ErrDataSourceUnavailable = eris.New("data source unavailable")
	ErrMissingColumn         = eris.New("missing required column")
	ErrInvalidQuery          = eris.New("invalid query")

	// ErrQuantityDegraded is never fatal; the engine reports it as a warning.
	ErrQuantityDegraded = eris.New("quantity analysis degraded")
)

// NoCompetitorsError reports a well-formed query that matched no bids.
type NoCompetitorsError struct {
	Product string
}

func (e *NoCompetitorsError) Error() string {
	return fmt.Sprintf("no competitors found for product: %s", e.Product)
}

func (e *NoCompetitorsError) Is(target error) bool {
	return target == ErrNoCompetitors
}

// DataSourceError reports that the historical dataset could not be read.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %s unavailable: %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

func (e *DataSourceError) Is(target error) bool {
	return target == ErrDataSourceUnavailable
}

// MissingColumnError reports a stage run before the columns it depends on
// were produced. It is an ordering bug, never a data problem.
type MissingColumnError struct {
	Stage   string
	Columns []Column
}

func (e *MissingColumnError) Error() string {
	names := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		names[i] = c.String()
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: missing columns [%s]", e.Stage, strings.Join(names, ", "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// InvalidQueryError reports a request that cannot be priced as given.
type InvalidQueryError struct {
	Field  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s %s", e.Field, e.Reason)
}

func (e *InvalidQueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// Kind is the caller-facing class of a pipeline failure.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnavailable
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "service_unavailable"
	case KindInvalid:
		return "invalid_request"
	default:
		return "internal_error"
	}
}

// Classify maps an error from Engine.Run to the class callers report.
// Anything unrecognised is internal.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrNoCompetitors):
		return KindNotFound
	case errors.Is(err, ErrDataSourceUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrInvalidQuery):
		return KindInvalid
	default:
		return KindInternal
	}
}
