// Package dataset loads the read-only historical tender datasets from files
// or databases.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/l1-pricing/internal/model"
)

// Source is a historical dataset. Returned slices are shared and must not
// be modified by callers.
type Source interface {
	Bids(ctx context.Context) ([]model.BidRecord, error)
	Basic(ctx context.Context) ([]model.BasicRecord, error)
	Describe() string
}

// Dataset names used in errors and status reports.
const (
	Financial = "financial"
	Basic     = "basic"
)

// ErrUnavailable matches every UnavailableError.
var ErrUnavailable = eris.New("dataset unavailable")

// UnavailableError reports that a dataset could not be loaded.
type UnavailableError struct {
	Source  string
	Dataset string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("dataset: %s %s unavailable: %v", e.Source, e.Dataset, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func unavailable(source, dataset string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Source: source, Dataset: dataset, Err: err}
}

// MissingColumnsError reports required headers absent from a dataset.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns [%s]", strings.Join(e.Columns, ", "))
}

// Status is the availability of one dataset.
type Status struct {
	Available bool   `json:"available" yaml:"available"`
	Rows      int    `json:"rows" yaml:"rows"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the availability of both datasets behind a Source.
type Report struct {
	Source    string `json:"source" yaml:"source"`
	Financial Status `json:"financial" yaml:"financial"`
	Basic     Status `json:"basic" yaml:"basic"`
}

// Healthy reports whether both datasets loaded.
func (r Report) Healthy() bool {
	return r.Financial.Available && r.Basic.Available
}

// Check loads both datasets and reports their availability.
func Check(ctx context.Context, src Source) Report {
	rep := Report{Source: src.Describe()}

	bids, err := src.Bids(ctx)
	rep.Financial = status(len(bids), err)

	basic, err := src.Basic(ctx)
	rep.Basic = status(len(basic), err)
	return rep
}

func status(rows int, err error) Status {
	if err != nil {
		return Status{Error: err.Error()}
	}
	return Status{Available: true, Rows: rows}
}

// header maps trimmed column names to their index.
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		name := strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

func (h header) missing(required []string) []string {
	var out []string
	for _, c := range required {
		if _, ok := h[c]; !ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func (h header) get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// decodeBids converts a header row and data rows into bid records. Row
// numbers are 1-based positions within the data rows.
func decodeBids(cols []string, rows [][]string) ([]model.BidRecord, error) {
	h := newHeader(cols)
	if missing := h.missing(model.RequiredFinancialColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	bids := make([]model.BidRecord, 0, len(rows))
	for i, rec := range rows {
		if blankRow(rec) {
			continue
		}
		bids = append(bids, model.BidRecord{
			Row:         i + 1,
			SerialNo:    h.get(rec, model.ColumnSerialNo),
			BidNo:       h.get(rec, model.ColumnBidNo),
			SNo:         h.get(rec, model.ColumnSNo),
			SellerName:  h.get(rec, model.ColumnSellerName),
			OfferedItem: h.get(rec, model.ColumnOfferedItem),
			TotalPrice:  h.get(rec, model.ColumnTotalPrice),
			Rank:        h.get(rec, model.ColumnRank),
			Status:      h.get(rec, model.ColumnStatus),
			Winner:      h.get(rec, model.ColumnWinner),
		})
	}
	return bids, nil
}

func decodeBasic(cols []string, rows [][]string) ([]model.BasicRecord, error) {
	h := newHeader(cols)
	if missing := h.missing(model.RequiredBasicColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	out := make([]model.BasicRecord, 0, len(rows))
	for i, rec := range rows {
		if blankRow(rec) {
			continue
		}
		out = append(out, model.BasicRecord{
			Row:      i + 1,
			BidNo:    h.get(rec, model.ColumnBidNo),
			Quantity: h.get(rec, model.ColumnQuantity),
		})
	}
	return out, nil
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
