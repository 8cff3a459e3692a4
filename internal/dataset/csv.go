package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/l1-pricing/internal/model"
)

// CSVSource reads the financial and basic datasets from CSV exports.
type CSVSource struct {
	FinancialPath string
	BasicPath     string
	// Encoding is an HTML/WHATWG charset label such as "windows-1252".
	// Empty or "utf-8" reads the files as-is.
	Encoding string
}

func (s *CSVSource) Describe() string {
	return "csv:" + s.FinancialPath
}

func (s *CSVSource) Bids(ctx context.Context) ([]model.BidRecord, error) {
	cols, rows, err := readCSV(ctx, s.FinancialPath, s.Encoding)
	if err != nil {
		return nil, unavailable(s.Describe(), Financial, err)
	}
	bids, err := decodeBids(cols, rows)
	return bids, unavailable(s.Describe(), Financial, err)
}

func (s *CSVSource) Basic(ctx context.Context) ([]model.BasicRecord, error) {
	cols, rows, err := readCSV(ctx, s.BasicPath, s.Encoding)
	if err != nil {
		return nil, unavailable(s.Describe(), Basic, err)
	}
	basic, err := decodeBasic(cols, rows)
	return basic, unavailable(s.Describe(), Basic, err)
}

// readCSV returns the header and data rows of the file at path.
func readCSV(ctx context.Context, path, encoding string) ([]string, [][]string, error) {
	if path == "" {
		return nil, nil, eris.New("csv: no path configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r, err := decodeReader(f, encoding)
	if err != nil {
		return nil, nil, err
	}

	headerCh := make(chan []string, 1)
	rowCh, errCh := streamCSV(ctx, r, headerCh)

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, nil, eris.Wrapf(err, "csv: read %s", path)
	}

	select {
	case cols := <-headerCh:
		return cols, rows, nil
	default:
		return nil, nil, eris.Errorf("csv: %s is empty", path)
	}
}

func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	label := strings.ToLower(strings.TrimSpace(encoding))
	if label == "" || label == "utf-8" || label == "utf8" {
		return r, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: unsupported encoding %q", encoding)
	}
	return enc.NewDecoder().Reader(r), nil
}

// streamCSV parses r and sends data rows to the returned channel. The first
// record goes to headerCh. Both returned channels are closed when parsing
// completes.
func streamCSV(ctx context.Context, r io.Reader, headerCh chan<- []string) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		first := true
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if first {
				first = false
				headerCh <- record
				continue
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// WriteBidsCSV writes bids with every financial column, header first.
func WriteBidsCSV(w io.Writer, bids []model.BidRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.FinancialColumns); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, b := range bids {
		if err := cw.Write(b.Values()); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}
