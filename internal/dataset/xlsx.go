package dataset

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/l1-pricing/internal/model"
)

// XLSXSource reads the datasets from Excel workbooks. Sheet selects a sheet
// by name; empty uses the first sheet.
type XLSXSource struct {
	FinancialPath string
	BasicPath     string
	Sheet         string
}

func (s *XLSXSource) Describe() string {
	return "xlsx:" + s.FinancialPath
}

func (s *XLSXSource) Bids(ctx context.Context) ([]model.BidRecord, error) {
	cols, rows, err := readSheet(ctx, s.FinancialPath, s.Sheet)
	if err != nil {
		return nil, unavailable(s.Describe(), Financial, err)
	}
	bids, err := decodeBids(cols, rows)
	return bids, unavailable(s.Describe(), Financial, err)
}

func (s *XLSXSource) Basic(ctx context.Context) ([]model.BasicRecord, error) {
	cols, rows, err := readSheet(ctx, s.BasicPath, s.Sheet)
	if err != nil {
		return nil, unavailable(s.Describe(), Basic, err)
	}
	basic, err := decodeBasic(cols, rows)
	return basic, unavailable(s.Describe(), Basic, err)
}

func readSheet(ctx context.Context, path, name string) ([]string, [][]string, error) {
	if path == "" {
		return nil, nil, eris.New("xlsx: no path configured")
	}
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "xlsx: open %s", path)
	}

	sheet, err := pickSheet(f, name)
	if err != nil {
		return nil, nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, nil, eris.Errorf("xlsx: sheet %q is empty", sheet.Name)
	}

	cols := rowToStrings(sheet.Rows[0])
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if ctx.Err() != nil {
			return nil, nil, eris.Wrap(ctx.Err(), "xlsx: context cancelled")
		}
		rows = append(rows, rowToStrings(row))
	}
	return cols, rows, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
