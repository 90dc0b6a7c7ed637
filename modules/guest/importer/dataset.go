// Package importer turns an uploaded guest list into normalized directory rows.
// Validation and transformation happen here; nothing touches storage.
package importer

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"event-checkin/core/constants"
	"event-checkin/modules/guest/entity"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = stderrors.New("unsupported file format")

// Dataset is a parsed table: a header row plus data rows. Cells may be strings
// or numbers depending on the source.
type Dataset struct {
	Columns []string
	Rows    [][]any
}

// Parse picks a parser from the file extension.
func Parse(filename string, r io.Reader) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func ParseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return &Dataset{}, nil
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return fromStringRows(header, records[1:]), nil
}

// ParseXLSX reads the first worksheet of an Excel workbook.
func ParseXLSX(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Dataset{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Dataset{}, nil
	}
	return fromStringRows(rows[0], rows[1:]), nil
}

// FromRecords builds a dataset from JSON objects. Columns are the union of keys,
// sorted for a stable order.
func FromRecords(records []map[string]any) *Dataset {
	seen := make(map[string]struct{})
	var columns []string
	for _, rec := range records {
		for k := range rec {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = rec[col]
		}
		rows = append(rows, row)
	}
	return &Dataset{Columns: columns, Rows: rows}
}

func fromStringRows(header []string, data [][]string) *Dataset {
	rows := make([][]any, 0, len(data))
	for _, rec := range data {
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = cell
		}
		rows = append(rows, row)
	}
	return &Dataset{Columns: append([]string(nil), header...), Rows: rows}
}

// FromGuests lays out directory rows in the import column order, so an export can
// be edited and imported again.
func FromGuests(guests []entity.Guest) *Dataset {
	ds := &Dataset{
		Columns: []string{constants.ColumnEmail, constants.ColumnName, constants.ColumnTableID, constants.ColumnTitle},
		Rows:    make([][]any, 0, len(guests)),
	}
	for _, g := range guests {
		ds.Rows = append(ds.Rows, []any{g.Email, g.Name, g.TableID, g.Title})
	}
	return ds
}

// WriteCSV renders ds as CSV.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = cellString(cell)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVBytes is a convenience around WriteCSV.
func CSVBytes(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
