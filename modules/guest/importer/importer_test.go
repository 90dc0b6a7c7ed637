package importer

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"event-checkin/modules/guest/entity"

	"github.com/xuri/excelize/v2"
)

func TestPrepareNormalizesRows(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Email", "Nama", "No_Meja", "Gelaran"},
		Rows: [][]any{
			{" A@X.com ", "Ali", "t 5", "Dato'"},
			{"b@x.com", "Bea", "T5", ""},
		},
	}

	res, err := Prepare(ds, Options{MinEmailLength: 4})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	want := []entity.Guest{
		{Email: "a@x.com", Name: "Ali", Title: "Dato'", TableID: "T5"},
		{Email: "b@x.com", Name: "Bea", Title: "", TableID: "T5"},
	}
	if !reflect.DeepEqual(res.Guests, want) {
		t.Errorf("guests = %+v, want %+v", res.Guests, want)
	}
	if res.Received != 2 || res.Dropped != 0 || res.Duplicates != 0 {
		t.Errorf("counts = %+v", res)
	}
}

func TestPrepareOptionalTitleColumn(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Email", "Nama", "No_Meja"},
		Rows:    [][]any{{"a@x.com", "Ali", "T1"}},
	}
	res, err := Prepare(ds, Options{MinEmailLength: 4})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if res.Guests[0].Title != "" {
		t.Errorf("title = %q, want empty", res.Guests[0].Title)
	}
}

func TestPrepareMissingColumns(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Email", "Gelaran"},
		Rows:    [][]any{{"a@x.com", "Tuan"}},
	}
	_, err := Prepare(ds, Options{MinEmailLength: 4})

	var schemaErr *SchemaError
	if !stderrors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(schemaErr.Missing, []string{"Nama", "No_Meja"}) {
		t.Errorf("missing = %v", schemaErr.Missing)
	}
	if !strings.Contains(err.Error(), "Nama") || !strings.Contains(err.Error(), "No_Meja") {
		t.Errorf("message %q should name missing columns", err.Error())
	}
}

func TestPrepareEmptyDataset(t *testing.T) {
	_, err := Prepare(&Dataset{}, Options{})
	var schemaErr *SchemaError
	if !stderrors.As(err, &schemaErr) || len(schemaErr.Missing) != 3 {
		t.Fatalf("expected all required columns missing, got %v", err)
	}
}

func TestPrepareDropsShortEmails(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Email", "Nama", "No_Meja"},
		Rows: [][]any{
			{"", "Nobody", "T1"},
			{"a@b", "Short", "T1"},
			{"a@bc", "Ok", "T1"},
			{nil, "Nil", "T1"},
		},
	}
	res, err := Prepare(ds, Options{MinEmailLength: 4})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if len(res.Guests) != 1 || res.Guests[0].Email != "a@bc" {
		t.Errorf("guests = %+v", res.Guests)
	}
	if res.Dropped != 3 {
		t.Errorf("dropped = %d, want 3", res.Dropped)
	}
}

func TestPrepareDropsEmptyEmailWithoutMinimum(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Email", "Nama", "No_Meja"},
		Rows:    [][]any{{"  ", "Blank", "T1"}, {"a@b", "Short", "T2"}},
	}
	res, err := Prepare(ds, Options{})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if len(res.Guests) != 1 || res.Guests[0].Email != "a@b" || res.Dropped != 1 {
		t.Errorf("guests = %+v, dropped = %d", res.Guests, res.Dropped)
	}
}

func TestPrepareLastDuplicateWins(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Email", "Nama", "No_Meja"},
		Rows: [][]any{
			{"a@x.com", "First", "T1"},
			{"c@x.com", "Other", "T3"},
			{"A@X.COM", "Second", "T2"},
		},
	}
	res, err := Prepare(ds, Options{MinEmailLength: 4})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if len(res.Guests) != 2 {
		t.Fatalf("guests = %+v", res.Guests)
	}
	if res.Guests[0].Name != "Second" || res.Guests[0].TableID != "T2" {
		t.Errorf("first guest = %+v, want the later row", res.Guests[0])
	}
	if res.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", res.Duplicates)
	}
}

func TestPrepareNumericCells(t *testing.T) {
	ds := FromRecords([]map[string]any{
		{"Email": "a@x.com", "Nama": "Ali", "No_Meja": float64(12)},
	})
	res, err := Prepare(ds, Options{MinEmailLength: 4})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if res.Guests[0].TableID != "12" {
		t.Errorf("table id = %q, want 12", res.Guests[0].TableID)
	}
}

func TestParseCSV(t *testing.T) {
	input := "\ufeffEmail,Nama,No_Meja,Gelaran\na@x.com,Ali,t 5,Encik\nb@x.com,Bea,T6\n"
	ds, err := Parse("guests.CSV", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if ds.Columns[0] != "Email" {
		t.Errorf("BOM not stripped: %q", ds.Columns[0])
	}

	res, err := Prepare(ds, Options{MinEmailLength: 4})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if len(res.Guests) != 2 || res.Guests[0].TableID != "T5" || res.Guests[1].Title != "" {
		t.Errorf("guests = %+v", res.Guests)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Email", "Nama", "No_Meja"},
		{"A@X.COM", "Ali", 7},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	ds, err := Parse("guests.xlsx", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	res, err := Prepare(ds, Options{MinEmailLength: 4})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	want := entity.Guest{Email: "a@x.com", Name: "Ali", TableID: "7"}
	if len(res.Guests) != 1 || res.Guests[0] != want {
		t.Errorf("guests = %+v, want %+v", res.Guests, want)
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse("guests.txt", strings.NewReader(""))
	if !stderrors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestCSVBytesRoundTripsThroughParse(t *testing.T) {
	src := &Dataset{
		Columns: []string{"Email", "Nama", "No_Meja"},
		Rows:    [][]any{{"a@x.com", "Ali, Jr", 3}},
	}
	raw, err := CSVBytes(src)
	if err != nil {
		t.Fatalf("CSVBytes: %v", err)
	}
	ds, err := ParseCSV(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if ds.Rows[0][1] != "Ali, Jr" || ds.Rows[0][2] != "3" {
		t.Errorf("rows = %v", ds.Rows)
	}
}
