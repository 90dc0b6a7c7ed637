package importer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"event-checkin/core/constants"
	"event-checkin/core/utils"
	"event-checkin/modules/guest/entity"

	"github.com/spf13/cast"
)

var requiredColumns = []string{constants.ColumnEmail, constants.ColumnName, constants.ColumnTableID}

// SchemaError reports required columns absent from the dataset header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

type Options struct {
	// Rows whose normalized email has fewer runes than this are dropped.
	MinEmailLength int
}

type Result struct {
	Guests     []entity.Guest
	Received   int
	Dropped    int
	Duplicates int
}

// Prepare validates the header and normalizes every row. Later rows win when two
// rows share a normalized email. It never partially succeeds: a schema problem
// returns no guests at all.
func Prepare(ds *Dataset, opts Options) (*Result, error) {
	if ds == nil {
		ds = &Dataset{}
	}

	index := make(map[string]int, len(ds.Columns))
	for i, col := range ds.Columns {
		name := strings.TrimSpace(col)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	titleIdx, hasTitle := index[constants.ColumnTitle]

	res := &Result{Received: len(ds.Rows)}
	position := make(map[string]int)
	for _, row := range ds.Rows {
		email := utils.NormalizeEmail(cell(row, index[constants.ColumnEmail]))
		if email == "" || utf8.RuneCountInString(email) < opts.MinEmailLength {
			res.Dropped++
			continue
		}

		g := entity.Guest{
			Email:   email,
			Name:    utils.NormalizeText(cell(row, index[constants.ColumnName])),
			TableID: utils.NormalizeTableID(cell(row, index[constants.ColumnTableID])),
		}
		if hasTitle {
			g.Title = utils.NormalizeText(cell(row, titleIdx))
		}

		if pos, seen := position[email]; seen {
			res.Guests[pos] = g
			res.Duplicates++
			continue
		}
		position[email] = len(res.Guests)
		res.Guests = append(res.Guests, g)
	}
	return res, nil
}

func cell(row []any, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return cellString(row[i])
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}
