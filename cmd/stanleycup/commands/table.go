package commands

import (
	"database/sql"
	"fmt"
	"hockeystats-backend/lib/rowspan"
	"hockeystats-backend/lib/stanleycup"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

var recordHeader = table.Row{"year", "winning_team", "winning_coach", "losing_team", "losing_coach"}

func cellValue(v sql.NullString) any {
	if !v.Valid {
		return "null"
	}
	return v.String
}

func recordRow(r rowspan.Record) table.Row {
	fields := r.Fields()
	row := make(table.Row, len(fields))
	for i, f := range fields {
		row[i] = cellValue(f)
	}
	return row
}

func renderRecords(out io.Writer, title string, records []rowspan.Record) {
	t := newTable(out)
	t.SetTitle(title)
	t.AppendHeader(recordHeader)
	for _, r := range records {
		t.AppendRow(recordRow(r))
	}
	t.Render()
}

func renderMatches(out io.Writer, matches []stanleycup.Match) {
	t := newTable(out)
	t.AppendHeader(append(table.Row{"score", "side"}, recordHeader...))
	for _, m := range matches {
		side := "lost"
		if m.Won {
			side = "won"
		}
		t.AppendRow(append(table.Row{fmt.Sprintf("%.2f", m.Score), side}, recordRow(m.Record)...))
	}
	t.Render()
}
