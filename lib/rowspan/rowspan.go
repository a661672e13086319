package rowspan

import (
	"database/sql"
	"errors"
	"fmt"
	"hockeystats-backend/internal/telemetry"
	"strconv"
	"strings"
)

const (
	report_short_row      = "short-row"
	report_malformed_span = "malformed-span"
	report_excluded_row   = "excluded-row"
	report_records        = "records"
)

// Cell is a single table cell, its text is already trimmed.
// Span is the number of rows the cell covers, it is always >= 1.
type Cell struct {
	Text string
	Span int
}

// NewCell creates a cell from the raw value of its rowspan attribute,
// an empty or malformed attribute results in a span of 1. Malformed
// attributes are reported to tel if it is not nil.
func NewCell(text, spanAttr string, tel telemetry.API) Cell {
	span, ok := ParseSpan(spanAttr)
	if !ok && tel != nil {
		tel.ReportWarning(report_malformed_span, text, spanAttr)
	}
	return Cell{Text: text, Span: span}
}

type Row []Cell

// Record is one extracted line of the table, any field may be null when
// the source row ran out of cells.
type Record struct {
	Year         sql.NullString
	WinningTeam  sql.NullString
	WinningCoach sql.NullString
	LosingTeam   sql.NullString
	LosingCoach  sql.NullString
}

// Fields returns the record in column order.
func (r Record) Fields() [5]sql.NullString {
	return [5]sql.NullString{r.Year, r.WinningTeam, r.WinningCoach, r.LosingTeam, r.LosingCoach}
}

// Str is a shorthand for a valid sql.NullString.
func Str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// Null is the missing value.
var Null = sql.NullString{}

// ParseSpan parses a rowspan attribute, ok is false when the attribute
// was present but could not be used, in which case the span is 1.
func ParseSpan(attr string) (span int, ok bool) {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return 1, true
	}
	n, err := strconv.Atoi(attr)
	if err != nil || n < 1 {
		return 1, false
	}
	return n, true
}

// PendingSpan holds the value of a spanned cell for the rows it still covers.
type PendingSpan struct {
	Remaining int
	Held      string
}

// Active is true when the next row's value comes from the held cell.
func (p PendingSpan) Active() bool {
	return p.Remaining > 0
}

// Take produces the value of a spanned column for the current row. When
// the span is active the held value is emitted and no cell is consumed,
// otherwise the cell at cursor is read and becomes the new held value.
// A row with no cell left at cursor yields null and leaves the span as is.
func (p PendingSpan) Take(row Row, cursor int) (sql.NullString, PendingSpan, int) {
	if p.Active() {
		return Str(p.Held), PendingSpan{Remaining: p.Remaining - 1, Held: p.Held}, cursor
	}
	if cursor >= len(row) {
		return Null, p, cursor
	}
	cell := row[cursor]
	span := cell.Span
	if span < 1 {
		span = 1
	}
	return Str(cell.Text), PendingSpan{Remaining: span - 1, Held: cell.Text}, cursor + 1
}

// Excluder decides if a row should be dropped before extraction.
type Excluder func(row Row) bool

// ExcludeYears drops rows whose first cell is one of the given years.
func ExcludeYears(years ...string) Excluder {
	set := make(map[string]struct{}, len(years))
	for _, y := range years {
		set[y] = struct{}{}
	}
	return func(row Row) bool {
		if len(row) == 0 {
			return false
		}
		_, ok := set[row[0].Text]
		return ok
	}
}

// DefaultExcludedYear is the cancelled 2004-05 season, the table carries a
// single irregular row for it.
const DefaultExcludedYear = "2005"

var ErrInvalidOptions = errors.New("invalid extraction options")

type Options struct {
	// HeaderRows is the number of leading rows to skip.
	HeaderRows int
	// Exclude may be nil.
	Exclude Excluder
	// Tel may be nil, in which case nothing is reported.
	Tel telemetry.API
}

// DefaultOptions skips one header row and the cancelled season.
func DefaultOptions() Options {
	return Options{
		HeaderRows: 1,
		Exclude:    ExcludeYears(DefaultExcludedYear),
	}
}

type state struct {
	winningCoach PendingSpan
	losingCoach  PendingSpan
	records      []Record
}

// Extract flattens rows into records, propagating the coach columns' spans
// into the rows they cover.
func Extract(rows []Row, opts Options) ([]Record, error) {
	if opts.HeaderRows < 0 {
		return nil, fmt.Errorf("%w: negative header row count %d", ErrInvalidOptions, opts.HeaderRows)
	}
	tel := opts.Tel
	if tel == nil {
		tel = telemetry.NoopAPI{}
	}

	body := rows
	if opts.HeaderRows >= len(body) {
		body = nil
	} else {
		body = body[opts.HeaderRows:]
	}

	s := state{records: make([]Record, 0, len(body))}
	for i, row := range body {
		if opts.Exclude != nil && opts.Exclude(row) {
			tel.ReportWarning(report_excluded_row, i+opts.HeaderRows, firstText(row))
			continue
		}
		s = s.step(row, tel, i+opts.HeaderRows)
	}

	tel.ReportCount(report_records, int64(len(s.records)))
	return s.records, nil
}

func firstText(row Row) string {
	if len(row) == 0 {
		return ""
	}
	return row[0].Text
}

func fresh(row Row, cursor int) (sql.NullString, int) {
	if cursor >= len(row) {
		return Null, cursor
	}
	return Str(row[cursor].Text), cursor + 1
}

func (s state) step(row Row, tel telemetry.API, index int) state {
	var rec Record
	cursor := 0

	rec.Year, cursor = fresh(row, cursor)
	rec.WinningTeam, cursor = fresh(row, cursor)
	rec.WinningCoach, s.winningCoach, cursor = s.winningCoach.Take(row, cursor)
	rec.LosingTeam, cursor = fresh(row, cursor)
	rec.LosingCoach, s.losingCoach, cursor = s.losingCoach.Take(row, cursor)

	for _, f := range rec.Fields() {
		if !f.Valid {
			tel.ReportWarning(report_short_row, index, len(row))
			break
		}
	}

	s.records = append(s.records, rec)
	return s
}

// StructuralError is returned when the expected table is not among the
// candidate tables of a page.
type StructuralError struct {
	Selector   string
	Index      int
	Candidates int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf(
		"expected table %d matching '%s', found %d candidate(s)",
		e.Index, e.Selector, e.Candidates,
	)
}

// SelectTable picks the candidate at index.
func SelectTable[T any](candidates []T, selector string, index int) (T, error) {
	if index < 0 || index >= len(candidates) {
		var zero T
		return zero, &StructuralError{
			Selector:   selector,
			Index:      index,
			Candidates: len(candidates),
		}
	}
	return candidates[index], nil
}
