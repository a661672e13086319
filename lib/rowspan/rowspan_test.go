package rowspan

import (
	"database/sql"
	"errors"
	"fmt"
	"hockeystats-backend/internal/telemetry"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func c(text string) Cell {
	return Cell{Text: text, Span: 1}
}

func spanned(text string, span int) Cell {
	return Cell{Text: text, Span: span}
}

// rec builds a record from strings, nil marks a null field.
func rec(fields ...any) Record {
	var values [5]sql.NullString
	for i, f := range fields {
		if text, ok := f.(string); ok {
			values[i] = Str(text)
		}
	}
	return Record{
		Year:         values[0],
		WinningTeam:  values[1],
		WinningCoach: values[2],
		LosingTeam:   values[3],
		LosingCoach:  values[4],
	}
}

var header = Row{c("Year"), c("Winning team"), c("Coach"), c("Losing team"), c("Coach")}

func requireRecords(t testing.TB, expected, got []Record) {
	t.Helper()
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("records mismatch (-expected +got):\n%s", diff)
	}
}

func TestExtract(t *testing.T) {
	testCases := []struct {
		name     string
		rows     []Row
		expected []Record
	}{
		{
			name: "winning coach span carries into next row",
			rows: []Row{
				header,
				{c("1990"), c("A"), spanned("CoachX", 2), c("C"), c("CoachY")},
				{c("1991"), c("B"), c("D"), c("CoachZ")},
			},
			expected: []Record{
				rec("1990", "A", "CoachX", "C", "CoachY"),
				rec("1991", "B", "CoachX", "D", "CoachZ"),
			},
		},
		{
			name: "short row yields nulls",
			rows: []Row{
				header,
				{c("1992"), c("E")},
			},
			expected: []Record{
				rec("1992", "E", nil, nil, nil),
			},
		},
		{
			name: "empty row yields all nulls",
			rows: []Row{
				header,
				{},
			},
			expected: []Record{
				rec(nil, nil, nil, nil, nil),
			},
		},
		{
			name: "losing coach span is independent",
			rows: []Row{
				header,
				{c("2000"), c("A"), c("W1"), c("B"), spanned("L1", 3)},
				{c("2001"), c("C"), c("W2"), c("D")},
				{c("2002"), c("E"), c("W3"), c("F")},
				{c("2003"), c("G"), c("W4"), c("H"), c("L2")},
			},
			expected: []Record{
				rec("2000", "A", "W1", "B", "L1"),
				rec("2001", "C", "W2", "D", "L1"),
				rec("2002", "E", "W3", "F", "L1"),
				rec("2003", "G", "W4", "H", "L2"),
			},
		},
		{
			name: "both coaches spanned",
			rows: []Row{
				header,
				{c("1950"), c("A"), spanned("W", 2), c("B"), spanned("L", 2)},
				{c("1951"), c("C"), c("D")},
				{c("1952"), c("E"), c("W2"), c("F"), c("L2")},
			},
			expected: []Record{
				rec("1950", "A", "W", "B", "L"),
				rec("1951", "C", "W", "D", "L"),
				rec("1952", "E", "W2", "F", "L2"),
			},
		},
		{
			name: "excluded row does not consume a span",
			rows: []Row{
				header,
				{c("2004"), c("A"), spanned("W", 2), c("B"), c("L")},
				{c("2005"), c("Season cancelled")},
				{c("2006"), c("C"), c("D"), c("L2")},
				{c("2007"), c("E"), c("W2"), c("F"), c("L3")},
			},
			expected: []Record{
				rec("2004", "A", "W", "B", "L"),
				rec("2006", "C", "W", "D", "L2"),
				rec("2007", "E", "W2", "F", "L3"),
			},
		},
		{
			name: "malformed span is a single row",
			rows: []Row{
				header,
				{c("1980"), c("A"), NewCell("W", "two", nil), c("B"), NewCell("L", "", nil)},
				{c("1981"), c("C"), c("W2"), c("D"), c("L2")},
			},
			expected: []Record{
				rec("1980", "A", "W", "B", "L"),
				rec("1981", "C", "W2", "D", "L2"),
			},
		},
		{
			name: "span cell on exhausted row leaves tracker alone",
			rows: []Row{
				header,
				{c("1960"), c("A")},
				{c("1961"), c("B"), spanned("W", 2), c("C"), c("L")},
				{c("1962"), c("D"), c("E"), c("L2")},
			},
			expected: []Record{
				rec("1960", "A", nil, nil, nil),
				rec("1961", "B", "W", "C", "L"),
				rec("1962", "D", "W", "E", "L2"),
			},
		},
		{
			name:     "header only",
			rows:     []Row{header},
			expected: []Record{},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			got, err := Extract(test.rows, DefaultOptions())
			require.NoError(t, err)
			requireRecords(t, test.expected, got)
		})
	}
}

func TestExtractSpanCoversExactRows(t *testing.T) {
	for span := 1; span <= 6; span++ {
		t.Run(fmt.Sprintf("span %d", span), func(t *testing.T) {
			rows := []Row{header}
			rows = append(rows, Row{c("1900"), c("T0"), spanned("Held", span), c("L0"), c("LC0")})
			for i := 1; i < span; i++ {
				year := fmt.Sprint(1900 + i)
				rows = append(rows, Row{c(year), c("T"), c("L"), c("LC")})
			}
			rows = append(rows, Row{c("1999"), c("T"), c("Fresh"), c("L"), c("LC")})

			got, err := Extract(rows, DefaultOptions())
			require.NoError(t, err)
			require.Len(t, got, span+1)
			for i := 0; i < span; i++ {
				require.Equal(t, Str("Held"), got[i].WinningCoach, "row %d", i)
				require.True(t, got[i].LosingTeam.Valid)
			}
			require.Equal(t, Str("Fresh"), got[span].WinningCoach)
		})
	}
}

func TestExtractLength(t *testing.T) {
	rows := []Row{header, header}
	excluded := 0
	for i := 0; i < 40; i++ {
		year := fmt.Sprint(1970 + i)
		switch {
		case year == "1975" || year == "1999":
			excluded++
			rows = append(rows, Row{c(year)})
		case i%7 == 0:
			rows = append(rows, Row{c(year), c("A"), spanned("W", 3), c("B"), spanned("L", 2)})
		case i%5 == 0:
			rows = append(rows, Row{c(year), c("A")})
		default:
			rows = append(rows, Row{c(year), c("A"), c("B"), c("C"), c("D")})
		}
	}

	got, err := Extract(rows, Options{
		HeaderRows: 2,
		Exclude:    ExcludeYears("1975", "1999"),
	})
	require.NoError(t, err)
	require.Len(t, got, len(rows)-2-excluded)
}

func TestExtractIdempotent(t *testing.T) {
	rows := []Row{
		header,
		{c("1990"), c("A"), spanned("CoachX", 2), c("C"), c("CoachY")},
		{c("1991"), c("B"), c("D"), c("CoachZ")},
		{c("1992"), c("E")},
	}
	first, err := Extract(rows, DefaultOptions())
	require.NoError(t, err)
	second, err := Extract(rows, DefaultOptions())
	require.NoError(t, err)
	requireRecords(t, first, second)
}

func TestExtractOptions(t *testing.T) {
	_, err := Extract([]Row{header}, Options{HeaderRows: -1})
	require.True(t, errors.Is(err, ErrInvalidOptions))

	got, err := Extract([]Row{header}, Options{HeaderRows: 5})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = Extract([]Row{{c("2005"), c("A")}}, Options{})
	require.NoError(t, err)
	requireRecords(t, []Record{rec("2005", "A", nil, nil, nil)}, got)
}

func TestExtractReports(t *testing.T) {
	recorder := telemetry.NewRecorder()
	opts := DefaultOptions()
	opts.Tel = recorder

	rows := []Row{
		header,
		{c("2004"), c("A"), c("W"), c("B"), c("L")},
		{c("2005")},
		{c("2006"), c("C")},
	}
	_, err := Extract(rows, opts)
	require.NoError(t, err)

	require.Equal(t, []string{report_excluded_row, report_short_row}, recorder.IDs("warning"))
	reports := recorder.Reports()
	last := reports[len(reports)-1]
	require.Equal(t, report_records, last.ID)
	require.Equal(t, int64(2), last.Count)
}

func TestParseSpan(t *testing.T) {
	testCases := []struct {
		attr string
		span int
		ok   bool
	}{
		{attr: "", span: 1, ok: true},
		{attr: "1", span: 1, ok: true},
		{attr: "4", span: 4, ok: true},
		{attr: " 3 ", span: 3, ok: true},
		{attr: "0", span: 1, ok: false},
		{attr: "-2", span: 1, ok: false},
		{attr: "2;", span: 1, ok: false},
		{attr: "abc", span: 1, ok: false},
	}

	for _, test := range testCases {
		span, ok := ParseSpan(test.attr)
		require.Equal(t, test.span, span, test.attr)
		require.Equal(t, test.ok, ok, test.attr)
	}

	recorder := telemetry.NewRecorder()
	cell := NewCell("Toe Blake", "x", recorder)
	require.Equal(t, Cell{Text: "Toe Blake", Span: 1}, cell)
	require.Equal(t, []string{report_malformed_span}, recorder.IDs("warning"))
}

func TestSelectTable(t *testing.T) {
	tables := []string{"first", "second", "third"}

	got, err := SelectTable(tables, "table.wikitable", 2)
	require.NoError(t, err)
	require.Equal(t, "third", got)

	_, err = SelectTable(tables[:2], "table.wikitable", 2)
	var structural *StructuralError
	require.True(t, errors.As(err, &structural))
	require.Equal(t, 2, structural.Candidates)
	require.Equal(t, 2, structural.Index)
	require.Contains(t, err.Error(), "table.wikitable")

	_, err = SelectTable([]string(nil), "table", -1)
	require.Error(t, err)
}
