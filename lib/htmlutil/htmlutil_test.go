package htmlutil

import (
	"context"
	"hockeystats-backend/internal/telemetry"
	"hockeystats-backend/lib/rowspan"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const table = `
<table class="wikitable">
	<tbody>
		<tr><th>Year</th><th>Winning team</th><th>Coach</th><th>Losing team</th><th>Coach</th></tr>
		<tr>
			<td> <a href="/wiki/1990">1990</a> </td>
			<td>Edmonton <b>Oilers</b></td>
			<td rowspan="2"><a href="/wiki/Coach_X">Coach X</a></td>
			<td>Boston Bruins</td>
			<td rowspan="abc">Coach Y<sup>[1]</sup></td>
		</tr>
		<tr>
			<td>1991</td>
			<td>Pittsburgh Penguins</td>
			<td>Minnesota North Stars</td>
			<td>
				<table><tr><td>nested</td></tr></table>
			</td>
		</tr>
	</tbody>
</table>`

func TestTableRows(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(table))
	require.NoError(t, err)

	recorder := telemetry.NewRecorder()
	rows := TableRows(context.Background(), doc.Find("table.wikitable"), recorder)
	require.Len(t, rows, 3)

	require.Equal(t, rowspan.Row{
		{Text: "1990", Span: 1},
		{Text: "EdmontonOilers", Span: 1},
		{Text: "Coach X", Span: 2},
		{Text: "Boston Bruins", Span: 1},
		{Text: "Coach Y[1]", Span: 1},
	}, rows[1])
	require.Len(t, rows[2], 4)
	require.Equal(t, "Minnesota North Stars", rows[2][2].Text)
	require.Equal(t, "nested", rows[2][3].Text)

	require.Len(t, recorder.IDs("warning"), 1)
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(table))
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "1990", Href: "/wiki/1990"},
		{Name: "Coach X", Href: "/wiki/Coach_X"},
	}, anchors)
}

func TestGetText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<p id="p"> Hello,
	<i>world</i> </p>`))
	require.NoError(t, err)

	node := doc.Find("#p").Nodes[0]
	require.Equal(t, " Hello,\n\tworld ", GetText(node))
	require.Equal(t, "Hello,world", GetStrippedText(node))
}
