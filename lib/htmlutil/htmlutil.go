package htmlutil

import (
	"bytes"
	"context"
	"hockeystats-backend/internal/telemetry"
	"hockeystats-backend/lib/rowspan"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("hockeystats.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	walkText(node, func(text string) {
		buffer.WriteString(text)
	})
	return buffer.String()
}

// GetStrippedText trims every text node on its own before joining them,
// so "Toe <a>Blake</a>" becomes "ToeBlake" and "<a>Toe Blake</a>\n" becomes
// "Toe Blake".
func GetStrippedText(node *html.Node) string {
	var buffer bytes.Buffer
	walkText(node, func(text string) {
		buffer.WriteString(strings.TrimSpace(removeNonPrintable(text)))
	})
	return buffer.String()
}

func walkText(node *html.Node, visit func(text string)) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		visit(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		walkText(child, visit)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	ctx, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		name := GetText(n)
		name = removeNonPrintable(name)
		name = strings.Trim(name, " \t\n")
		name = innerWhitespace.ReplaceAllString(name, " ")

		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

// TableRows converts every <tr> of a table into a row of cells. Header and
// data cells are treated alike, the rowspan attribute of each is kept with
// its text so the two can never be read out of step.
func TableRows(ctx context.Context, table *goquery.Selection, tel telemetry.API) []rowspan.Row {
	_, span := tracer.Start(ctx, "TableRows")
	defer span.End()

	var rows []rowspan.Row
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// nested tables have their own rows
		if tr.ParentsFiltered("table").First().Nodes[0] != table.Nodes[0] {
			return
		}

		cells := tr.ChildrenFiltered("th, td")
		row := make(rowspan.Row, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			text := GetStrippedText(cell.Nodes[0])
			row = append(row, rowspan.NewCell(text, cell.AttrOr("rowspan", ""), tel))
		})
		rows = append(rows, row)
	})

	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows
}
