package stanleycup

import (
	"context"
	"database/sql"
	"fmt"
	"hockeystats-backend/internal/telemetry"
	"hockeystats-backend/lib/rowspan"
	"hockeystats-backend/lib/scrapers/wikipedia"
	"hockeystats-backend/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultUrl = "https://en.wikipedia.org/wiki/List_of_Stanley_Cup_champions"

// Source describes where the champions table lives and how to read it.
type Source struct {
	Url           string   `json:"url"`
	Class         string   `json:"class"`
	Index         int      `json:"index"`
	HeaderRows    int      `json:"header_rows"`
	ExcludedYears []string `json:"excluded_years"`
	// StripFootnotes removes markers like "[a]" from every extracted field.
	StripFootnotes bool `json:"strip_footnotes"`
}

// DefaultSource is the third wikitable of the champions article, whose
// 2005 row only notes the cancelled season.
func DefaultSource() Source {
	return Source{
		Url:           DefaultUrl,
		Class:         "wikitable",
		Index:         2,
		HeaderRows:    1,
		ExcludedYears: []string{rowspan.DefaultExcludedYear},
	}
}

// TableSource returns the rows of a table on a page.
type TableSource interface {
	ScrapeTable(ctx context.Context, req wikipedia.TableRequest) ([]rowspan.Row, error)
}

type Scraper struct {
	tables TableSource
	tel    telemetry.API
}

func NewScraper(tables TableSource, tel telemetry.API) Scraper {
	if tel == nil {
		tel = telemetry.NoopAPI{}
	}
	return Scraper{
		tables: tables,
		tel:    telemetry.NewScopedAPI("stanleycup", tel),
	}
}

// Scrape fetches the table described by src and extracts its records. No
// records are returned if the table cannot be found.
func (s Scraper) Scrape(ctx context.Context, src Source) ([]rowspan.Record, error) {
	ctx, span := tracer.Start(ctx, "scraper:Scrape")
	defer span.End()

	rows, err := s.tables.ScrapeTable(ctx, wikipedia.TableRequest{
		Url:   src.Url,
		Class: src.Class,
		Index: src.Index,
	})
	if err != nil {
		span.SetStatus(codes.Error, "failed to scrape table")
		return nil, fmt.Errorf("scrape %s: %w", src.Url, err)
	}

	records, err := rowspan.Extract(rows, rowspan.Options{
		HeaderRows: src.HeaderRows,
		Exclude:    rowspan.ExcludeYears(src.ExcludedYears...),
		Tel:        s.tel,
	})
	if err != nil {
		span.SetStatus(codes.Error, "failed to extract records")
		return nil, err
	}

	if src.StripFootnotes {
		for i := range records {
			records[i] = stripFootnotes(records[i])
		}
	}

	span.SetAttributes(
		attribute.Int("rows", len(rows)),
		attribute.Int("records", len(records)),
	)
	return records, nil
}

func strip(field sql.NullString) sql.NullString {
	if !field.Valid {
		return field
	}
	return rowspan.Str(textutil.StripFootnotes(field.String))
}

func stripFootnotes(r rowspan.Record) rowspan.Record {
	return rowspan.Record{
		Year:         strip(r.Year),
		WinningTeam:  strip(r.WinningTeam),
		WinningCoach: strip(r.WinningCoach),
		LosingTeam:   strip(r.LosingTeam),
		LosingCoach:  strip(r.LosingCoach),
	}
}

// Preview returns the first and last n records, they overlap when there
// are fewer than 2n records.
func Preview(records []rowspan.Record, n int) (head, tail []rowspan.Record) {
	if n <= 0 {
		return nil, nil
	}
	head = records[:min(n, len(records))]
	tail = records[max(len(records)-n, 0):]
	return head, tail
}
