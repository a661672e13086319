package wikipedia

import (
	"bytes"
	"context"
	"fmt"
	"hockeystats-backend/internal/telemetry"
	"hockeystats-backend/lib/htmlutil"
	"hockeystats-backend/lib/restyutil"
	"hockeystats-backend/lib/rowspan"
	libtelemetry "hockeystats-backend/lib/telemetry"
	"log/slog"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = libtelemetry.Tracer("hockeystats.lib.scrapers.wikipedia")

const DefaultUserAgent = "hockeystats-backend/1.0 (https://github.com/hockeystats/hockeystats-backend)"

type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	// CloudflareBypass wraps the transport so requests look like they come
	// from a browser, some mirrors sit behind cloudflare.
	CloudflareBypass bool
	// Dump may be nil.
	Dump restyutil.InstrumentOutput
	// Tel may be nil.
	Tel telemetry.API
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)

	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	libtelemetry.InstrumentResty(client, "scrapers/wikipedia/http")
	restyutil.InstrumentClient(client, opts.Dump)

	tel := opts.Tel
	if tel == nil {
		tel = telemetry.NoopAPI{}
	}
	return &Client{
		http: client,
		tel:  telemetry.NewScopedAPI("wikipedia", tel),
	}
}

func (c *Client) FetchDocument(ctx context.Context, link string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDocument")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "unexpected status")
		return nil, fmt.Errorf("fetch '%s': unexpected status %s", link, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}

// FindTable picks the index-th table with the given class in document order.
func FindTable(doc *goquery.Document, class string, index int) (*goquery.Selection, error) {
	selector := "table"
	if class != "" {
		selector = fmt.Sprintf("table.%s", class)
	}

	var candidates []*goquery.Selection
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		candidates = append(candidates, s)
	})
	return rowspan.SelectTable(candidates, selector, index)
}

type TableRequest struct {
	Url   string
	Class string
	Index int
}

// ScrapeTable fetches a page and returns the rows of one of its tables.
func (c *Client) ScrapeTable(ctx context.Context, req TableRequest) ([]rowspan.Row, error) {
	ctx, span := tracer.Start(ctx, "client:ScrapeTable")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", req.Url),
		attribute.String("class", req.Class),
		attribute.Int("index", req.Index),
	)

	doc, err := c.FetchDocument(ctx, req.Url)
	if err != nil {
		return nil, err
	}

	table, err := FindTable(doc, req.Class, req.Index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "table not found")
		c.tel.ReportBroken("table-not-found", req.Url, err.Error())
		return nil, err
	}

	rows := htmlutil.TableRows(ctx, table, c.tel)
	c.tel.ReportCount("table-rows", int64(len(rows)))

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		for _, a := range htmlutil.GetAnchors(ctx, table.Find("a[href^='/wiki/']")) {
			slog.DebugContext(ctx, "linked article", "name", a.Name, "href", a.Href)
		}
	}
	return rows, nil
}
