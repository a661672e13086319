package commands

import (
	"fmt"
	"hockeystats-backend/internal/telemetry"
	"hockeystats-backend/lib/stanleycup"
	libtelemetry "hockeystats-backend/lib/telemetry"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var (
	scrapeUrl        string
	scrapeIndex      int
	scrapeHeaderRows int
	scrapeExclude    []string
	scrapeDryRun     bool
	scrapeAppend     bool
	scrapePreview    int
)

func init() {
	flags := scrapeCmd.Flags()
	flags.StringVar(&scrapeUrl, "url", "", "The page holding the champions table.")
	flags.IntVar(&scrapeIndex, "table-index", 0, "Which of the page's matching tables to read, starting at 0.")
	flags.IntVar(&scrapeHeaderRows, "header-rows", 0, "How many leading rows of the table to skip.")
	flags.StringSliceVar(&scrapeExclude, "exclude", nil, "Years whose rows are skipped.")
	flags.BoolVar(&scrapeDryRun, "dry-run", false, "Print the records without writing them.")
	flags.BoolVar(&scrapeAppend, "append", false, "Keep previously stored records instead of replacing them.")
	flags.IntVar(&scrapePreview, "preview", 5, "How many of the first and last records to print.")
	rootCmd.AddCommand(scrapeCmd)
}

// source applies the flags that were set on top of the configured source.
func source(cmd *cobra.Command) stanleycup.Source {
	src := config.Source
	flags := cmd.Flags()
	if flags.Changed("url") {
		src.Url = scrapeUrl
	}
	if flags.Changed("table-index") {
		src.Index = scrapeIndex
	}
	if flags.Changed("header-rows") {
		src.HeaderRows = scrapeHeaderRows
	}
	if flags.Changed("exclude") {
		src.ExcludedYears = scrapeExclude
	}
	return src
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--url <page>] [--table-index <n>] [--dry-run]",
	Short: "Scrapes the champions table and writes its records to the database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		libtelemetry.InstrumentPerfStats(ctx, time.Second*5)
		tel := telemetry.NewSlogAPI(ctx)

		client, err := config.NewClient(tel)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		scraper := stanleycup.NewScraper(client, tel)

		src := source(cmd)
		slog.Info("scraping", "url", src.Url, "class", src.Class, "index", src.Index)

		t1 := time.Now()
		records, err := scraper.Scrape(ctx, src)
		if err != nil {
			return err
		}
		slog.Info("scraping time", "seconds", time.Since(t1).Seconds(), "records", len(records))

		head, tail := stanleycup.Preview(records, scrapePreview)
		if len(head) > 0 {
			renderRecords(cmd.OutOrStdout(), fmt.Sprintf("First %d records", len(head)), head)
			renderRecords(cmd.OutOrStdout(), fmt.Sprintf("Last %d records", len(tail)), tail)
		}

		if scrapeDryRun {
			return nil
		}

		store, database, err := config.OpenStore(ctx)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer database.Close()

		write := store.Replace
		if scrapeAppend {
			write = store.Append
		}
		inserted, err := write(ctx, records)
		if err != nil {
			return fmt.Errorf("write records: %w", err)
		}
		slog.Info("wrote records", "inserted", inserted, "ignored", len(records)-inserted)
		return nil
	},
}
