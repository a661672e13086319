package commands

import (
	"errors"
	"fmt"
	"hockeystats-backend/lib/rowspan"
	"hockeystats-backend/lib/stanleycup"

	"github.com/spf13/cobra"
)

var findThreshold float64

func init() {
	findCmd.Flags().Float64Var(&findThreshold, "threshold", 0.85, "The minimum similarity between the query and a team name.")
	rootCmd.AddCommand(listCmd, showCmd, findCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every stored record.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, database, err := config.OpenStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer database.Close()

		count, err := store.Count(cmd.Context())
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no records stored")
			return nil
		}
		records, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		renderRecords(cmd.OutOrStdout(), "Records", records)
		fmt.Fprintf(cmd.OutOrStdout(), "%d records stored\n", count)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <year>",
	Short: "Shows the record of a single year.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, database, err := config.OpenStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer database.Close()

		record, err := store.Get(cmd.Context(), args[0])
		if errors.Is(err, stanleycup.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "no record for %s\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		renderRecords(cmd.OutOrStdout(), args[0], []rowspan.Record{record})
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <team> [--threshold <0-1>]",
	Short: "Finds the finals a team played in.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, database, err := config.OpenStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer database.Close()

		matches, err := store.FindByTeam(cmd.Context(), args[0], findThreshold)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no finals found for %s\n", args[0])
			return nil
		}
		renderMatches(cmd.OutOrStdout(), matches)
		return nil
	},
}
