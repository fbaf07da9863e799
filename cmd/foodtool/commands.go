package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"macrotrack.app/internal/appconf"
	"macrotrack.app/internal/catalog"
	"macrotrack.app/internal/nutrition"
)

type tableOptions struct {
	source     string
	configFile string
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foodtool",
		Short: "Query a food composition table",
		Long: `Foodtool loads a food composition table (xlsx, csv or tsv, local or over http)
and answers questions about it without running the API server.

Tables use the Fineli column names unless --config points at a YAML file with
a different column mapping.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newHighProteinCmd(), newInspectCmd())
	return rootCmd
}

func (opts *tableOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.source, "source", "", "path or URL of the nutrition table")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "optional YAML file with the column mapping")
	_ = cmd.MarkFlagRequired("source")
}

// load reads the table described by opts. Nothing is logged unless loading fails.
func (opts *tableOptions) load(ctx context.Context) (*catalog.Manager, error) {
	var catalogFile *appconf.CatalogFile
	if opts.configFile != "" {
		var err error
		catalogFile, err = appconf.LoadCatalogFile(opts.configFile)
		if err != nil {
			return nil, err
		}
	}

	return catalog.InitManager(ctx, catalog.Config{
		Source:  opts.source,
		Columns: catalogFile.TableColumns(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func newHighProteinCmd() *cobra.Command {
	var opts tableOptions
	var minRatio, sortBy, search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "high-protein",
		Short: "List foods with at least the given grams of protein per kcal",
		Long: `List foods whose protein to calories ratio (g per kcal) is at least --min-ratio.

Example:
  foodtool high-protein --source app/data/resultset.xlsx --min-ratio 0.15 --sort-by protein_to_calories
  foodtool high-protein --source foods.csv --search chicken --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := nutrition.ParseQuery(minRatio, sortBy, search)
			if err != nil {
				return err
			}

			manager, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			ranked, err := manager.HighProtein(q)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ranked)
			}
			return writeRankedTable(cmd.OutOrStdout(), ranked)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&minRatio, "min-ratio", strconv.FormatFloat(nutrition.DefaultMinProteinRatio, 'f', -1, 64), "minimum grams of protein per kcal")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "sort order: protein_to_calories or name (default table order)")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive substring of the food name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var opts tableOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print row counts of a nutrition table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			stats := manager.Stats()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}

			out := cmd.OutOrStdout()
			_, err = fmt.Fprintf(out, "source:         %s\nformat:         %s\nrecords:        %d\nmissing values: %d\n",
				stats.Source, stats.Format, stats.Records, stats.MissingValues)
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRankedTable(w io.Writer, ranked []nutrition.RankedRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tKCAL\tPROTEIN (G)\tG PER KCAL")
	for _, r := range ranked {
		_, _ = fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", r.Name, r.Calories, r.Protein, r.ProteinToCalories)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d foods\n", len(ranked))
	return err
}
