package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	cobra "github.com/spf13/cobra"

	storage "github.com/modforge/uprez/internal/storage"
)

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "List stored scaling factors for a resolution",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolution, _ := cmd.Flags().GetString("resolution")

		store, err := storage.New(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		records, err := store.ListFactors(cmd.Context(), resolution)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Printf("No scaling factors stored for %s\n", resolution)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FILE\tPROPERTY\tMEAN\tMEDIAN\tSTDDEV\tMIN\tMAX")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.FilePath, r.Property,
				formatStat(r.Stats.Mean), formatStat(r.Stats.Median),
				formatStat(r.Stats.StdDev), formatStat(r.Stats.Min), formatStat(r.Stats.Max))
		}
		return w.Flush()
	},
}

func init() {
	factorsCmd.Flags().StringP("resolution", "r", "", `resolution label (e.g. "2K", "4K")`)
	_ = factorsCmd.MarkFlagRequired("resolution")
	rootCmd.AddCommand(factorsCmd)
}

func formatStat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}
