package cmd

import (
	"context"

	cobra "github.com/spf13/cobra"

	guitext "github.com/modforge/uprez/internal/guitext"
	storage "github.com/modforge/uprez/internal/storage"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Scale a directory using previously derived factors",
	Long: `Scale the UI files under --input using the per-attribute mean factors
previously stored by 'uprez derive' for the given resolution. Attributes
without a stored factor are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		ext, _ := cmd.Flags().GetString("ext")
		resolution, _ := cmd.Flags().GetString("resolution")
		if ext == "" {
			ext = cfg.Scaling.Extension
		}

		store, err := storage.New(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		return runScalePass(cmd.Context(), input, output, ext,
			func(ctx context.Context, file string) (guitext.FactorSource, error) {
				return store.MeanFactors(ctx, file, resolution)
			})
	},
}

func init() {
	applyCmd.Flags().StringP("input", "i", "", "directory containing the UI files")
	applyCmd.Flags().StringP("output", "o", "", "directory to write rescaled files to")
	applyCmd.Flags().String("ext", "", "file extension to process (default from config)")
	applyCmd.Flags().StringP("resolution", "r", "", `target resolution label (e.g. "2K", "4K")`)
	_ = applyCmd.MarkFlagRequired("input")
	_ = applyCmd.MarkFlagRequired("output")
	_ = applyCmd.MarkFlagRequired("resolution")
	rootCmd.AddCommand(applyCmd)
}
