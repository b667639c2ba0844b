package cmd

import (
	"context"
	"fmt"
	"sync/atomic"

	cobra "github.com/spf13/cobra"
	zap "go.uber.org/zap"

	dispatch "github.com/modforge/uprez/internal/dispatch"
	guitext "github.com/modforge/uprez/internal/guitext"
	logger "github.com/modforge/uprez/internal/logger"
)

var scaleCmd = &cobra.Command{
	Use:   "scale",
	Short: "Scale a directory of UI files by a fixed factor",
	Long: `Scale every positional attribute in the UI files under --input by a single
fixed factor, writing changed files to the mirrored path under --output.
Files whose content does not change are not written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		ext, _ := cmd.Flags().GetString("ext")
		factor, _ := cmd.Flags().GetFloat64("factor")

		if factor <= 0 {
			return fmt.Errorf("scale factor must be positive, got %g", factor)
		}
		if ext == "" {
			ext = cfg.Scaling.Extension
		}

		fixed := guitext.Fixed(factor)
		return runScalePass(cmd.Context(), input, output, ext,
			func(context.Context, string) (guitext.FactorSource, error) { return fixed, nil })
	},
}

func init() {
	scaleCmd.Flags().StringP("input", "i", "", "directory containing the UI files")
	scaleCmd.Flags().StringP("output", "o", "", "directory to write rescaled files to")
	scaleCmd.Flags().String("ext", "", "file extension to process (default from config)")
	scaleCmd.Flags().Float64P("factor", "f", 0, "scaling factor to apply")
	_ = scaleCmd.MarkFlagRequired("input")
	_ = scaleCmd.MarkFlagRequired("output")
	_ = scaleCmd.MarkFlagRequired("factor")
	rootCmd.AddCommand(scaleCmd)
}

// runScalePass fans the input files out to the worker pool, rescaling each
// with the factor source resolved for that file. Per-file failures are
// logged and skipped.
func runScalePass(ctx context.Context, input, output, ext string, factorsFor func(ctx context.Context, file string) (guitext.FactorSource, error)) error {
	files, err := dispatch.ListFiles(input, ext)
	if err != nil {
		return err
	}

	var written, unchanged, failed atomic.Int64
	err = dispatch.ForEach(ctx, files, cfg.Scaling.Workers, func(ctx context.Context, file string) error {
		src, err := factorsFor(ctx, file)
		if err != nil {
			logger.L(ctx).Error("factor lookup failed", zap.String("file", file), zap.Error(err))
			failed.Add(1)
			return nil
		}
		switch guitext.RescaleFile(ctx, file, input, output, src).Outcome {
		case guitext.OutcomeWritten:
			written.Add(1)
		case guitext.OutcomeUnchanged:
			unchanged.Add(1)
		case guitext.OutcomeFailed:
			failed.Add(1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("scaling pass complete",
		zap.Int64("written", written.Load()),
		zap.Int64("unchanged", unchanged.Load()),
		zap.Int64("failed", failed.Load()))
	return nil
}
