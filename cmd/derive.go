package cmd

import (
	"context"
	"sync/atomic"

	cobra "github.com/spf13/cobra"
	zap "go.uber.org/zap"

	derive "github.com/modforge/uprez/internal/derive"
	dispatch "github.com/modforge/uprez/internal/dispatch"
	fileutil "github.com/modforge/uprez/internal/fileutil"
	logger "github.com/modforge/uprez/internal/logger"
	storage "github.com/modforge/uprez/internal/storage"
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive scaling factors by comparing originals against 2K/4K references",
	Long: `Compare every UI file under --original against its counterparts under
--scaled-2k and --scaled-4k (matched by relative path) and store the derived
per-attribute scaling statistics in the factor database. Files missing a
scaled counterpart are skipped with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		original, _ := cmd.Flags().GetString("original")
		scaled2K, _ := cmd.Flags().GetString("scaled-2k")
		scaled4K, _ := cmd.Flags().GetString("scaled-4k")
		ext, _ := cmd.Flags().GetString("ext")
		if ext == "" {
			ext = cfg.Scaling.Extension
		}

		return runDerive(cmd.Context(), original, ext, map[string]string{
			"2K": scaled2K,
			"4K": scaled4K,
		})
	},
}

func init() {
	deriveCmd.Flags().String("original", "", "directory containing the original UI files")
	deriveCmd.Flags().String("scaled-2k", "", "directory containing the 2K reference files")
	deriveCmd.Flags().String("scaled-4k", "", "directory containing the 4K reference files")
	deriveCmd.Flags().String("ext", "", "file extension to process (default from config)")
	_ = deriveCmd.MarkFlagRequired("original")
	_ = deriveCmd.MarkFlagRequired("scaled-2k")
	_ = deriveCmd.MarkFlagRequired("scaled-4k")
	rootCmd.AddCommand(deriveCmd)
}

func runDerive(ctx context.Context, originalRoot, ext string, scaledRoots map[string]string) error {
	files, err := dispatch.ListFiles(originalRoot, ext)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine := derive.NewEngine(store)

	var derived atomic.Int64
	err = dispatch.ForEach(ctx, files, cfg.Scaling.Workers, func(ctx context.Context, file string) error {
		scaled := make(map[string]string, len(scaledRoots))
		for label, root := range scaledRoots {
			path, err := fileutil.MirrorPath(file, originalRoot, root)
			if err != nil {
				return err
			}
			scaled[label] = path
		}

		factors, err := engine.DeriveFile(ctx, file, scaled)
		if err != nil {
			logger.L(ctx).Error("derivation failed", zap.String("file", file), zap.Error(err))
			return err
		}
		if factors != nil {
			derived.Add(1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("scaling factors calculated and stored",
		zap.Int64("files", derived.Load()), zap.String("database", cfg.Database.Path))
	return nil
}
