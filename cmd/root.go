package cmd

import (
	"fmt"
	"os"

	cobra "github.com/spf13/cobra"
	gotenv "github.com/subosito/gotenv"

	config "github.com/modforge/uprez/config"
	logger "github.com/modforge/uprez/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "uprez",
	Short: "Rescale game UI definition files for high-resolution displays",
	Long: `uprez rescales the positional attributes (coordinates, sizes, spacing)
embedded in game UI definition files so that interfaces render correctly at
2K and 4K resolutions.

It can scale a directory by a fixed factor, derive per-attribute scaling
factors by comparing originals against already-scaled reference files, and
apply those stored factors to new files. Companion commands convert, resize
and AI-upscale the matching image assets.`,
}

func Execute() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// Credentials can live in a .env next to the working directory.
	_ = gotenv.Load()

	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	configPath, _ := rootCmd.PersistentFlags().GetString("config")

	c, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = c

	if err := logger.Init(verbose, cfg.Paths.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
}
