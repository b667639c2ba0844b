package cmd

import (
	"fmt"

	cobra "github.com/spf13/cobra"

	api "github.com/modforge/uprez/internal/api"
	fileutil "github.com/modforge/uprez/internal/fileutil"
	images "github.com/modforge/uprez/internal/images"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Convert, resize and AI-upscale the game's image assets",
}

var imagesConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert image assets between formats",
	Long: `Convert every image of the source format under --input to the target
format under --output. The external converter configured as texconv_path is
tried first; formats the built-in image stack can read fall back to an
in-process conversion, and files failing both are copied to the error
directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		unzip, _ := cmd.Flags().GetBool("unzip")

		if unzip {
			if err := fileutil.Unzip(input, input); err != nil {
				return err
			}
		}

		converter := &images.Converter{
			TexconvPath: cfg.Images.TexconvPath,
			Options:     cfg.Images.TexconvOptions,
		}
		return converter.ConvertDir(cmd.Context(), input, output, cfg.Paths.ErrorDir, from, to, cfg.Scaling.Workers)
	},
}

var imagesResizeCmd = &cobra.Command{
	Use:   "resize",
	Short: "Resize image assets by a scale factor",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		ext, _ := cmd.Flags().GetString("ext")
		factor, _ := cmd.Flags().GetFloat64("factor")
		filter, _ := cmd.Flags().GetString("filter")

		if factor <= 0 {
			return fmt.Errorf("scale factor must be positive, got %g", factor)
		}
		return images.ResizeDir(cmd.Context(), input, output, ext, factor, filter, cfg.Scaling.Workers)
	},
}

var imagesUpscaleCmd = &cobra.Command{
	Use:   "upscale",
	Short: "Upscale a single image through a hosted AI model",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		model, _ := cmd.Flags().GetString("model")

		upscaler, err := api.NewUpscaler(cfg.API.Replicate)
		if err != nil {
			return err
		}
		url, err := upscaler.Upscale(cmd.Context(), input, model)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

func init() {
	imagesConvertCmd.Flags().StringP("input", "i", "", "directory containing the source images")
	imagesConvertCmd.Flags().StringP("output", "o", "", "directory to write converted images to")
	imagesConvertCmd.Flags().String("from", "dds", "source image format")
	imagesConvertCmd.Flags().String("to", "png", "target image format")
	imagesConvertCmd.Flags().Bool("unzip", false, "extract .zip archives under the input directory first")
	_ = imagesConvertCmd.MarkFlagRequired("input")
	_ = imagesConvertCmd.MarkFlagRequired("output")

	imagesResizeCmd.Flags().StringP("input", "i", "", "directory containing the source images")
	imagesResizeCmd.Flags().StringP("output", "o", "", "directory to write resized images to")
	imagesResizeCmd.Flags().String("ext", "png", "image extension to process")
	imagesResizeCmd.Flags().Float64P("factor", "f", 0, "resize factor")
	imagesResizeCmd.Flags().String("filter", "catmullrom", "resize filter (nearest, bilinear, catmullrom)")
	_ = imagesResizeCmd.MarkFlagRequired("input")
	_ = imagesResizeCmd.MarkFlagRequired("output")
	_ = imagesResizeCmd.MarkFlagRequired("factor")

	imagesUpscaleCmd.Flags().StringP("input", "i", "", "image file to upscale")
	imagesUpscaleCmd.Flags().String("model", "", "model identifier (default from config)")
	_ = imagesUpscaleCmd.MarkFlagRequired("input")

	imagesCmd.AddCommand(imagesConvertCmd)
	imagesCmd.AddCommand(imagesResizeCmd)
	imagesCmd.AddCommand(imagesUpscaleCmd)
	rootCmd.AddCommand(imagesCmd)
}
