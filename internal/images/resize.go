// Package images implements the image collaborator surface: format
// conversion via an external converter with an in-process fallback, and
// interpolated resizing.
package images

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/modforge/uprez/internal/dispatch"
	"github.com/modforge/uprez/internal/fileutil"
	"github.com/modforge/uprez/internal/logger"
)

var interpolators = map[string]draw.Interpolator{
	"nearest":    draw.NearestNeighbor,
	"bilinear":   draw.ApproxBiLinear,
	"catmullrom": draw.CatmullRom,
}

// Interpolator resolves a filter name to its interpolator.
func Interpolator(name string) (draw.Interpolator, error) {
	interp, ok := interpolators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown resize filter %q (nearest, bilinear, catmullrom)", name)
	}
	return interp, nil
}

// ResizeDir resizes every file with the given extension under inputRoot by
// factor, writing results to the mirrored path under outputRoot. Per-file
// failures are logged and skipped.
func ResizeDir(ctx context.Context, inputRoot, outputRoot, ext string, factor float64, filter string, workers int) error {
	interp, err := Interpolator(filter)
	if err != nil {
		return err
	}
	files, err := dispatch.ListFiles(inputRoot, ext)
	if err != nil {
		return err
	}
	return dispatch.ForEach(ctx, files, workers, func(ctx context.Context, file string) error {
		if err := resizeFile(file, inputRoot, outputRoot, factor, interp); err != nil {
			logger.L(ctx).Error("failed to resize image", zap.String("file", file), zap.Error(err))
		}
		return nil
	})
}

func resizeFile(file, inputRoot, outputRoot string, factor float64, interp draw.Interpolator) error {
	src, format, err := decodeImage(file)
	if err != nil {
		return err
	}

	bounds := src.Bounds()
	w := int(math.Round(float64(bounds.Dx()) * factor))
	h := int(math.Round(float64(bounds.Dy()) * factor))
	if w < 1 || h < 1 {
		return fmt.Errorf("scale factor %g collapses %dx%d image", factor, bounds.Dx(), bounds.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	interp.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	out, err := fileutil.MirrorPath(file, inputRoot, outputRoot)
	if err != nil {
		return err
	}
	return encodeImage(out, dst, format)
}

func decodeImage(file string) (image.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", file, err)
	}
	return img, format, nil
}

func encodeImage(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	switch format {
	case "png":
		return png.Encode(f, img)
	case "jpeg":
		return jpeg.Encode(f, img, nil)
	case "bmp":
		return bmp.Encode(f, img)
	case "tiff":
		return tiff.Encode(f, img, nil)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
