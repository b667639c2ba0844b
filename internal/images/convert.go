package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/modforge/uprez/internal/dispatch"
	"github.com/modforge/uprez/internal/fileutil"
	"github.com/modforge/uprez/internal/logger"
)

// Converter converts image files between formats. The external converter
// (texconv) is tried first since it handles the game's DDS and TGA assets;
// formats the standard image stack can decode fall back to an in-process
// conversion, and files that fail both paths are quarantined in the error
// directory for manual handling.
type Converter struct {
	TexconvPath string
	Options     []string
}

// ConvertDir converts every fromExt file under inputRoot to toExt under
// outputRoot, preserving relative paths. Per-file failures quarantine the
// file and continue; permission errors abort since they indicate a broken
// environment rather than a bad input.
func (c *Converter) ConvertDir(ctx context.Context, inputRoot, outputRoot, errorDir, fromExt, toExt string, workers int) error {
	files, err := dispatch.ListFiles(inputRoot, fromExt)
	if err != nil {
		return err
	}
	return dispatch.ForEach(ctx, files, workers, func(ctx context.Context, file string) error {
		return c.convertFile(ctx, file, inputRoot, outputRoot, errorDir, toExt)
	})
}

func (c *Converter) convertFile(ctx context.Context, file, inputRoot, outputRoot, errorDir, toExt string) error {
	log := logger.L(ctx)

	out, err := fileutil.MirrorPath(file, inputRoot, outputRoot)
	if err != nil {
		return err
	}
	outDir := filepath.Dir(out)
	if err := fileutil.EnsureDir(outDir); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("cannot create %s: %w", outDir, err)
		}
		log.Error("failed to create output directory", zap.String("dir", outDir), zap.Error(err))
		return nil
	}

	if err := c.runTexconv(ctx, file, outDir, toExt); err == nil {
		log.Debug("converted image", zap.String("file", file), zap.String("format", toExt))
		return nil
	} else {
		log.Debug("texconv failed, trying in-process conversion",
			zap.String("file", file), zap.Error(err))
	}

	target := replaceExt(out, toExt)
	if err := convertInProcess(file, target, toExt); err == nil {
		log.Debug("converted image in-process", zap.String("file", file), zap.String("format", toExt))
		return nil
	} else {
		log.Error("conversion failed, quarantining file", zap.String("file", file), zap.Error(err))
	}

	if err := quarantine(file, inputRoot, errorDir); err != nil {
		log.Error("failed to quarantine file", zap.String("file", file), zap.Error(err))
	}
	return nil
}

func (c *Converter) runTexconv(ctx context.Context, file, outDir, toExt string) error {
	bin := c.TexconvPath
	if bin == "" {
		bin = "texconv"
	}
	args := append(append([]string{}, c.Options...), "-ft", strings.ToLower(toExt), "-o", outDir, file)
	cmd := exec.CommandContext(ctx, bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w (%s)", bin, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func convertInProcess(file, target, toExt string) error {
	img, _, err := decodeImage(file)
	if err != nil {
		return err
	}
	format := strings.ToLower(toExt)
	if format == "jpg" {
		format = "jpeg"
	}
	return encodeImage(target, img, format)
}

func quarantine(file, inputRoot, errorDir string) error {
	dest, err := fileutil.MirrorPath(file, inputRoot, errorDir)
	if err != nil {
		return err
	}
	if err := fileutil.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}
	return copyFile(file, dest)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + strings.ToLower(ext)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, in)
	return err
}
