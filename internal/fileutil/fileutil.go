package fileutil

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadText reads a file as text. UTF-8 content is returned as-is; anything
// else is decoded as Latin-1, and as a last resort invalid sequences are
// replaced. A readable file therefore never fails to decode.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
	}
	return string(decoded), nil
}

// WriteText writes text content to a file, creating parent directories.
func WriteText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// MirrorPath maps a file under inputRoot to the same relative location under
// outputRoot.
func MirrorPath(file, inputRoot, outputRoot string) (string, error) {
	rel, err := filepath.Rel(inputRoot, file)
	if err != nil {
		return "", fmt.Errorf("%s is not under %s: %w", file, inputRoot, err)
	}
	return filepath.Join(outputRoot, rel), nil
}

// EnsureDir creates a directory and its parents when missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// RemoveDir deletes a directory tree. A missing directory is not an error.
func RemoveDir(dir string) error {
	return os.RemoveAll(dir)
}

// Unzip extracts every .zip archive found under dir into outDir, keyed by
// the archive's first-level subdirectory so sibling archives do not clobber
// each other.
func Unzip(dir, outDir string) error {
	archives, err := listArchives(dir)
	if err != nil {
		return err
	}
	for _, archive := range archives {
		rel, err := filepath.Rel(dir, archive)
		if err != nil {
			return err
		}
		target := outDir
		if parts := strings.Split(rel, string(filepath.Separator)); len(parts) > 1 {
			target = filepath.Join(outDir, parts[0])
		}
		if err := extractArchive(archive, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", archive, err)
		}
	}
	return nil
}

func listArchives(dir string) ([]string, error) {
	var archives []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".zip") {
			archives = append(archives, path)
		}
		return nil
	})
	return archives, err
}

func extractArchive(archive, outDir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		dest := filepath.Join(outDir, f.Name)
		// Reject entries that escape the output directory.
		if !strings.HasPrefix(dest, filepath.Clean(outDir)+string(filepath.Separator)) {
			return fmt.Errorf("archive entry %q escapes output directory", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, src)
	return err
}
