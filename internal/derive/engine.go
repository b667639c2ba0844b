// Package derive infers per-attribute scaling factors by comparing original
// UI files against previously scaled reference versions.
package derive

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/modforge/uprez/internal/fileutil"
	"github.com/modforge/uprez/internal/guitext"
	"github.com/modforge/uprez/internal/logger"
)

// FactorStore persists derivation results. Implemented by the sqlite store.
type FactorStore interface {
	SaveDerivation(ctx context.Context, path string, values *guitext.ValueSet, factors map[string]map[string]Stats) error
}

// Engine compares files and aggregates per-property scaling statistics.
// A nil store disables persistence.
type Engine struct {
	store FactorStore
}

// NewEngine returns an Engine writing to store.
func NewEngine(store FactorStore) *Engine {
	return &Engine{store: store}
}

// DeriveFile compares originalFile against each scaled reference version and
// returns per-resolution, per-property statistics, persisting them along
// with the original values. A missing original or reference file skips the
// whole triple with a warning; the batch is unaffected.
func (e *Engine) DeriveFile(ctx context.Context, originalFile string, scaled map[string]string) (map[string]map[string]Stats, error) {
	log := logger.L(ctx)

	paths := []string{originalFile}
	for _, p := range scaled {
		paths = append(paths, p)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			log.Warn("skipping file triple, version missing",
				zap.String("original", originalFile), zap.String("missing", p))
			return nil, nil
		}
	}

	content, err := fileutil.ReadText(originalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", originalFile, err)
	}
	original := guitext.ExtractValues(content)

	factors := make(map[string]map[string]Stats, len(scaled))
	for label, path := range scaled {
		scaledContent, err := fileutil.ReadText(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		factors[label] = Compare(original, guitext.ExtractValues(scaledContent))
	}

	if e.store != nil {
		if err := e.store.SaveDerivation(ctx, originalFile, original, factors); err != nil {
			return nil, fmt.Errorf("failed to persist factors for %s: %w", originalFile, err)
		}
	}

	log.Debug("derived scaling factors",
		zap.String("original", originalFile), zap.Int("properties", original.Len()))
	return factors, nil
}

// Compare derives per-property statistics from the position-wise ratios
// scaled/original. The pairing is purely ordinal: values are matched by
// index in first-occurrence order, and a property whose lists differ in
// length (or whose original values are all zero) yields empty Stats rather
// than an error. Misaligned edits between the two versions therefore
// produce wrong ratios silently.
func Compare(original, scaled *guitext.ValueSet) map[string]Stats {
	result := make(map[string]Stats)
	for _, prop := range original.Properties() {
		scaledValues := scaled.Values(prop)
		if scaledValues == nil {
			continue
		}
		originalValues := original.Values(prop)
		if len(originalValues) != len(scaledValues) {
			result[prop] = Stats{}
			continue
		}

		var ratios []float64
		for i, o := range originalValues {
			if o == 0 {
				continue
			}
			ratios = append(ratios, scaledValues[i]/o)
		}
		if len(ratios) == 0 {
			result[prop] = Stats{}
			continue
		}
		result[prop] = newStats(ratios)
	}
	return result
}
