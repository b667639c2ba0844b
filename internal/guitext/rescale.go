package guitext

import (
	"context"

	"go.uber.org/zap"

	"github.com/modforge/uprez/internal/fileutil"
	"github.com/modforge/uprez/internal/logger"
)

// Outcome describes what happened to a single file during a rescale pass.
type Outcome int

const (
	// OutcomeUnchanged means no recognized attribute needed rewriting; the
	// file was not written.
	OutcomeUnchanged Outcome = iota
	// OutcomeWritten means the rescaled content was written under the
	// output root.
	OutcomeWritten
	// OutcomeFailed means the file could not be read or written.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeWritten:
		return "written"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the per-file outcome of a rescale pass.
type Result struct {
	File       string
	OutputPath string
	Outcome    Outcome
	Err        error
}

// RescaleFile reads one file, applies src to every recognized attribute and,
// only when the content changed, writes the result under outputRoot at the
// file's relative location under inputRoot. I/O failures are reported in the
// Result so callers can log and continue the batch.
func RescaleFile(ctx context.Context, file, inputRoot, outputRoot string, src FactorSource) Result {
	log := logger.L(ctx)

	content, err := fileutil.ReadText(file)
	if err != nil {
		log.Error("failed to read file", zap.String("file", file), zap.Error(err))
		return Result{File: file, Outcome: OutcomeFailed, Err: err}
	}

	scaled := ScaleContent(content, src)
	if scaled == content {
		log.Debug("no changes", zap.String("file", file))
		return Result{File: file, Outcome: OutcomeUnchanged}
	}

	out, err := fileutil.MirrorPath(file, inputRoot, outputRoot)
	if err != nil {
		log.Error("failed to resolve output path", zap.String("file", file), zap.Error(err))
		return Result{File: file, Outcome: OutcomeFailed, Err: err}
	}
	if err := fileutil.WriteText(out, scaled); err != nil {
		log.Error("failed to write file", zap.String("file", out), zap.Error(err))
		return Result{File: file, Outcome: OutcomeFailed, Err: err}
	}

	log.Debug("updated with scaled values", zap.String("file", file), zap.String("output", out))
	return Result{File: file, OutputPath: out, Outcome: OutcomeWritten}
}
