package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/export"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/importer"
)

// Config holds the batch settings of a Runner.
type Config struct {
	WorkerCount int    // Number of files analysed concurrently
	ExportDir   string // Directory for per-file workbooks; empty disables export
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{WorkerCount: 4}
}

// FileReport is the outcome of one input file.
type FileReport struct {
	Path       string
	RowErrors  []importer.RowError
	Result     domain.AnalysisResult
	ExportPath string
	Duration   time.Duration
	Err        error
}

// Runner analyses a batch of opname files independently of one another.
type Runner struct {
	engine *analysis.Engine
	cfg    Config
	now    func() time.Time
}

func NewRunner(engine *analysis.Engine, cfg Config) *Runner {
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &Runner{engine: engine, cfg: cfg, now: time.Now}
}

// Run processes files with a bounded worker pool. Reports come back in input
// order. A file that cannot be read is recorded on its report and does not
// stop the batch; failing to write an export does.
func (r *Runner) Run(ctx context.Context, files []string) ([]FileReport, error) {
	reports := make([]FileReport, len(files))
	if len(files) == 0 {
		return reports, nil
	}

	if r.cfg.ExportDir != "" {
		if err := os.MkdirAll(r.cfg.ExportDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create export dir: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.WorkerCount)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := r.processFile(file)
			reports[i] = report
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

func (r *Runner) processFile(file string) (FileReport, error) {
	start := time.Now()
	report := FileReport{Path: file}

	log.Info().Str("file", file).Msg("pipeline: processing file")

	parsed, err := importer.ParseFile(file)
	if err != nil {
		report.Err = err
		report.Duration = time.Since(start)
		log.Warn().Err(err).Str("file", file).Msg("pipeline: skipping unreadable file")
		return report, nil
	}
	report.RowErrors = parsed.Errors

	result, err := r.engine.Analyze(parsed.Products)
	if err != nil {
		log.Error().Err(err).Str("file", file).Msg("pipeline: analysis failed, using fallback result")
	}
	report.Result = result

	if r.cfg.ExportDir != "" {
		out, err := r.writeExport(file, result)
		if err != nil {
			report.Err = err
			return report, fmt.Errorf("export %s: %w", file, err)
		}
		report.ExportPath = out
	}

	report.Duration = time.Since(start)
	log.Info().
		Str("file", file).
		Int("products", len(parsed.Products)).
		Int("row_errors", len(parsed.Errors)).
		Dur("duration", report.Duration).
		Msg("pipeline: completed file")

	return report, nil
}

func (r *Runner) writeExport(file string, result domain.AnalysisResult) (string, error) {
	data, err := export.Bytes(result)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	out := filepath.Join(r.cfg.ExportDir, base+"_"+export.FileName(r.now()))

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}
