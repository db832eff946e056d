package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/djvu2cbz/internal/check"
	"github.com/backmassage/djvu2cbz/internal/config"
	"github.com/backmassage/djvu2cbz/internal/display"
	"github.com/backmassage/djvu2cbz/internal/djvulibre"
	"github.com/backmassage/djvu2cbz/internal/extract"
	"github.com/backmassage/djvu2cbz/internal/logging"
	"github.com/backmassage/djvu2cbz/internal/naming"
	"github.com/backmassage/djvu2cbz/internal/probe"
	"github.com/backmassage/djvu2cbz/internal/term"
	"github.com/backmassage/djvu2cbz/internal/tool"
)

// Batch-level precondition failures. No summary is produced for these.
var (
	ErrInputNotFound = errors.New("input directory not found")
	ErrNoDocuments   = errors.New("no DjVu documents found")
)

// DocConverter converts one job.
type DocConverter interface {
	Convert(ctx context.Context, job Job) DocResult
}

// Batch converts every document under the configured input root.
type Batch struct {
	cfg      *config.Config
	log      *logging.Logger
	conv     DocConverter
	progress io.Writer // Progress bar and spinner; drawn only when a terminal.
}

// NewBatch wires the counting, extraction and archive stages over the
// DjVuLibre tools invoked through r.
func NewBatch(cfg *config.Config, log *logging.Logger, r tool.Runner) *Batch {
	return &Batch{
		cfg:      cfg,
		log:      log,
		conv:     NewConverter(cfg, log, r),
		progress: os.Stderr,
	}
}

// NewConverter builds the per-document converter from cfg.
func NewConverter(cfg *config.Config, log *logging.Logger, r tool.Runner) *Converter {
	ddjvu := djvulibre.Ddjvu{Path: cfg.DdjvuPath, Runner: r, Timeout: cfg.ToolTimeout}
	djvused := djvulibre.Djvused{Path: cfg.DjvusedPath, Runner: r, Timeout: cfg.ToolTimeout}
	return &Converter{
		Counter: &probe.Counter{
			Script:       djvused,
			Lister:       ddjvu,
			DefaultPages: cfg.DefaultPageCount,
			Log:          log,
		},
		Extractor: &extract.Extractor{Renderer: ddjvu},
		Quality:   cfg.Quality,
		TempDir:   cfg.TempDir,
		Log:       log,
	}
}

// Run is the top-level batch entry point: check preconditions, discover
// documents, plan mirrored archive paths, then convert sequentially or
// with a bounded worker pool. Precondition failures are returned as
// errors; document failures are counted in the returned stats.
func (b *Batch) Run(ctx context.Context) (RunStats, error) {
	start := time.Now()
	cfg := b.cfg

	if fi, err := os.Stat(cfg.InputDir); err != nil || !fi.IsDir() {
		return RunStats{}, fmt.Errorf("%w: %s", ErrInputNotFound, cfg.InputDir)
	}

	outRoot := cfg.ResolvedOutputDir()
	if _, err := os.Stat(outRoot); errors.Is(err, os.ErrNotExist) {
		b.log.Info("Creating output directory: %s", outRoot)
	}
	if err := os.MkdirAll(outRoot, 0o755); err != nil {
		return RunStats{}, fmt.Errorf("create output directory: %w", err)
	}

	spin := display.NewSpinner(b.progress, "Searching for DjVu documents in "+cfg.InputDir, b.drawProgress())
	spin.Start()
	sources, err := Discover(cfg.InputDir)
	spin.Stop()
	if err != nil {
		return RunStats{}, fmt.Errorf("discover documents: %w", err)
	}
	for _, s := range sources {
		b.log.Debug("Found document: %s", s)
	}

	jobs, err := BuildJobs(cfg.InputDir, outRoot, sources, naming.NewCollisionResolver())
	if err != nil {
		return RunStats{}, err
	}
	if len(jobs) == 0 {
		return RunStats{}, fmt.Errorf("%w in %s", ErrNoDocuments, cfg.InputDir)
	}
	b.log.Info("Found %s to convert", display.Plural(len(jobs), "document"))

	if err := check.CheckDeps(cfg, b.log.Warn); err != nil {
		return RunStats{}, err
	}

	logBatchHeader(cfg, b.log, outRoot)

	if cfg.DryRun {
		for _, job := range jobs {
			b.log.Success("[DRY] %s -> %s", job.Source, job.Archive)
		}
		stats := RunStats{Total: len(jobs), NotStarted: len(jobs), DryRun: true, Elapsed: time.Since(start)}
		logSummary(b.log, &stats)
		return stats, nil
	}

	stats := b.convertAll(ctx, jobs)
	stats.Elapsed = time.Since(start)
	logSummary(b.log, &stats)
	return stats, nil
}

// convertAll runs every job and tallies results in completion order.
func (b *Batch) convertAll(ctx context.Context, jobs []Job) RunStats {
	var t tally
	bar := display.NewProgress(b.progress, len(jobs), b.drawProgress())

	runOne := func(job Job) {
		b.log.Info("Converting: %s -> %s", job.Source, job.Archive)
		res := b.conv.Convert(ctx, job)
		t.record(res)
		b.logResult(res)
		bar.Done(filepath.Base(job.Source))
	}

	if b.cfg.Parallel() {
		b.log.Info("Starting parallel conversion with %d workers", b.cfg.Workers)
		var g errgroup.Group
		g.SetLimit(b.cfg.Workers)
		for _, job := range jobs {
			if ctx.Err() != nil {
				break
			}
			job := job
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				runOne(job)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		b.log.Info("Starting sequential conversion")
		for _, job := range jobs {
			if ctx.Err() != nil {
				break
			}
			runOne(job)
		}
	}
	bar.Finish()

	if ctx.Err() != nil {
		b.log.Warn("Interrupted")
	}
	return t.stats(len(jobs), 0)
}

func (b *Batch) logResult(res DocResult) {
	name := filepath.Base(res.Job.Source)
	if !res.OK() {
		b.log.Error("Failed to convert %s: %v", name, res.Err)
		return
	}
	b.log.Success("Converted %s in %s: %s, %s",
		name,
		display.FormatElapsed(res.Elapsed),
		display.Plural(res.Archive.Entries, "page"),
		display.FormatBytes(res.Archive.Bytes))
}

func (b *Batch) drawProgress() bool {
	if !b.cfg.ShowProgress || b.cfg.Verbose {
		return false
	}
	f, ok := b.progress.(*os.File)
	return ok && term.IsTerminal(f)
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, outRoot string) {
	log.Info("Input: %s", cfg.InputDir)
	log.Info("Output: %s", outRoot)
	log.Info("Quality: %d, workers: %d", cfg.Quality, max(cfg.Workers, 1))
	log.Debug("Renderer: %s, script tool: %s, timeout: %s", cfg.DdjvuPath, cfg.DjvusedPath, cfg.ToolTimeout)
	if cfg.DryRun {
		log.Info("Dry run: no documents will be converted")
	}
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	if stats.DryRun {
		log.Info("Dry run: %s would be converted", display.Plural(stats.Total, "document"))
		return
	}

	line := fmt.Sprintf("Conversion completed. Successfully converted %d of %d", stats.Succeeded, stats.Total)
	if stats.AllConverted() {
		log.Success("%s", line)
	} else {
		log.Warn("%s", line)
	}
	if stats.Failed > 0 {
		log.Warn("  Failed: %d", stats.Failed)
	}
	if stats.NotStarted > 0 {
		log.Warn("  Not started (interrupted): %d", stats.NotStarted)
	}
	log.Info("  Pages archived: %d (%d via TIFF)", stats.Pages, stats.Reencoded)
	log.Info("  Archive size: %s", display.FormatBytes(stats.ArchiveBytes))
	log.Info("  Elapsed: %s", display.FormatElapsed(stats.Elapsed))
}
