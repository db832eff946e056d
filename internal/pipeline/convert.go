package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/backmassage/djvu2cbz/internal/cbz"
	"github.com/backmassage/djvu2cbz/internal/display"
	"github.com/backmassage/djvu2cbz/internal/extract"
	"github.com/backmassage/djvu2cbz/internal/logging"
	"github.com/backmassage/djvu2cbz/internal/probe"
)

// Document-level failures.
var (
	ErrNoPagesExtracted = errors.New("no pages extracted")
	ErrConverterPanic   = errors.New("converter panic")
)

// PageCounter determines a document's page count.
type PageCounter interface {
	CountPages(ctx context.Context, doc string) probe.PageCount
}

// PageExtractor renders one page to a PNG file.
type PageExtractor interface {
	ExtractPage(ctx context.Context, doc string, page int, out string, quality int) (extract.Method, error)
}

// DocResult is the outcome of converting one document.
type DocResult struct {
	Job         Job
	Pages       int // Pages attempted.
	Extracted   int
	Reencoded   int
	CountSource probe.Source
	Archive     cbz.Info
	Elapsed     time.Duration
	Err         error
}

// OK reports whether the archive was written.
func (r DocResult) OK() bool { return r.Err == nil }

// Converter turns one document into one archive.
type Converter struct {
	Counter   PageCounter
	Extractor PageExtractor
	Quality   int
	TempDir   string // Parent of scratch areas; empty means the system default.
	Log       *logging.Logger
}

func (c *Converter) logger() *logging.Logger {
	if c.Log == nil {
		return logging.New(logging.Options{})
	}
	return c.Log
}

// PageName returns the scratch file name for page, zero-padded to width
// digits so that name order is page order.
func PageName(page, width int) string {
	return fmt.Sprintf("page_%0*d.png", width, page)
}

// pageWidth is the padding used for a document of count pages: at least
// four digits, more when the count needs them.
func pageWidth(count int) int {
	return max(4, len(strconv.Itoa(count)))
}

// Convert renders every page of job.Source into a private scratch area and
// archives what was extracted. Page failures leave gaps; the document only
// fails when nothing was extracted, the archive cannot be written, or ctx
// is canceled. The scratch area is removed on every path, including a
// recovered panic.
func (c *Converter) Convert(ctx context.Context, job Job) (res DocResult) {
	res.Job = job
	start := time.Now()
	log := c.logger().With("doc", filepath.Base(job.Source))

	scratch, err := os.MkdirTemp(c.TempDir, "djvu2cbz-*")
	if err != nil {
		res.Err = fmt.Errorf("create scratch area: %w", err)
		return res
	}
	log.Debug("Scratch area: %s", scratch)

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("%w: %v", ErrConverterPanic, r)
		}
		if err := os.RemoveAll(scratch); err != nil {
			log.Warn("Cannot remove scratch area %s: %v", scratch, err)
		}
		res.Elapsed = time.Since(start)
	}()

	count := c.Counter.CountPages(ctx, job.Source)
	res.Pages, res.CountSource = count.Pages, count.Source
	log.Info("Document has %s (%s)", display.Plural(count.Pages, "page"), count.Source)

	width := pageWidth(count.Pages)
	for page := 1; page <= count.Pages; page++ {
		if err := ctx.Err(); err != nil {
			res.Err = fmt.Errorf("interrupted at page %d: %w", page, err)
			return res
		}
		out := filepath.Join(scratch, PageName(page, width))
		method, err := c.Extractor.ExtractPage(ctx, job.Source, page, out, c.Quality)
		if err != nil {
			// Attempts past the real end are expected when the count is a guess.
			if count.Measured() {
				log.Warn("Failed to extract page %d: %v", page, err)
			} else {
				log.Debug("Failed to extract page %d: %v", page, err)
			}
			continue
		}
		res.Extracted++
		if method == extract.MethodSecondary {
			res.Reencoded++
			log.Debug("Page %d rendered via TIFF", page)
		}
	}

	if res.Extracted == 0 {
		if err := cbz.Discard(job.Archive); err != nil {
			log.Warn("Cannot remove stale archive: %v", err)
		}
		res.Err = ErrNoPagesExtracted
		return res
	}
	if failed := res.Pages - res.Extracted; failed > 0 {
		log.Warn("%s of %d could not be extracted", display.Plural(failed, "page"), res.Pages)
	}

	info, err := cbz.Write(ctx, job.Archive, scratch)
	if err != nil {
		res.Err = fmt.Errorf("write archive: %w", err)
		return res
	}
	res.Archive = info
	return res
}
