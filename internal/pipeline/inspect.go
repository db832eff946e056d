package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/backmassage/djvu2cbz/internal/cbz"
	"github.com/backmassage/djvu2cbz/internal/config"
	"github.com/backmassage/djvu2cbz/internal/display"
	"github.com/backmassage/djvu2cbz/internal/logging"
	"github.com/backmassage/djvu2cbz/internal/naming"
	"github.com/backmassage/djvu2cbz/internal/probe"
	"github.com/backmassage/djvu2cbz/internal/term"
)

// docRow holds the per-document data for the inspect table.
type docRow struct {
	Name     string
	Pages    int
	Source   probe.Source
	Archive  string
	Archived int // Entries in the existing archive, -1 when there is none.
}

// InspectReport summarizes an inspect run.
type InspectReport struct {
	Documents int
	Measured  int // Counts from the script or listing.
	Guessed   int // Counts from the fallback default.
	Archived  int // Documents whose archive already exists.
}

// Inspect discovers documents under cfg.InputDir, counts each one's pages
// without rendering anything, and prints a table to w showing the count,
// the strategy that produced it, and any archive already at the mirrored
// output path.
func Inspect(ctx context.Context, cfg *config.Config, log *logging.Logger, counter PageCounter, w io.Writer) (InspectReport, error) {
	var rep InspectReport
	if fi, err := os.Stat(cfg.InputDir); err != nil || !fi.IsDir() {
		return rep, fmt.Errorf("%w: %s", ErrInputNotFound, cfg.InputDir)
	}

	files, err := Discover(cfg.InputDir)
	if err != nil {
		return rep, fmt.Errorf("discover documents: %w", err)
	}
	if len(files) == 0 {
		return rep, fmt.Errorf("%w in %s", ErrNoDocuments, cfg.InputDir)
	}
	log.Info("Inspecting %s in %s", display.Plural(len(files), "document"), cfg.InputDir)

	outRoot := cfg.ResolvedOutputDir()
	resolver := naming.NewCollisionResolver()
	var rows []docRow
	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		count := counter.CountPages(ctx, path)
		row := docRow{Name: relName(cfg.InputDir, path), Pages: count.Pages, Source: count.Source, Archived: -1}

		if archive, err := naming.ArchivePath(cfg.InputDir, outRoot, path); err == nil {
			row.Archive = resolver.Resolve(path, archive)
			if entries, err := cbz.Entries(row.Archive); err == nil {
				row.Archived = len(entries)
				rep.Archived++
			}
		}

		rows = append(rows, row)
		rep.Documents++
		if count.Measured() {
			rep.Measured++
		} else {
			rep.Guessed++
		}
	}

	printInspectTable(w, rows)
	printInspectSummary(log, rep)
	return rep, nil
}

func relName(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return filepath.Base(path)
}

func printInspectTable(w io.Writer, rows []docRow) {
	nameW := len("Document")
	for _, r := range rows {
		nameW = max(nameW, len(r.Name))
	}
	limit := 60
	if f, ok := w.(*os.File); ok {
		limit = max(20, term.Width(f, 90)-30)
	}
	nameW = min(nameW, limit)

	header := fmt.Sprintf("  %-*s  %6s  %-8s  %s", nameW, "Document", "Pages", "Counted", "Archive")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2))

	for _, r := range rows {
		name := r.Name
		if len(name) > nameW {
			name = name[:nameW-1] + "…"
		}
		// Pad the plain text first, then color, so escapes don't skew widths.
		source := fmt.Sprintf("%-8s", r.Source)
		if r.Source == probe.SourceDefault {
			source = term.Yellow.Sprint(source)
		}
		archived := "-"
		if r.Archived >= 0 {
			archived = strconv.Itoa(r.Archived) + " pages"
			if r.Source != probe.SourceDefault && r.Archived < r.Pages {
				archived = term.Yellow.Sprint(archived + " (incomplete)")
			}
		}
		fmt.Fprintf(w, "  %-*s  %6d  %s  %s\n", nameW, name, r.Pages, source, archived)
	}
	fmt.Fprintln(w)
}

func printInspectSummary(log *logging.Logger, rep InspectReport) {
	log.Info("Inspected %s", display.Plural(rep.Documents, "document"))
	log.Info("  Page counts measured: %d", rep.Measured)
	if rep.Guessed > 0 {
		log.Warn("  Page counts guessed (default): %d", rep.Guessed)
	}
	log.Info("  Archives already present: %d", rep.Archived)
}
