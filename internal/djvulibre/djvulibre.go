package djvulibre

import (
	"context"
	"fmt"
	"time"

	"github.com/backmassage/djvu2cbz/internal/tool"
)

// Djvused runs the djvused script evaluator.
type Djvused struct {
	Path    string
	Runner  tool.Runner
	Timeout time.Duration // Per call; 0 disables.
}

// QueryPageCount asks djvused for the document's page count. The count is
// only trusted when the tool exits 0 and prints a bare integer.
func (d Djvused) QueryPageCount(ctx context.Context, doc string) (int, error) {
	res, err := tool.Run(ctx, runner(d.Runner), d.Timeout, d.Path, PageCountArgs(doc)...)
	if err != nil {
		return 0, withStderr(err, res)
	}
	n, err := ParsePageCount(res.Stdout)
	if err != nil {
		return 0, fmt.Errorf("djvused %s: %w", doc, err)
	}
	return n, nil
}

// Ddjvu runs the ddjvu renderer.
type Ddjvu struct {
	Path    string
	Runner  tool.Runner
	Timeout time.Duration // Per call; 0 disables.
}

// ListPages runs ddjvu -l and returns the number of page lines it printed.
func (d Ddjvu) ListPages(ctx context.Context, doc string) (int, error) {
	res, err := tool.Run(ctx, runner(d.Runner), d.Timeout, d.Path, ListArgs(doc)...)
	if err != nil {
		return 0, withStderr(err, res)
	}
	return CountPageMarkers(res.Stdout), nil
}

// RenderPage renders one page to req.Out. A nil error only means the tool
// exited 0; callers must check that req.Out exists.
func (d Ddjvu) RenderPage(ctx context.Context, req RenderRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	res, err := tool.Run(ctx, runner(d.Runner), d.Timeout, d.Path, RenderArgs(req)...)
	if err != nil {
		return withStderr(err, res)
	}
	return nil
}

// Command returns the command line for req, for debug logs.
func (d Ddjvu) Command(req RenderRequest) string {
	return tool.Describe(d.Path, RenderArgs(req)...)
}

func runner(r tool.Runner) tool.Runner {
	if r == nil {
		return tool.ExecRunner{}
	}
	return r
}

func withStderr(err error, res tool.Result) error {
	if tail := res.StderrTail(); tail != "" {
		return fmt.Errorf("%w: %s", err, tail)
	}
	return err
}
