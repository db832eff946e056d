// Command djvu2cbz converts a tree of DjVu documents into CBZ comic
// archives, one archive per document, mirroring the input layout.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/djvu2cbz/internal/tool"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires OS signals into the root context and returns the exit code.
// SIGINT and SIGTERM cancel in-flight conversions; each document cleans up
// its own scratch area before the batch returns.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr, tool.ExecRunner{})
	return execute(ctx, a, args)
}
