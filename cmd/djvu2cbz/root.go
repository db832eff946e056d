package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/backmassage/djvu2cbz/internal/config"
	"github.com/backmassage/djvu2cbz/internal/display"
	"github.com/backmassage/djvu2cbz/internal/logging"
	"github.com/backmassage/djvu2cbz/internal/pipeline"
	"github.com/backmassage/djvu2cbz/internal/tool"
)

// app carries the process-level dependencies shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer
	runner tool.Runner
	exit   int // Set by commands that finish but must report failure.
}

func newApp(stdout, stderr io.Writer, r tool.Runner) *app {
	return &app{stdout: stdout, stderr: stderr, runner: r}
}

// execute runs the command tree and maps the outcome to an exit code:
// 0 when everything requested was done (or there was nothing to do), 1 on
// a usage or precondition error or when any document failed.
func execute(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "djvu2cbz: %v\n", err)
		return 1
	}
	return a.exit
}

func newRootCmd(a *app) *cobra.Command {
	var flags *config.Flags
	cmd := &cobra.Command{
		Use:   "djvu2cbz [flags] <input_dir>",
		Short: "Convert DjVu documents to CBZ archives",
		Long: `djvu2cbz walks an input directory, renders every page of each .djvu/.djv
document with DjVuLibre's ddjvu, and packs the pages into a .cbz archive at
the mirrored location under the output directory (the input directory by
default). Archives are suitable for comic servers such as Komga.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), flags, args[0])
			if err != nil {
				return err
			}
			return a.convert(cmd.Context(), &cfg)
		},
	}
	flags = config.RegisterFlags(cmd.Flags())
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newCheckCmd(a), newInspectCmd(a), newVersionCmd(a))
	return cmd
}

// convert runs one batch. Precondition failures are logged and set the
// exit code; an empty input tree is only a warning.
func (a *app) convert(ctx context.Context, cfg *config.Config) error {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(a.stdout)
	log.Info("=== djvu2cbz v%s ===", version)
	log.Debug("Run ID: %s", log.RunID())

	stats, err := pipeline.NewBatch(cfg, log, a.runner).Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrNoDocuments):
		log.Warn("%v", err)
		return nil
	case err != nil:
		log.Error("%v", err)
		a.exit = 1
		return nil
	}

	if !stats.DryRun && !stats.AllConverted() {
		a.exit = 1
	}
	return nil
}
