package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/backmassage/djvu2cbz/internal/config"
	"github.com/backmassage/djvu2cbz/internal/logging"
	"github.com/backmassage/djvu2cbz/internal/pipeline"
)

func newInspectCmd(a *app) *cobra.Command {
	var flags *config.Flags
	cmd := &cobra.Command{
		Use:   "inspect [flags] <input_dir>",
		Short: "List documents with their page counts and any existing archives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), flags, args[0])
			if err != nil {
				return err
			}
			log, err := logging.NewLogger(&cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			counter := pipeline.NewConverter(&cfg, log, a.runner).Counter
			_, err = pipeline.Inspect(cmd.Context(), &cfg, log, counter, a.stdout)
			switch {
			case errors.Is(err, pipeline.ErrNoDocuments):
				log.Warn("%v", err)
			case err != nil:
				log.Error("%v", err)
				a.exit = 1
			}
			return nil
		},
	}
	flags = config.RegisterFlags(cmd.Flags())
	return cmd
}
