package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/djvu2cbz/internal/check"
	"github.com/backmassage/djvu2cbz/internal/config"
	"github.com/backmassage/djvu2cbz/internal/logging"
)

func newCheckCmd(a *app) *cobra.Command {
	var flags *config.Flags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether the DjVuLibre tools and scratch directory are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), flags, "")
			if err != nil {
				return err
			}
			log, err := logging.NewLogger(&cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			if problems := check.RunCheck(cmd.Context(), &cfg, log, a.runner); problems > 0 {
				log.Warn("%d problem(s) found", problems)
				a.exit = 1
			}
			return nil
		},
	}
	flags = config.RegisterFlags(cmd.Flags())
	return cmd
}
