package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yingtu35/link-checker/internal/export"
	"github.com/yingtu35/link-checker/internal/linkcheck"
	"github.com/yingtu35/link-checker/internal/webscraper"
)

func newCheckCommand(a *app) *cobra.Command {
	var (
		internalOnly bool
		format       string
		outFile      string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate that every navigable link returns a successful status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.page.Goto(cmd.Context()); err != nil {
				return err
			}

			scope := ""
			var targets []webscraper.Target
			if internalOnly {
				scope = "internal"
				targets, err = s.page.InternalTargets()
			} else {
				targets, err = s.page.NavigableTargets()
			}
			if err != nil {
				return err
			}

			opts := a.cfg.CheckOptions()
			opts.Logger = a.logger
			checker := linkcheck.NewChecker(s.fetcher, linkcheck.RatePacer{}, opts)
			report := checker.Check(cmd.Context(), scope, targets)

			report.PrintSummary(cmd.OutOrStdout())

			if format != "" {
				exporter, err := export.New(export.Format(format))
				if err != nil {
					return err
				}
				path, err := exporter.Export(report, outFile)
				if err != nil {
					return err
				}
				a.logger.Info("Report exported", zap.String("path", path))
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			}

			return report.Err()
		},
	}

	cmd.Flags().BoolVar(&internalOnly, "internal-only", false, "validate internal links only, with the stricter internal filter")
	cmd.Flags().StringVar(&format, "export", "", "also write the report as json or csv")
	cmd.Flags().StringVar(&outFile, "out", "link-report", "export file name without extension")
	return cmd
}
