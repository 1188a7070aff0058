package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLoadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Open the page and verify it loads with a title",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.page.Goto(cmd.Context()); err != nil {
				return err
			}
			if !s.page.IsLoaded() {
				return errors.New("page did not finish loading")
			}

			title, err := s.page.Title()
			if err != nil {
				return fmt.Errorf("read title: %w", err)
			}
			a.logger.Info("Page loaded", zap.String("title", title))
			if title == "" {
				return errors.New("page has an empty title")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Page title: %s\n", title)
			return nil
		},
	}
}
