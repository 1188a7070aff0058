package main

import (
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

func newLinksCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "List every link on the page with its classification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.page.Goto(cmd.Context()); err != nil {
				return err
			}

			details, err := s.page.GetLinkDetails()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tbl := table.New("#", "Text", "URL", "External").WithWriter(out)
			internal := 0
			for i, d := range details {
				text := d.Text
				if text == "" {
					text = "(no text)"
				}
				tbl.AddRow(i+1, text, d.URL, d.IsExternal)
				if !d.IsExternal {
					internal++
				}
			}
			tbl.Print()

			fmt.Fprintf(out, "\nTotal links: %d\n", len(details))
			fmt.Fprintf(out, "Internal links: %d\n", internal)
			fmt.Fprintf(out, "External links: %d\n", len(details)-internal)
			return nil
		},
	}
}
