package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List templates available to publish",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.templateResolver()
			if err != nil {
				return err
			}
			summaries, err := resolver.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No templates found")
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{s.Name, valueOrDash(s.Description), s.Source})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Description", "Source"}, rows))
			return nil
		},
	}
}
