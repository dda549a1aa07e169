package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history [album-dir]",
		Short: "List past publish runs, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("publish history is disabled ([history] enabled = false)")
			}
			defer store.Close()

			albumPath := ""
			if !all {
				dir, err := albumDir(args)
				if err != nil {
					return err
				}
				albumPath = dir
			}

			runs, err := store.List(cmd.Context(), albumPath, limit)
			if err != nil {
				return err
			}
			if asJSON {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No publish runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				row := []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					string(run.Status),
					valueOrDash(run.Template),
					valueOrDash(run.Destination),
					strconv.Itoa(run.Images),
					strconv.Itoa(run.Copied),
					yesNo(run.Force),
					run.Duration().Round(time.Millisecond).String(),
				}
				if all {
					row = append([]string{run.AlbumPath}, row...)
				}
				rows = append(rows, row)
			}
			headers := []string{"Started", "Status", "Template", "Destination", "Images", "Copied", "Force", "Took"}
			if all {
				headers = append([]string{"Album"}, headers...)
			}
			fmt.Fprintln(out, renderTable(headers, rows, "Images", "Copied", "Took"))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&all, "all", false, "List runs for every album")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	return cmd
}
