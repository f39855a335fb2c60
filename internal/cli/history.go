package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/elfscript/fireplace/internal/history"
)

func newHistoryCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the answers recorded by esb run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cmd.Context(), a.cfg.History)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				a.warn("No runs recorded yet")
				return nil
			}
			t := table.New().
				Headers("WHEN", "PART", "ANSWER", "TIME", "COMMAND").
				Rows(lo.Map(runs, func(r history.Run, _ int) []string {
					took := "-"
					if r.HasRunningTime {
						took = r.Elapsed().String()
					}
					return []string{
						r.At.Local().Format(time.DateTime),
						r.Part.String(),
						strings.ReplaceAll(r.Answer, "\n", "⏎"),
						took,
						r.Command,
					}
				})...)
			fmt.Fprintln(a.stdout, t.Render())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show; 0 shows all")
	return cmd
}
