package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifelog/internal/cli"
	"lifelog/internal/core"
)

func habitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "habit",
		Aliases: []string{"habits"},
		Short:   "Daily checklist cleared at the start of each day",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show today's checklist",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			habits := rt.Session.Habits()
			board, status := habits.Board(), habits.Status()
			v := map[string]any{"board": board, "status": status}
			return output(cmd, v, func(w *tabwriter.Writer) {
				for _, h := range board.Items {
					fmt.Fprintf(w, "%s\t%s %s\n", h.ID, check(h.Checked), h.Title)
				}
				fmt.Fprintf(w, "Done\t%d/%d (%d%%)\n", status.Progress.Completed, status.Progress.Total, status.Progress.Percent)
				fmt.Fprintf(w, "Day\t%d since start, %d hours left today\n", status.DaysSinceStart, status.HoursLeftToday)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a habit to the checklist",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			h, err := rt.Session.Habits().Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return output(cmd, h, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Added habit %s %q\n", h.ID, h.Title)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename ID TITLE...",
		Short: "Change a habit's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			h, err := rt.Session.Habits().Rename(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return output(cmd, h, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Renamed habit %s to %q\n", h.ID, h.Title)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle ID",
		Short: "Toggle a habit for today",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			h, err := rt.Session.Habits().Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output(cmd, h, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "%s %s\n", check(h.Checked), h.Title)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Remove a habit",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete habit %s?", id))
			if err != nil || !ok {
				return err
			}
			if err := rt.Session.Habits().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted habit %s\n", id)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset-date",
		Short: "Count days since start from today",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			ok, err := confirm(cmd, "Restart the habit start date from today?")
			if err != nil || !ok {
				return err
			}
			board, err := rt.Session.Habits().ResetStartDate(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, board, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Habits started %s\n", board.StartedAt.Format("2006-01-02"))
			})
		}),
	})

	return cmd
}
