package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lifelog/internal/cli"
	"lifelog/internal/core"
	"lifelog/internal/services"
)

func streakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "streak",
		Aliases: []string{"streaks"},
		Short:   "Day counters that grow by one every 24 hours",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List streaks with the time left until the next day is credited",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			views := rt.Session.Streaks().List()
			return output(cmd, views, func(w *tabwriter.Writer) {
				if len(views) == 0 {
					fmt.Fprintln(w, "No streaks yet.")
					return
				}
				fmt.Fprintln(w, "ID\tTITLE\tDAYS\tSTARTED\tNEXT DAY")
				for _, v := range views {
					printStreak(w, v)
				}
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "tick",
		Short: "Credit every day that has elapsed since the last increment",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			res := rt.Session.Refresh(cmd.Context())
			return output(cmd, res, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Credited %d streak days\n", res.StreaksAdvanced)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add TITLE...",
		Short: "Start a streak at day one",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			st, err := rt.Session.Streaks().Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return output(cmd, st, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Started streak %s %q\n", st.ID, st.Title)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename ID TITLE...",
		Short: "Change a streak's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			st, err := rt.Session.Streaks().Rename(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return output(cmd, st, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Renamed streak %s to %q\n", st.ID, st.Title)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset ID",
		Short: "Start a streak over from zero",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			v, err := rt.Session.Streaks().Get(id)
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, fmt.Sprintf("Reset %q after %d days?", v.Title, v.Count))
			if err != nil || !ok {
				return err
			}
			st, err := rt.Session.Streaks().Reset(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output(cmd, st, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Reset streak %s\n", st.ID)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Remove a streak",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			v, err := rt.Session.Streaks().Get(id)
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete streak %q?", v.Title))
			if err != nil || !ok {
				return err
			}
			if err := rt.Session.Streaks().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted streak %s\n", id)
			return nil
		}),
	})

	return cmd
}

func printStreak(w *tabwriter.Writer, v services.StreakView) {
	fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
		v.ID, v.Title, v.Count,
		v.StartDate.Format("2006-01-02"),
		humanize.Time(v.NextIncrement),
	)
}
