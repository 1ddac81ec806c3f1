package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifelog/internal/cli"
	"lifelog/internal/core"
	"lifelog/internal/services"
)

func attendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attend",
		Aliases: []string{"attendance"},
		Short:   "Per-subject class attendance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects with attended/total classes",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			att := rt.Session.Attendance()
			subjects, overall := att.List(), att.Overall()
			v := map[string]any{"subjects": subjects, "overallPercent": overall}
			return output(cmd, v, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "ID\tSUBJECT\tATTENDED\tPERCENT")
				for _, s := range subjects {
					fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d%%\n", s.ID, s.Subject, s.Attended, s.Total, s.Percentage())
				}
				fmt.Fprintf(w, "\tOverall\t\t%d%%\n", overall)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add SUBJECT...",
		Short: "Track a subject, starting at 0/1",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			s, err := rt.Session.Attendance().Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return output(cmd, s, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Tracking %s %q\n", s.ID, s.Subject)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Stop tracking a subject",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete subject %s?", id))
			if err != nil || !ok {
				return err
			}
			if err := rt.Session.Attendance().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted subject %s\n", id)
			return nil
		}),
	})

	type action func(*services.AttendanceService, context.Context, core.ID) (core.Subject, error)
	for _, a := range []struct {
		use, short string
		fn         action
	}{
		{"hit ID", "Count a class as attended", (*services.AttendanceService).Attend},
		{"miss ID", "Take back one attended class", (*services.AttendanceService).Unattend},
		{"add-class ID", "Add a scheduled class", (*services.AttendanceService).AddClass},
		{"remove-class ID", "Remove a scheduled class", (*services.AttendanceService).RemoveClass},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   a.use,
			Short: a.short,
			Args:  cobra.ExactArgs(1),
			RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
				id, err := core.ParseID(args[0])
				if err != nil {
					return err
				}
				s, err := a.fn(rt.Session.Attendance(), cmd.Context(), id)
				if err != nil {
					return err
				}
				return output(cmd, s, func(w *tabwriter.Writer) {
					fmt.Fprintf(w, "%s\t%d/%d\t%d%%\n", s.Subject, s.Attended, s.Total, s.Percentage())
				})
			}),
		})
	}

	return cmd
}
