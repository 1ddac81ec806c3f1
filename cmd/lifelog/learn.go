package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifelog/internal/cli"
	"lifelog/internal/core"
)

func learnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Learning sections with task checklists",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sections and their tasks",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			learn := rt.Session.Learn()
			sections, progress := learn.List(), learn.Progress()
			v := map[string]any{"sections": sections, "progress": progress}
			return output(cmd, v, func(w *tabwriter.Writer) {
				for _, s := range sections {
					fmt.Fprintf(w, "%s\t%s\n", s.ID, s.Name)
					for _, t := range s.Tasks {
						fmt.Fprintf(w, "\t  %s %s %s\n", t.ID, check(t.Done), t.Task)
					}
				}
				fmt.Fprintf(w, "Skills\t%d/%d (%d%%)\n", progress.Completed, progress.Total, progress.Percent)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-section NAME...",
		Short: "Create a section",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			s, err := rt.Session.Learn().AddSection(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return output(cmd, s, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Created section %s %q\n", s.ID, s.Name)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-section SECTION",
		Short: "Remove a section and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete section %s and all its tasks?", id))
			if err != nil || !ok {
				return err
			}
			if err := rt.Session.Learn().DeleteSection(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted section %s\n", id)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-task SECTION TASK...",
		Short: "Append a task to a section",
		Args:  cobra.MinimumNArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			t, err := rt.Session.Learn().AddTask(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return output(cmd, t, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Added task %s %q\n", t.ID, t.Task)
			})
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle SECTION TASK",
		Short: "Flip a task between done and not done",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			sid, tid, err := sectionTask(args)
			if err != nil {
				return err
			}
			t, err := rt.Session.Learn().ToggleTask(cmd.Context(), sid, tid)
			if err != nil {
				return err
			}
			return output(cmd, t, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "%s %s\n", check(t.Done), t.Task)
			})
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete-task SECTION TASK",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			sid, tid, err := sectionTask(args)
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete task %s from section %s?", tid, sid))
			if err != nil || !ok {
				return err
			}
			if err := rt.Session.Learn().DeleteTask(cmd.Context(), sid, tid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", tid)
			return nil
		}),
	})
	return cmd
}

func sectionTask(args []string) (core.ID, core.ID, error) {
	sid, err := core.ParseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	tid, err := core.ParseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return sid, tid, nil
}
