package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifelog/internal/cli"
	"lifelog/internal/core"
)

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "One entry per day",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			entries := rt.Session.Journal().List()
			return output(cmd, entries, func(w *tabwriter.Writer) {
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%s\n", e.Date, e.Title)
				}
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "latest",
		Short: "Print the most recent entry",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			e, err := rt.Session.Journal().Latest()
			if err != nil {
				return err
			}
			return output(cmd, e, func(w *tabwriter.Writer) { printEntry(w, e) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [DATE]",
		Short: "Print the entry for DATE (YYYY-MM-DD), today by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			j := rt.Session.Journal()
			date := j.Today()
			if len(args) == 1 {
				date = args[0]
			}
			e, err := j.Get(date)
			if err != nil {
				return err
			}
			return output(cmd, e, func(w *tabwriter.Writer) { printEntry(w, e) })
		}),
	})

	var date, title string
	write := &cobra.Command{
		Use:   "write [TEXT...]",
		Short: "Create or replace an entry; text is read from stdin when omitted",
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			j := rt.Session.Journal()
			if date == "" {
				date = j.Today()
			}
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read entry: %w", err)
				}
				text = string(raw)
			}
			e, err := j.Write(cmd.Context(), date, title, text)
			if err != nil {
				return err
			}
			return output(cmd, e, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Saved entry for %s\n", e.Date)
			})
		}),
	}
	write.Flags().StringVarP(&date, "date", "d", "", "entry date (YYYY-MM-DD), today by default")
	write.Flags().StringVarP(&title, "title", "t", "", "entry title")
	cmd.AddCommand(write)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete DATE",
		Short: "Remove the entry for DATE",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			ok, err := confirm(cmd, fmt.Sprintf("Delete the journal entry for %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := rt.Session.Journal().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry for %s\n", args[0])
			return nil
		}),
	})

	return cmd
}

func printEntry(w io.Writer, e core.JournalEntry) {
	fmt.Fprintf(w, "%s  %s\n\n%s\n", e.Date, e.Title, e.Text)
}
