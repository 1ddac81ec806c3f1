package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifelog/internal/cli"
	"lifelog/internal/document"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summary of every tracker",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			d := rt.Session.Dashboard()
			return output(cmd, d, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Skills\t%d/%d tasks (%d%%)\n", d.Skills.Completed, d.Skills.Total, d.Skills.Percent)
				fmt.Fprintf(w, "Balance\t%s (income %s, expense %s, loan %s)\n", d.Money.Balance, d.Money.Income, d.Money.Expense, d.Money.Loan)
				fmt.Fprintf(w, "Streaks\t%d, longest %d days\n", d.Streaks, d.LongestStreak)
				fmt.Fprintf(w, "Attendance\t%d%%\n", d.Attendance)
				fmt.Fprintf(w, "Habits\t%d/%d today\n", d.Habits.Completed, d.Habits.Total)
				if d.LatestJournal != nil {
					fmt.Fprintf(w, "Journal\t%s %s\n", d.LatestJournal.Date, d.LatestJournal.Title)
				}
			})
		}),
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Credit elapsed streak days and run the habit daily reset",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			res := rt.Session.Refresh(cmd.Context())
			return output(cmd, res, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Streaks advanced\t%d\n", res.StreaksAdvanced)
				fmt.Fprintf(w, "Habits reset\t%t\n", res.HabitsReset)
			})
		}),
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all trackers with sample data",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			ok, err := confirm(cmd, "Replace every tracker with sample data?")
			if err != nil || !ok {
				return err
			}
			if err := rt.Session.Replace(cmd.Context(), document.Sample(rt.Session.Now())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Loaded sample data.")
			return nil
		}),
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole document as JSON",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			raw, err := document.Encode(rt.Session.Snapshot())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), raw)
				return err
			}
			if err := os.WriteFile(out, []byte(raw), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", out)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "file to write, stdout by default")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all trackers with a previously exported document (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			d, err := document.Decode(string(raw))
			if err != nil {
				return err
			}
			// stdin already holds the document, so a prompt cannot be answered.
			if args[0] != "-" {
				ok, err := confirm(cmd, "Replace every tracker with the imported document?")
				if err != nil || !ok {
					return err
				}
			} else if !assumeYes {
				return errors.New("importing from stdin requires --yes")
			}
			if err := rt.Session.Replace(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d streaks, %d transactions, %d journal entries.\n",
				len(d.Streaks), len(d.Money), len(d.Journal))
			return nil
		}),
	}
}
