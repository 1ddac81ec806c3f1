package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lifelog/internal/cli"
	"lifelog/internal/core"
)

type transactionFlags struct {
	amount   string
	category string
	kind     string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 12.50")
	cmd.Flags().StringVarP(&f.category, "category", "c", string(core.CategoryOthers), "food, academics, clothes, travel or others")
	cmd.Flags().StringVarP(&f.kind, "type", "t", string(core.KindExpense), "income, expense or loan")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *transactionFlags) input(title string) (core.TransactionInput, error) {
	amount, err := core.ParseAmount(f.amount)
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Title:    title,
		Amount:   amount,
		Category: core.Category(f.category),
		Kind:     core.Kind(f.kind),
	}, nil
}

func moneyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "money",
		Short: "Income, expenses and loans",
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first, with totals",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			c := core.Category(category)
			if c != "" && !c.Valid() {
				return fmt.Errorf("%w: %q", core.ErrInvalidCategory, category)
			}
			money := rt.Session.Money()
			txs, totals := money.List(c), money.Totals()
			v := map[string]any{"transactions": txs, "totals": totals}
			return output(cmd, v, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "ID\tTITLE\tAMOUNT\tCATEGORY\tTYPE\tWHEN")
				for _, tx := range txs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						tx.ID, tx.Title, tx.Amount, tx.Category, tx.Kind, humanize.Time(tx.Date))
				}
				fmt.Fprintln(w)
				printTotals(w, totals)
			})
		}),
	}
	list.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:     "balance",
		Aliases: []string{"totals"},
		Short:   "Show income, expense, loan and balance",
		Args:    cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
			totals := rt.Session.Money().Totals()
			return output(cmd, totals, func(w *tabwriter.Writer) { printTotals(w, totals) })
		}),
	})

	var addFlags transactionFlags
	add := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Record a transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			in, err := addFlags.input(strings.Join(args, " "))
			if err != nil {
				return err
			}
			tx, err := rt.Session.Money().Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			return output(cmd, tx, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Recorded %s %s %q (%s)\n", tx.Kind, tx.Amount, tx.Title, tx.Category)
			})
		}),
	}
	addFlags.register(add)
	cmd.AddCommand(add)

	var editFlags transactionFlags
	edit := &cobra.Command{
		Use:   "edit ID TITLE...",
		Short: "Replace a transaction's fields, keeping its date",
		Args:  cobra.MinimumNArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			in, err := editFlags.input(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			tx, err := rt.Session.Money().Edit(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return output(cmd, tx, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Updated transaction %s\n", tx.ID)
			})
		}),
	}
	editFlags.register(edit)
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Remove a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *cli.Runtime) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			tx, err := rt.Session.Money().Get(id)
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete %s %q?", tx.Amount, tx.Title))
			if err != nil || !ok {
				return err
			}
			if err := rt.Session.Money().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", id)
			return nil
		}),
	})

	return cmd
}

func printTotals(w *tabwriter.Writer, t core.Totals) {
	fmt.Fprintf(w, "Income\t%s\n", t.Income)
	fmt.Fprintf(w, "Expense\t%s\n", t.Expense)
	fmt.Fprintf(w, "Loan\t%s\n", t.Loan)
	fmt.Fprintf(w, "Balance\t%s\n", t.Balance)
}
