// Command lifelog manages streaks, money, learning sections, attendance,
// daily habits and journal entries stored in a single JSON document.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifelog/internal/cli"
	"lifelog/internal/log"
)

var (
	// Global flags
	assumeYes bool
	asJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "lifelog",
	Short: "Track streaks, money, learning, attendance, habits and a journal",
	Long: `lifelog keeps every tracker in one JSON document in a key-value store.

Opening the document credits streak days that have elapsed and clears the
habit checklist when a new day has started.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		streakCmd(),
		moneyCmd(),
		learnCmd(),
		attendCmd(),
		habitCmd(),
		journalCmd(),
		dashboardCmd(),
		refreshCmd(),
		seedCmd(),
		exportCmd(),
		importCmd(),
		serveCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withRuntime bootstraps the store and session, runs fn and flushes the
// document before returning.
func withRuntime(fn func(cmd *cobra.Command, args []string, rt *cli.Runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cli.LoadEnvFile()
		logger := cli.SetupLogger(cmd.ErrOrStderr())

		cfg, err := cli.LoadAndValidateConfig(logger)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(log.NewContext(ctx, logger))

		rt, err := cli.Bootstrap(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Error("Failed to open trackers", log.FieldError, err)
			return err
		}
		runErr := fn(cmd, args, rt)
		if err := rt.Close(context.Background()); err != nil {
			logger.Error("Failed to save document", log.FieldError, err)
			if runErr == nil {
				runErr = err
			}
		}
		return runErr
	}
}

// confirm asks before destructive commands unless --yes was given.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	ok, err := cli.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt, assumeYes)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
	}
	return ok, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output prints v as JSON under --json, otherwise calls text.
func output(cmd *cobra.Command, v any, text func(w *tabwriter.Writer)) error {
	if asJSON {
		return printJSON(cmd.OutOrStdout(), v)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
