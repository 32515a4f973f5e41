package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/triagekit/dupdetect/internal/corpus"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check an issues file for malformed entries",
	Long: `Validate reads an issues JSON file and reports how many entries are
well-formed, how many are open, and what is wrong with the rest. The command
exits non-zero if any entry is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	report, err := corpus.ValidateFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Entries: %d  Valid: %d  Open: %d\n", report.Total, report.Valid, report.Open)

	if len(report.Problems) == 0 {
		fmt.Fprintln(out, uniqueColor("OK"))
		return nil
	}

	warn := color.New(color.FgYellow).SprintFunc()
	for _, problem := range report.Problems {
		fmt.Fprintf(out, "  %s %s\n", warn("!"), problem)
	}
	return fmt.Errorf("%d invalid entries in %s", len(report.Problems), args[0])
}
