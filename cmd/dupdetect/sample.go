package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triagekit/dupdetect/internal/corpus"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write sample issue files for trying out the detector",
	Long: `Sample writes example JSON files in the formats check and similar expect:
an existing-issues corpus and a batch of new issues. The samples include a
near-duplicate pair so a first run shows both outcomes.`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().String("existing", "", "Path for the sample existing-issues file")
	sampleCmd.Flags().String("new", "", "Path for the sample new-issues file")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	existingPath, _ := cmd.Flags().GetString("existing")
	newPath, _ := cmd.Flags().GetString("new")
	if existingPath == "" && newPath == "" {
		return fmt.Errorf("nothing to write: pass --existing and/or --new")
	}

	if existingPath != "" {
		if err := corpus.WriteSampleIssuesFile(existingPath); err != nil {
			return err
		}
		fmt.Printf("Sample existing issues written to %s\n", existingPath)
	}
	if newPath != "" {
		if err := corpus.WriteSampleNewIssuesFile(newPath); err != nil {
			return err
		}
		fmt.Printf("Sample new issues written to %s\n", newPath)
	}
	return nil
}
