package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stalbanshc/clubfeed/internal/snapshot"
)

func newValidateCmd() *cobra.Command {
	var current, previous string
	var expectCount int

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate snapshot files before publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := snapshot.Validate(current, previous, expectCount)
			if err != nil {
				return err
			}

			if len(issues) > 0 {
				fmt.Fprintln(os.Stderr, "Snapshot validation failed:")
				for _, issue := range issues {
					fmt.Fprintf(os.Stderr, " - %s\n", issue)
				}
				return fmt.Errorf("snapshot validation failed with %d issue(s)", len(issues))
			}

			lines, err := successLines(current, previous)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Println(line)
			}
			return nil
		},
	}

	defaultCurrent := filepath.Join("data", "league", "teamData.json")
	cmd.Flags().StringVar(&current, "current", defaultCurrent, "Path to the current snapshot JSON")
	cmd.Flags().StringVar(&previous, "previous", snapshot.QualifiedPath(defaultCurrent, "prev"), "Path to the previous snapshot JSON")
	cmd.Flags().IntVar(&expectCount, "expect-count", 0, "Expected number of team entries; validation fails if counts differ")
	return cmd
}

// successLines builds the pass report: the current snapshot count, plus the
// previous snapshot's when one was checked.
func successLines(currentPath, previousPath string) ([]string, error) {
	records, err := snapshot.Read(currentPath)
	if err != nil {
		return nil, err
	}
	lines := []string{fmt.Sprintf("Snapshot validation passed for %s (%d teams).", currentPath, len(records))}

	if previousPath != "" {
		if previous, err := snapshot.Read(previousPath); err == nil {
			lines = append(lines, fmt.Sprintf("Previous snapshot %s looks consistent (%d teams).", previousPath, len(previous)))
		}
	}
	return lines, nil
}
