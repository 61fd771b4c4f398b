package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "diagnose <hive>",
		Short: "Run a structural scan and report corruption findings",
		Long: `diagnose walks every reachable key and value in a hive,
reporting localized corruption it finds along the way (spec §4.9). A
diagnose exit status of 2 means at least one critical finding, 1 means
at least one error-level finding, 0 means clean or warnings only.

Example:
  regfcat diagnose SYSTEM
  regfcat diagnose SYSTEM --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), args[0])
		},
	})
}

func runDiagnose(ctx context.Context, path string) error {
	h, err := openHive(ctx, path)
	if err != nil {
		return fmt.Errorf("open hive: %w", err)
	}
	defer h.Close()

	report, err := h.Diagnose(ctx)
	if err != nil {
		return fmt.Errorf("diagnose: %w", err)
	}

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printInfo("%s", report.FormatText())
	}

	switch {
	case report.HasCriticalIssues():
		os.Exit(2)
	case report.Errors > 0:
		os.Exit(1)
	}
	return nil
}
