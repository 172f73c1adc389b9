package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/compozy/sprint-branches/internal/config"
	"github.com/compozy/sprint-branches/internal/domain"
	"github.com/compozy/sprint-branches/internal/repository"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	return newReportCmd(afero.NewOsFs())
}

func newReportCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the report of the latest sync run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := configOptions(cmd)
			opts.Fs = fs
			settings, err := config.LoadSettings(opts)
			if err != nil {
				return err
			}
			if strings.TrimSpace(settings.ReportDir) == "" {
				return &config.ValidationError{
					Field:   "reportDir",
					Message: "sync only writes run reports when reportDir is set; set it or pass --report-dir",
				}
			}
			report, err := repository.NewJSONReportRepository(fs, settings.ReportDir).LoadLatest(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load run report: %w", err)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().String("report-dir", "", "Directory the run reports are written to")
	return cmd
}

func printReport(out io.Writer, report *domain.RunReport) {
	fmt.Fprintf(out, "Run:\t%s\n", report.RunID)
	fmt.Fprintf(out, "Owner:\t%s\n", report.Owner)
	fmt.Fprintf(out, "Status:\t%s\n", report.Status)
	fmt.Fprintf(out, "Started:\t%s\n", report.StartedAt.Format(time.RFC3339))
	if report.FinishedAt != nil {
		fmt.Fprintf(out, "Finished:\t%s\n", report.FinishedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(out, "Delete branches:\t%t\n", report.DeleteBranches)
	fmt.Fprintf(out, "Dry run:\t%t\n", report.DryRun)
	if report.Error != "" {
		fmt.Fprintf(out, "Error:\t%s\n", report.Error)
	}
	for _, op := range report.Operations {
		line := fmt.Sprintf("  %-10s %-9s %s", op.Type, op.Status, op.Repository)
		if op.Branch != "" {
			line += " " + op.Branch
		}
		if op.SHA != "" {
			line += " @" + op.SHA
		}
		if op.Error != "" {
			line += ": " + op.Error
		}
		fmt.Fprintln(out, line)
	}
}
