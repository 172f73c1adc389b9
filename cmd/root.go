package cmd

import (
	"context"

	"github.com/compozy/sprint-branches/internal/config"
	"github.com/compozy/sprint-branches/pkg/version"
	"github.com/spf13/cobra"
)

const (
	// ExitCodeFailure is returned for remote and other runtime failures
	ExitCodeFailure = 1
	// ExitCodeInvalidConfig is returned when the configuration fails validation
	ExitCodeInvalidConfig = 2
)

var rootCmd = &cobra.Command{
	Use:   "sprint-branches",
	Short: "Create and delete sprint branches across GitHub repositories",
	Long: `sprint-branches prepares the branches of a new sprint in every configured
repository, creating each branch from a common source branch and optionally
deleting the branches of the previous sprint.`,
	Version:       version.Summary(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// InitCommands registers the global flags and all subcommands
func InitCommands() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to the configuration file (JSON or YAML)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "console", "Log format: console or structured")
	rootCmd.AddCommand(NewSyncCmd(newContainer))
	rootCmd.AddCommand(NewReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// Execute runs the root command with ctx as the parent of every command context
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps a command error onto the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case config.IsValidationError(err):
		return ExitCodeInvalidConfig
	default:
		return ExitCodeFailure
	}
}
