package cmd

import (
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command
func NewSyncCmd(build containerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create the sprint branches in every configured repository",
		Long: `Create the sprint branches in every configured repository.

For each repository the command lists the existing branches once, then for
each configured branch:
- deletes the previous sprint branch when deletion was confirmed
- skips the branch with a warning when it already exists
- otherwise creates "<branch>-<suffixSprintNumber>" from branchFrom

Unless deleteBranches is set in the configuration, the command asks whether
existing branches should be deleted before any network call is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := build(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.logger.Sync() }()
			_, err = c.orchestrator(cmd).Execute(cmd.Context(), c.cfg)
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Log delete and create calls instead of sending them")
	cmd.Flags().String("match-mode", "exact", "How existing branches are matched: exact or substring")
	cmd.Flags().String("report-dir", "", "Directory to write the run report to")
	cmd.Flags().String("api-url", "", "GitHub Enterprise API base URL")
	cmd.Flags().Duration("timeout", 0, "Maximum duration of the remote calls (0 disables)")
	return cmd
}
