package cmd

import (
	"fmt"
	"runtime"

	"github.com/compozy/sprint-branches/internal/config"
	"github.com/compozy/sprint-branches/internal/logger"
	"github.com/compozy/sprint-branches/internal/orchestrator"
	"github.com/compozy/sprint-branches/internal/repository"
	"github.com/compozy/sprint-branches/internal/service"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// container holds all the dependencies for one command run.

type container struct {
	cfg    *config.Config
	logger *zap.Logger

	githubRepo repository.GithubRepository
	reportRepo repository.ReportRepository
	promptSvc  service.PromptService
}

// containerFactory builds the dependencies of a command; tests replace it.
type containerFactory func(cmd *cobra.Command) (*container, error)

// newContainer loads the configuration and creates every dependency it asks for.
func newContainer(cmd *cobra.Command) (*container, error) {
	cfg, err := config.LoadConfig(configOptions(cmd))
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if config.RuntimeBelowMinimum(runtime.Version()) {
		log.Warn("go runtime is older than the supported minimum",
			zap.String("runtime", runtime.Version()),
			zap.String("minimum", config.MinimumGoVersion))
	}

	githubRepo, err := repository.NewGithubRepository(cfg.Token, cfg.APIURL)
	if err != nil {
		return nil, err
	}
	if cfg.DryRun {
		githubRepo = repository.NewGithubDryRunRepository(githubRepo, log)
	}

	// Reports are only kept when a directory is configured
	var reportRepo repository.ReportRepository
	if cfg.ReportDir != "" {
		reportRepo = repository.NewJSONReportRepository(afero.NewOsFs(), cfg.ReportDir)
	}

	return &container{
		cfg:        cfg,
		logger:     log,
		githubRepo: githubRepo,
		reportRepo: reportRepo,
		promptSvc:  service.NewPromptService(cmd.InOrStdin(), cmd.OutOrStdout()),
	}, nil
}

// orchestrator creates the sprint branches orchestrator writing status to cmd's output.
func (c *container) orchestrator(cmd *cobra.Command) *orchestrator.SprintBranchesOrchestrator {
	return orchestrator.NewSprintBranchesOrchestrator(
		c.githubRepo,
		c.promptSvc,
		c.reportRepo,
		c.logger,
		cmd.OutOrStdout(),
	)
}

// configOptions collects the config file and flags of cmd for the loader.
func configOptions(cmd *cobra.Command) config.Options {
	opts := config.Options{Fs: afero.NewOsFs(), Flags: cmd.Flags()}
	if flag := cmd.Flags().Lookup("config"); flag != nil {
		opts.ConfigFile = flag.Value.String()
	}
	return opts
}
