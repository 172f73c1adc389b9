package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/compozy/sprint-branches/internal/config"
	"github.com/compozy/sprint-branches/internal/domain"
	"github.com/compozy/sprint-branches/internal/repository"
	"github.com/compozy/sprint-branches/internal/service"
	"github.com/compozy/sprint-branches/internal/usecase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SprintBranchesOrchestrator runs one sprint branch pass over every configured repository.
type SprintBranchesOrchestrator struct {
	githubRepo repository.GithubRepository
	promptSvc  service.PromptService
	reportRepo repository.ReportRepository
	logger     *zap.Logger
	out        io.Writer
	now        func() time.Time
	newRunID   func() string
}

// NewSprintBranchesOrchestrator creates a new sprint branches orchestrator.
// reportRepo may be nil, in which case no run report is written.
func NewSprintBranchesOrchestrator(
	githubRepo repository.GithubRepository,
	promptSvc service.PromptService,
	reportRepo repository.ReportRepository,
	logger *zap.Logger,
	out io.Writer,
) *SprintBranchesOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &SprintBranchesOrchestrator{
		githubRepo: githubRepo,
		promptSvc:  promptSvc,
		reportRepo: reportRepo,
		logger:     logger,
		out:        out,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// Execute resolves the delete intent, then walks repositories and branches in
// configured order. The first remote failure stops the run and is returned
// unchanged as a *domain.RemoteError.
func (o *SprintBranchesOrchestrator) Execute(ctx context.Context, cfg *config.Config) (*domain.RunReport, error) {
	start := o.now()
	report := domain.NewRunReport(o.newRunID(), cfg.Owner, start)
	report.DryRun = cfg.DryRun
	log := o.logger.With(zap.String("run_id", report.RunID))

	mode, err := domain.ParseMatchMode(cfg.MatchMode)
	if err != nil {
		return report, o.fail(ctx, log, report, err)
	}
	deleteExisting, err := o.resolveDeleteIntent(ctx, cfg)
	if err != nil {
		return report, o.fail(ctx, log, report, fmt.Errorf("failed to resolve delete intent: %w", err))
	}
	report.DeleteBranches = deleteExisting
	log.Debug("resolved delete intent", zap.Bool("delete_branches", deleteExisting))

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	fmt.Fprintf(o.out, "\nNumber of repositories: %d\n", len(cfg.Repositories))
	fmt.Fprintf(o.out, "Number of branches: %d\n\n", len(cfg.Branches))

	uc := &usecase.SyncRepositoryUseCase{GithubRepo: o.githubRepo, Logger: log, Now: o.now}
	for _, repo := range cfg.Repositories {
		records, err := uc.Execute(ctx, usecase.SyncRepositoryInput{
			Owner:          cfg.Owner,
			Repository:     repo,
			Branches:       cfg.Branches,
			BranchFrom:     cfg.BranchFrom,
			Suffix:         cfg.SuffixSprintNumber,
			PrevSuffix:     cfg.PrevSuffixSprintNumber,
			DeleteExisting: deleteExisting,
			MatchMode:      mode,
		})
		report.Record(records...)
		if err != nil {
			return report, o.fail(ctx, log, report, err)
		}
	}

	report.Complete(o.now())
	fmt.Fprintln(o.out, "\nDone!")
	fmt.Fprintf(o.out, "Created: %d, Deleted: %d, Skipped: %d\n",
		report.Count(domain.OperationTypeCreateRef),
		report.Count(domain.OperationTypeDeleteRef),
		report.Count(domain.OperationTypeSkipRef))
	fmt.Fprintf(o.out, "Execution time: %s\n", report.FinishedAt.Sub(start))
	o.saveReport(ctx, log, report)
	return report, nil
}

// resolveDeleteIntent uses the configured value when present and asks otherwise.
func (o *SprintBranchesOrchestrator) resolveDeleteIntent(ctx context.Context, cfg *config.Config) (bool, error) {
	if cfg.DeleteBranches != nil {
		if o.promptSvc != nil {
			if err := o.promptSvc.Close(); err != nil {
				o.logger.Warn("failed to close prompt", zap.Error(err))
			}
		}
		return *cfg.DeleteBranches, nil
	}
	if o.promptSvc == nil {
		return false, fmt.Errorf("no prompt available and deleteBranches is not configured")
	}
	uc := &usecase.ResolveDeleteIntentUseCase{Prompt: o.promptSvc}
	return uc.Execute(ctx)
}

func (o *SprintBranchesOrchestrator) fail(
	ctx context.Context,
	log *zap.Logger,
	report *domain.RunReport,
	err error,
) error {
	report.Fail(o.now(), err)
	log.Debug("run failed", zap.Error(err))
	o.saveReport(ctx, log, report)
	return err
}

// saveReport writes the report when a store is configured. Failures are logged,
// never returned, so they cannot mask the outcome of the run.
func (o *SprintBranchesOrchestrator) saveReport(ctx context.Context, log *zap.Logger, report *domain.RunReport) {
	if o.reportRepo == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ReportSaveTimeout)
	defer cancel()
	if err := o.reportRepo.Save(saveCtx, report); err != nil {
		log.Warn("failed to save run report", zap.Error(err))
		return
	}
	log.Debug("saved run report", zap.String("status", string(report.Status)))
}
