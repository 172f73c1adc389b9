package repository

import (
	"context"

	"github.com/compozy/sprint-branches/internal/domain"
	"go.uber.org/zap"
)

// githubDryRunRepository reads through to the wrapped repository and only logs writes.
type githubDryRunRepository struct {
	delegate GithubRepository
	logger   *zap.Logger
}

// NewGithubDryRunRepository wraps delegate so that deletes and creates are logged, not sent.
func NewGithubDryRunRepository(delegate GithubRepository, logger *zap.Logger) GithubRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &githubDryRunRepository{delegate: delegate, logger: logger}
}

func (r *githubDryRunRepository) ListBranchRefs(
	ctx context.Context,
	owner, repo string,
) ([]domain.BranchRef, error) {
	return r.delegate.ListBranchRefs(ctx, owner, repo)
}

func (r *githubDryRunRepository) DeleteBranchRef(_ context.Context, owner, repo, branch string) error {
	r.logger.Info("dry-run: would delete branch",
		zap.String("owner", owner), zap.String("repository", repo), zap.String("branch", branch))
	return nil
}

func (r *githubDryRunRepository) CreateBranchRef(_ context.Context, owner, repo, branch, sha string) error {
	r.logger.Info("dry-run: would create branch",
		zap.String("owner", owner), zap.String("repository", repo),
		zap.String("branch", branch), zap.String("sha", sha))
	return nil
}
