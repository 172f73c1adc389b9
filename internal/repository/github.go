package repository

import (
	"context"

	"github.com/compozy/sprint-branches/internal/domain"
)

// GithubRepository defines the interface for GitHub branch ref operations.

type GithubRepository interface {
	// ListBranchRefs returns the refs under refs/heads in API order
	ListBranchRefs(ctx context.Context, owner, repo string) ([]domain.BranchRef, error)
	// DeleteBranchRef removes refs/heads/<branch>
	DeleteBranchRef(ctx context.Context, owner, repo, branch string) error
	// CreateBranchRef creates refs/heads/<branch> pointing at sha
	CreateBranchRef(ctx context.Context, owner, repo, branch, sha string) error
}
