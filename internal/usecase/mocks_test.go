package usecase

import (
	"context"

	"github.com/compozy/sprint-branches/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock for GithubRepository
type mockGithubRepository struct {
	mock.Mock
}

func (m *mockGithubRepository) ListBranchRefs(ctx context.Context, owner, repo string) ([]domain.BranchRef, error) {
	args := m.Called(ctx, owner, repo)
	if refs := args.Get(0); refs != nil {
		return refs.([]domain.BranchRef), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGithubRepository) DeleteBranchRef(ctx context.Context, owner, repo, branch string) error {
	args := m.Called(ctx, owner, repo, branch)
	return args.Error(0)
}

func (m *mockGithubRepository) CreateBranchRef(ctx context.Context, owner, repo, branch, sha string) error {
	args := m.Called(ctx, owner, repo, branch, sha)
	return args.Error(0)
}

// Mock for PromptService
type mockPromptService struct {
	mock.Mock
}

func (m *mockPromptService) Ask(ctx context.Context, question string) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

func (m *mockPromptService) Close() error {
	args := m.Called()
	return args.Error(0)
}
