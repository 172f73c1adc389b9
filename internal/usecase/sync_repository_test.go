package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/compozy/sprint-branches/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newSyncUseCase(repo *mockGithubRepository) (*SyncRepositoryUseCase, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	fixed := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	return &SyncRepositoryUseCase{
		GithubRepo: repo,
		Logger:     zap.New(core),
		Now:        func() time.Time { return fixed },
	}, logs
}

func baseInput() SyncRepositoryInput {
	return SyncRepositoryInput{
		Owner:      "acme",
		Repository: "web",
		Branches:   []string{"qa"},
		BranchFrom: "develop",
		Suffix:     "12",
		PrevSuffix: "11",
		MatchMode:  domain.MatchModeExact,
	}
}

func TestSyncRepositoryUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create the suffixed branch from the source sha", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, logs := newSyncUseCase(repo)
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("main", "fff000"),
			domain.NewBranchRef("develop", "abc123"),
		}, nil).Once()
		repo.On("CreateBranchRef", ctx, "acme", "web", "qa-12", "abc123").Return(nil).Once()

		records, err := uc.Execute(ctx, baseInput())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, domain.OperationTypeListRefs, records[0].Type)
		assert.Equal(t, domain.OperationTypeCreateRef, records[1].Type)
		assert.Equal(t, "qa-12", records[1].Branch)
		assert.Equal(t, "abc123", records[1].SHA)
		assert.Equal(t, domain.OperationStatusCompleted, records[1].Status)
		assert.Equal(t, 1, logs.FilterMessage("created branch").Len())
		repo.AssertExpectations(t)
	})

	t.Run("Should use the bare branch name without a suffix", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		in := baseInput()
		in.Suffix = ""
		repo.On("ListBranchRefs", ctx, "acme", "web").
			Return([]domain.BranchRef{domain.NewBranchRef("develop", "abc123")}, nil).Once()
		repo.On("CreateBranchRef", ctx, "acme", "web", "qa", "abc123").Return(nil).Once()

		_, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Should warn and skip when the branch exists and deletion is off", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, logs := newSyncUseCase(repo)
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("develop", "abc123"),
			domain.NewBranchRef("qa-11", "def456"),
		}, nil).Once()

		records, err := uc.Execute(ctx, baseInput())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, domain.OperationTypeSkipRef, records[1].Type)
		assert.Equal(t, domain.OperationStatusSkipped, records[1].Status)
		warnings := logs.FilterMessage("branch already exists")
		require.Equal(t, 1, warnings.Len())
		assert.Equal(t, zapcore.WarnLevel, warnings.All()[0].Level)
		repo.AssertNotCalled(t, "CreateBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "DeleteBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should skip when the new sprint branch already exists", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("develop", "abc123"),
			domain.NewBranchRef("qa-12", "def456"),
		}, nil).Once()

		records, err := uc.Execute(ctx, baseInput())
		require.NoError(t, err)
		assert.Equal(t, domain.OperationStatusSkipped, records[1].Status)
		repo.AssertNotCalled(t, "CreateBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should delete the previous sprint branch without recreating it", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, logs := newSyncUseCase(repo)
		in := baseInput()
		in.DeleteExisting = true
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("develop", "abc123"),
			domain.NewBranchRef("qa-11", "def456"),
		}, nil).Once()
		repo.On("DeleteBranchRef", ctx, "acme", "web", "qa-11").Return(nil).Once()

		records, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, domain.OperationTypeDeleteRef, records[1].Type)
		assert.Equal(t, "qa-11", records[1].Branch)
		assert.Equal(t, 1, logs.FilterMessage("deleted branch").Len())
		repo.AssertNotCalled(t, "CreateBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("Should keep a bare branch when a previous suffix is set", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, logs := newSyncUseCase(repo)
		in := baseInput()
		in.DeleteExisting = true
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("develop", "abc123"),
			domain.NewBranchRef("qa", "def456"),
		}, nil).Once()

		records, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, domain.OperationTypeSkipRef, records[1].Type)
		assert.Equal(t, 1, logs.FilterMessage("branch already exists").Len())
		repo.AssertNotCalled(t, "DeleteBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CreateBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should delete the same-named branch when no previous suffix is set", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		in := baseInput()
		in.Suffix = ""
		in.PrevSuffix = ""
		in.DeleteExisting = true
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("develop", "abc123"),
			domain.NewBranchRef("qa", "def456"),
		}, nil).Once()
		repo.On("DeleteBranchRef", ctx, "acme", "web", "qa").Return(nil).Once()

		_, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "CreateBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("Should keep the exists decision per branch", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		in := baseInput()
		in.Branches = []string{"qa", "staging"}
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("develop", "abc123"),
			domain.NewBranchRef("qa-11", "def456"),
		}, nil).Once()
		repo.On("CreateBranchRef", ctx, "acme", "web", "staging-12", "abc123").Return(nil).Once()

		records, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, domain.OperationTypeSkipRef, records[1].Type)
		assert.Equal(t, domain.OperationTypeCreateRef, records[2].Type)
		repo.AssertExpectations(t)
	})

	t.Run("Should send an empty sha when the source branch is missing", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		apiErr := errors.New("422 Invalid request")
		repo.On("ListBranchRefs", ctx, "acme", "web").
			Return([]domain.BranchRef{domain.NewBranchRef("main", "fff000")}, nil).Once()
		repo.On("CreateBranchRef", ctx, "acme", "web", "qa-12", "").Return(apiErr).Once()

		records, err := uc.Execute(ctx, baseInput())
		require.Error(t, err)
		var remoteErr *domain.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, domain.OperationTypeCreateRef, remoteErr.Operation)
		assert.Equal(t, "qa-12", remoteErr.Branch)
		assert.ErrorIs(t, err, apiErr)
		require.Len(t, records, 2)
		assert.Equal(t, domain.OperationStatusFailed, records[1].Status)
		repo.AssertExpectations(t)
	})

	t.Run("Should stop at the first remote failure", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		in := baseInput()
		in.Branches = []string{"qa", "staging"}
		in.DeleteExisting = true
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("qa-11", "def456"),
		}, nil).Once()
		repo.On("DeleteBranchRef", ctx, "acme", "web", "qa-11").Return(errors.New("403 Forbidden")).Once()

		_, err := uc.Execute(ctx, in)
		assert.ErrorContains(t, err, "delete_ref failed for web (qa-11)")
		repo.AssertNotCalled(t, "CreateBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should fail the repository when refs cannot be listed", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		repo.On("ListBranchRefs", ctx, "acme", "web").Return(nil, errors.New("404 Not Found")).Once()

		records, err := uc.Execute(ctx, baseInput())
		var remoteErr *domain.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, domain.OperationTypeListRefs, remoteErr.Operation)
		require.Len(t, records, 1)
		assert.Equal(t, domain.OperationStatusFailed, records[0].Status)
	})

	t.Run("Should treat containing refs as existing in substring mode", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		in := baseInput()
		in.MatchMode = domain.MatchModeSubstring
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("develop", "abc123"),
			domain.NewBranchRef("feature/qa-tools", "def456"),
		}, nil).Once()

		records, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, domain.OperationTypeSkipRef, records[1].Type)
		repo.AssertNotCalled(t, "CreateBranchRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should take the last source match in substring mode", func(t *testing.T) {
		repo := new(mockGithubRepository)
		uc, _ := newSyncUseCase(repo)
		in := baseInput()
		in.MatchMode = domain.MatchModeSubstring
		in.Branches = []string{"release"}
		repo.On("ListBranchRefs", ctx, "acme", "web").Return([]domain.BranchRef{
			domain.NewBranchRef("develop", "abc123"),
			domain.NewBranchRef("develop-next", "bbb222"),
		}, nil).Once()
		repo.On("CreateBranchRef", ctx, "acme", "web", "release-12", "bbb222").Return(nil).Once()

		_, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
