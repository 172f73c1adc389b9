package usecase

import (
	"context"
	"time"

	"github.com/compozy/sprint-branches/internal/domain"
	"github.com/compozy/sprint-branches/internal/repository"
	"go.uber.org/zap"
)

// SyncRepositoryInput describes one repository pass.
type SyncRepositoryInput struct {
	Owner          string
	Repository     string
	Branches       []string
	BranchFrom     string
	Suffix         string
	PrevSuffix     string
	DeleteExisting bool
	MatchMode      domain.MatchMode
}

// SyncRepositoryUseCase deletes or creates the desired branches of one repository.
type SyncRepositoryUseCase struct {
	GithubRepo repository.GithubRepository
	Logger     *zap.Logger
	Now        func() time.Time
}

// Execute lists the repository refs once and walks the desired branches in order.
// The records describe every decision taken up to the first remote failure, which
// is returned as a *domain.RemoteError.
func (uc *SyncRepositoryUseCase) Execute(
	ctx context.Context,
	in SyncRepositoryInput,
) ([]domain.OperationRecord, error) {
	log := uc.logger().With(zap.String("repository", in.Repository))
	var records []domain.OperationRecord
	refs, err := uc.GithubRepo.ListBranchRefs(ctx, in.Owner, in.Repository)
	if err != nil {
		records = append(records, uc.record(domain.OperationTypeListRefs, in.Repository, "", "", err))
		return records, &domain.RemoteError{
			Operation:  domain.OperationTypeListRefs,
			Repository: in.Repository,
			Err:        err,
		}
	}
	records = append(records, uc.record(domain.OperationTypeListRefs, in.Repository, "", "", nil))
	log.Debug("listed branch refs", zap.Int("count", len(refs)))
	idx := domain.NewRefIndex(refs, in.MatchMode)
	for _, branch := range in.Branches {
		rec, err := uc.syncBranch(ctx, log, idx, in, branch)
		records = append(records, rec)
		if err != nil {
			return records, err
		}
	}
	return records, nil
}

func (uc *SyncRepositoryUseCase) syncBranch(
	ctx context.Context,
	log *zap.Logger,
	idx *domain.RefIndex,
	in SyncRepositoryInput,
	branch string,
) (domain.OperationRecord, error) {
	createName := domain.SprintBranchName(branch, in.Suffix)
	previousName := domain.SprintBranchName(branch, in.PrevSuffix)
	exists, deletable := branchState(idx, branch, createName, previousName)
	if in.DeleteExisting && deletable {
		if err := uc.GithubRepo.DeleteBranchRef(ctx, in.Owner, in.Repository, previousName); err != nil {
			return uc.record(domain.OperationTypeDeleteRef, in.Repository, previousName, "", err),
				&domain.RemoteError{
					Operation:  domain.OperationTypeDeleteRef,
					Repository: in.Repository,
					Branch:     previousName,
					Err:        err,
				}
		}
		log.Info("deleted branch", zap.String("branch", previousName))
		return uc.record(domain.OperationTypeDeleteRef, in.Repository, previousName, "", nil), nil
	}
	if exists {
		log.Warn("branch already exists", zap.String("branch", branch))
		rec := uc.record(domain.OperationTypeSkipRef, in.Repository, branch, "", nil)
		rec.Status = domain.OperationStatusSkipped
		return rec, nil
	}
	// A missing source branch leaves sha empty; the API rejects the create.
	sha, found := idx.SourceSHA(in.BranchFrom, branch)
	if !found {
		log.Debug("source branch not found", zap.String("branch_from", in.BranchFrom))
	}
	if err := uc.GithubRepo.CreateBranchRef(ctx, in.Owner, in.Repository, createName, sha); err != nil {
		return uc.record(domain.OperationTypeCreateRef, in.Repository, createName, sha, err),
			&domain.RemoteError{
				Operation:  domain.OperationTypeCreateRef,
				Repository: in.Repository,
				Branch:     createName,
				Err:        err,
			}
	}
	log.Info("created branch", zap.String("branch", createName), zap.String("sha", sha))
	return uc.record(domain.OperationTypeCreateRef, in.Repository, createName, sha, nil), nil
}

// branchState reports whether the desired branch exists and whether the
// previous-sprint branch is present to be deleted.
func branchState(idx *domain.RefIndex, branch, createName, previousName string) (exists, deletable bool) {
	if idx.Mode() == domain.MatchModeSubstring {
		_, exists = idx.Matches(branch)
		return exists, exists
	}
	deletable = idx.Has(previousName)
	exists = deletable || idx.Has(branch) || idx.Has(createName)
	return exists, deletable
}

func (uc *SyncRepositoryUseCase) record(
	opType domain.OperationType,
	repo, branch, sha string,
	err error,
) domain.OperationRecord {
	rec := domain.OperationRecord{
		Type:       opType,
		Repository: repo,
		Branch:     branch,
		SHA:        sha,
		Status:     domain.OperationStatusCompleted,
		At:         uc.now(),
	}
	if err != nil {
		rec.Status = domain.OperationStatusFailed
		rec.Error = err.Error()
	}
	return rec
}

func (uc *SyncRepositoryUseCase) logger() *zap.Logger {
	if uc.Logger == nil {
		return zap.NewNop()
	}
	return uc.Logger
}

func (uc *SyncRepositoryUseCase) now() time.Time {
	if uc.Now == nil {
		return time.Now()
	}
	return uc.Now()
}
