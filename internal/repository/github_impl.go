package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/sprint-branches/internal/domain"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// listRefsPageSize is the page size of the single ref listing request.
const listRefsPageSize = 100

// githubRepository is the implementation of the GithubRepository interface.
type githubRepository struct {
	client *github.Client
}

// NewGithubRepository creates a GithubRepository authenticated with token.
// A non-empty apiURL targets a GitHub Enterprise server instead of github.com.
func NewGithubRepository(token, apiURL string) (GithubRepository, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("github token cannot be empty")
	}
	// Create OAuth2 client with the token
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)
	if apiURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
	}
	return &githubRepository{client: client}, nil
}

// ListBranchRefs lists branch refs. Only the first page is read.
func (r *githubRepository) ListBranchRefs(ctx context.Context, owner, repo string) ([]domain.BranchRef, error) {
	refs, _, err := r.client.Git.ListMatchingRefs(ctx, owner, repo, &github.ReferenceListOptions{
		Ref:         "heads",
		ListOptions: github.ListOptions{PerPage: listRefsPageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list branch refs for %s/%s: %w", owner, repo, err)
	}
	out := make([]domain.BranchRef, 0, len(refs))
	for _, ref := range refs {
		name := plumbing.ReferenceName(ref.GetRef())
		if !name.IsBranch() {
			continue
		}
		out = append(out, domain.BranchRef{Name: name.String(), SHA: ref.GetObject().GetSHA()})
	}
	return out, nil
}

// DeleteBranchRef deletes a branch ref.
func (r *githubRepository) DeleteBranchRef(ctx context.Context, owner, repo, branch string) error {
	ref := strings.TrimPrefix(plumbing.NewBranchReferenceName(branch).String(), "refs/")
	if _, err := r.client.Git.DeleteRef(ctx, owner, repo, ref); err != nil {
		return fmt.Errorf("failed to delete ref %s in %s/%s: %w", ref, owner, repo, err)
	}
	return nil
}

// CreateBranchRef creates a branch ref. An empty sha is sent as null and left
// for the API to reject.
func (r *githubRepository) CreateBranchRef(ctx context.Context, owner, repo, branch, sha string) error {
	ref := plumbing.NewBranchReferenceName(branch).String()
	object := &github.GitObject{}
	if sha != "" {
		object.SHA = github.Ptr(sha)
	}
	_, _, err := r.client.Git.CreateRef(ctx, owner, repo, &github.Reference{
		Ref:    github.Ptr(ref),
		Object: object,
	})
	if err != nil {
		return fmt.Errorf("failed to create ref %s in %s/%s: %w", ref, owner, repo, err)
	}
	return nil
}
