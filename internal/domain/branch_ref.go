package domain

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// BranchRef is a branch reference as reported by the hosting API.
type BranchRef struct {
	Name string // full ref name, e.g. refs/heads/main
	SHA  string
}

// NewBranchRef builds a BranchRef for a short branch name.
func NewBranchRef(branch, sha string) BranchRef {
	return BranchRef{Name: plumbing.NewBranchReferenceName(branch).String(), SHA: sha}
}

// Short returns the branch name without the refs/heads/ prefix.
func (r BranchRef) Short() string {
	return plumbing.ReferenceName(r.Name).Short()
}

// MatchMode decides when a remote ref counts as an existing desired branch.
type MatchMode string

const (
	// MatchModeExact compares short branch names for equality.
	MatchModeExact MatchMode = "exact"
	// MatchModeSubstring treats any ref whose name contains the branch as a match.
	MatchModeSubstring MatchMode = "substring"
)

// ParseMatchMode validates a match mode string. Empty means exact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchModeExact:
		return MatchModeExact, nil
	case MatchModeSubstring:
		return MatchModeSubstring, nil
	default:
		return "", fmt.Errorf("unsupported match mode: %s (expected: exact or substring)", s)
	}
}

// SprintBranchName appends "-suffix" to base when suffix is set.
func SprintBranchName(base, suffix string) string {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return base
	}
	return base + "-" + suffix
}

// RefIndex answers existence and source lookups over one repository's refs.
type RefIndex struct {
	mode    MatchMode
	refs    []BranchRef
	byShort map[string]BranchRef
}

// NewRefIndex indexes refs in the order the API returned them.
func NewRefIndex(refs []BranchRef, mode MatchMode) *RefIndex {
	byShort := make(map[string]BranchRef, len(refs))
	for _, ref := range refs {
		byShort[ref.Short()] = ref
	}
	return &RefIndex{mode: mode, refs: refs, byShort: byShort}
}

// Mode returns the match mode of the index.
func (i *RefIndex) Mode() MatchMode {
	return i.mode
}

// Has reports whether a branch with exactly this short name exists.
func (i *RefIndex) Has(branch string) bool {
	_, ok := i.byShort[branch]
	return ok
}

// Matches reports whether branch is considered present under the index's mode.
// In substring mode the last ref scanned that contains the name wins.
func (i *RefIndex) Matches(branch string) (BranchRef, bool) {
	if i.mode == MatchModeExact {
		ref, ok := i.byShort[branch]
		return ref, ok
	}
	var (
		found BranchRef
		ok    bool
	)
	for _, ref := range i.refs {
		if strings.Contains(ref.Name, branch) {
			found, ok = ref, true
		}
	}
	return found, ok
}

// SourceSHA resolves the commit of the source branch. In substring mode refs that
// also match the desired branch are skipped, and the last remaining match wins.
func (i *RefIndex) SourceSHA(branchFrom, desired string) (string, bool) {
	if i.mode == MatchModeExact {
		ref, ok := i.byShort[branchFrom]
		return ref.SHA, ok
	}
	var (
		sha string
		ok  bool
	)
	for _, ref := range i.refs {
		if strings.Contains(ref.Name, desired) {
			continue
		}
		if strings.Contains(ref.Name, branchFrom) {
			sha, ok = ref.SHA, true
		}
	}
	return sha, ok
}
