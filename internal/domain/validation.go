package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// branchNameRegex matches the characters allowed in branch names
	branchNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)
	// sprintSuffixRegex matches sprint suffixes such as 12 or 2026-10
	sprintSuffixRegex = regexp.MustCompile(`^[a-zA-Z0-9._]+(-[a-zA-Z0-9._]+)*$`)
)

// ValidateBranchName validates a short git branch name.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if len(branch) > 255 {
		return fmt.Errorf("branch name too long: %d characters (max: 255)", len(branch))
	}
	if strings.HasPrefix(branch, "/") || strings.HasSuffix(branch, "/") {
		return fmt.Errorf("branch name cannot start or end with slash: %s", branch)
	}
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("branch name cannot start with a dash: %s", branch)
	}
	if strings.Contains(branch, "..") {
		return fmt.Errorf("branch name cannot contain consecutive dots: %s", branch)
	}
	if strings.HasSuffix(branch, ".lock") {
		return fmt.Errorf("branch name cannot end with .lock: %s", branch)
	}
	if !branchNameRegex.MatchString(branch) {
		return fmt.Errorf("invalid branch name format: %s", branch)
	}
	// refs/heads/<branch> must itself be a valid reference
	if err := plumbing.NewBranchReferenceName(branch).Validate(); err != nil {
		return fmt.Errorf("invalid branch name %s: %w", branch, err)
	}
	return nil
}

// ValidateSprintSuffix validates a sprint number suffix. Empty means no suffix.
func ValidateSprintSuffix(suffix string) error {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return nil
	}
	if !sprintSuffixRegex.MatchString(suffix) {
		return fmt.Errorf("invalid sprint suffix: %s", suffix)
	}
	return nil
}
