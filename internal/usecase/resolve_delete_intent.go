package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/sprint-branches/internal/service"
)

// ResolveDeleteIntentUseCase asks whether existing branches should be deleted.

type ResolveDeleteIntentUseCase struct {
	Prompt service.PromptService
}

// Execute asks up to two questions and closes the prompt before returning.
// The intent is true only when both answers are affirmative.
func (uc *ResolveDeleteIntentUseCase) Execute(ctx context.Context) (bool, error) {
	defer func() { _ = uc.Prompt.Close() }()
	answer, err := uc.Prompt.Ask(ctx, service.DeleteBranchesQuestion)
	if err != nil {
		return false, fmt.Errorf("failed to read delete answer: %w", err)
	}
	if !IsAffirmative(answer) {
		return false, nil
	}
	confirm, err := uc.Prompt.Ask(ctx, service.ConfirmDeleteQuestion)
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation answer: %w", err)
	}
	return IsAffirmative(confirm), nil
}

// IsAffirmative reports whether answer contains a "y" in any case.
func IsAffirmative(answer string) bool {
	return strings.Contains(strings.ToLower(answer), "y")
}
