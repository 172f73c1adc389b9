package service

import "context"

// PromptService defines the interface for asking the operator questions on a terminal.

type PromptService interface {
	// Ask writes question and returns the raw answer line
	Ask(ctx context.Context, question string) (string, error)
	// Close releases the terminal; further questions fail
	Close() error
}
