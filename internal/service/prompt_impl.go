package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPromptClosed is returned when asking on a closed prompt.
var ErrPromptClosed = errors.New("prompt is closed")

type readResult struct {
	line string
	err  error
}

// terminalPromptService reads answers line by line from an io.Reader.
type terminalPromptService struct {
	reader *bufio.Reader
	writer io.Writer
	// pending holds a read abandoned by a canceled Ask; the next Ask consumes it
	pending chan readResult
}

// NewPromptService creates a PromptService over the given input and output.
func NewPromptService(input io.Reader, output io.Writer) PromptService {
	return &terminalPromptService{reader: bufio.NewReader(input), writer: output}
}

// Ask writes the question and reads one line. EOF yields whatever was typed.
// Cancelling ctx returns immediately even while the read is blocked.
func (s *terminalPromptService) Ask(ctx context.Context, question string) (string, error) {
	if s.reader == nil {
		return "", ErrPromptClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.writer != nil {
		if _, err := io.WriteString(s.writer, question); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}
	}
	results := s.pending
	if results == nil {
		results = make(chan readResult, 1)
		go func(reader *bufio.Reader) {
			line, err := reader.ReadString('\n')
			results <- readResult{line: line, err: err}
		}(s.reader)
	}
	select {
	case <-ctx.Done():
		s.pending = results
		return "", ctx.Err()
	case res := <-results:
		s.pending = nil
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return "", fmt.Errorf("failed to read answer: %w", res.err)
		}
		return strings.TrimRight(res.line, "\r\n"), nil
	}
}

// Close drops the reader so the terminal is no longer consumed.
func (s *terminalPromptService) Close() error {
	s.reader = nil
	s.pending = nil
	return nil
}
