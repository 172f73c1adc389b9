package domain

import "fmt"

// RemoteError is returned when a call to the hosting API fails during a run.
type RemoteError struct {
	Operation  OperationType
	Repository string
	Branch     string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Branch == "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Operation, e.Repository, e.Err)
	}
	return fmt.Sprintf("%s failed for %s (%s): %v", e.Operation, e.Repository, e.Branch, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
