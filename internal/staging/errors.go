package staging

import (
	"fmt"

	"github.com/zjrosen/vines/internal/diff"
)

// StaleSnapshotError reports a hunk action that referenced a snapshot the
// controller no longer holds. The action was not applied; the caller
// should re-fetch the diff and retry against the new snapshot.
type StaleSnapshotError struct {
	RequestedID    string
	CurrentID      string
	StaleHunkIndex int
}

func (e *StaleSnapshotError) Error() string {
	return fmt.Sprintf("hunk %d references stale snapshot %s (current %s)",
		e.StaleHunkIndex, e.RequestedID, e.CurrentID)
}

// Unwrap ties the error into the model-level sentinel so callers can test
// with errors.Is(err, diff.ErrStaleSnapshot).
func (e *StaleSnapshotError) Unwrap() error { return diff.ErrStaleSnapshot }

// ServiceError wraps a git backend failure for one hunk action. The
// optimistic state transition has already been rolled back when this
// error is returned.
type ServiceError struct {
	Op        string // "stage", "unstage", "revert", "refresh"
	Path      string
	HunkIndex int
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s hunk %d of %s: %v", e.Op, e.HunkIndex, e.Path, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
