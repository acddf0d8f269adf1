// Package git runs the git CLI and converts its output into the
// structured types the graph and diff packages work with.
package git

import (
	"context"
	"errors"

	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/graph"
)

// Git-specific errors surfaced from stderr parsing.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrBadRevision indicates an unknown ref or commit hash.
	ErrBadRevision = errors.New("bad revision")

	// ErrPatchFailed indicates git apply rejected a hunk patch, usually
	// because the working tree moved under us.
	ErrPatchFailed = errors.New("patch does not apply")

	// ErrIndexLocked indicates another git process holds index.lock.
	ErrIndexLocked = errors.New("index is locked by another process")

	// ErrFileNotFound indicates a path that matched no file.
	ErrFileNotFound = errors.New("file not found")
)

// Service defines the repository operations the UI layers depend on.
// This abstraction allows for easy testing with fake implementations.
type Service interface {
	// IsGitRepo reports whether the working directory is inside a repo.
	IsGitRepo() bool
	// RepoRoot returns the root directory of the repository.
	RepoRoot(ctx context.Context) (string, error)
	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(ctx context.Context) (string, error)

	// ListCommits returns up to maxCount commits starting skip commits
	// below HEAD, newest first. Returns an empty slice for empty repos.
	ListCommits(ctx context.Context, maxCount, skip int) ([]graph.Commit, error)

	// CommitDiff returns the parsed diff introduced by one commit.
	CommitDiff(ctx context.Context, hash string) ([]diff.File, error)
	// WorkingDiff returns the parsed diff of the index when staged is
	// true, of the working tree against the index otherwise.
	WorkingDiff(ctx context.Context, staged bool) ([]diff.File, error)
	// FileDiff returns the diff for a single file on the chosen side.
	FileDiff(ctx context.Context, path string, staged bool) (diff.File, error)
	// UntrackedFiles lists files git does not track yet.
	UntrackedFiles(ctx context.Context) ([]string, error)
	// FileContent returns the working tree content of a file. Used for
	// displaying untracked files that have no diff.
	FileContent(ctx context.Context, path string) (string, error)

	// StageHunk applies a single hunk to the index.
	StageHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error
	// UnstageHunk removes a single hunk from the index.
	UnstageHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error
	// RevertHunk discards a single hunk from the working tree.
	RevertHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error
	// StageFile stages a whole file, untracked files included.
	StageFile(ctx context.Context, path string) error
	// UnstageFile removes a whole file from the index.
	UnstageFile(ctx context.Context, path string) error
}
