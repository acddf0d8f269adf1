package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/vines/internal/cachemanager"
	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/graph"
	"github.com/zjrosen/vines/internal/log"
)

const (
	commitCacheTTL = 5 * time.Minute
	diffCacheTTL   = 10 * time.Minute
)

// Compile-time check that CLIService implements Service.
var _ Service = (*CLIService)(nil)

// CLIService implements Service by executing the git binary. Commit
// pages and per-commit diffs go through a read-through cache; working
// tree diffs are always fetched fresh.
type CLIService struct {
	workDir string
	tracer  trace.Tracer

	commitStore *cachemanager.InMemoryCacheManager[string, []graph.Commit]
	diffStore   *cachemanager.InMemoryCacheManager[string, []diff.File]
	commitCache *cachemanager.ReadThroughCache[string, []graph.Commit, []string]
	diffCache   *cachemanager.ReadThroughCache[string, []diff.File, string]
}

// NewCLIService creates a service rooted at workDir with caching enabled
// and a no-op tracer.
func NewCLIService(workDir string) *CLIService {
	return NewCLIServiceWithTracer(workDir, noop.NewTracerProvider().Tracer("git"))
}

// NewCLIServiceWithTracer creates a service that records a span per git
// invocation on the given tracer.
func NewCLIServiceWithTracer(workDir string, tracer trace.Tracer) *CLIService {
	s := &CLIService{workDir: workDir, tracer: tracer}

	s.commitStore = cachemanager.NewInMemoryCacheManager[string, []graph.Commit]("git-log", commitCacheTTL, cachemanager.DefaultCleanupInterval)
	s.commitCache = cachemanager.NewReadThroughCache[string, []graph.Commit, []string](
		s.commitStore,
		func(ctx context.Context, args []string) ([]graph.Commit, error) {
			out, err := s.runGitOutput(ctx, args...)
			if err != nil {
				if isEmptyRepoErr(err) {
					return nil, nil
				}
				return nil, err
			}
			return parseCommitLog(out)
		},
		false,
	)
	s.diffStore = cachemanager.NewInMemoryCacheManager[string, []diff.File]("git-diff", diffCacheTTL, cachemanager.DefaultCleanupInterval)
	s.diffCache = cachemanager.NewReadThroughCache[string, []diff.File, string](
		s.diffStore,
		func(ctx context.Context, hash string) ([]diff.File, error) {
			out, err := s.runGitOutput(ctx, "show", "--format=", "--patch", hash)
			if err != nil {
				return nil, err
			}
			return diff.Parse(out)
		},
		false,
	)
	return s
}

// runGitOutput executes a git command and returns trimmed stdout.
func (s *CLIService) runGitOutput(ctx context.Context, args ...string) (string, error) {
	return s.runGitInput(ctx, "", args...)
}

// runGitInput executes a git command with the given stdin.
func (s *CLIService) runGitInput(ctx context.Context, stdin string, args ...string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "git."+args[0],
		trace.WithAttributes(attribute.StringSlice("git.args", args)))
	defer span.End()

	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, "git", args...)
	if s.workDir != "" {
		cmd.Dir = s.workDir
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	log.Debug(log.CatGit, "git command", "args", strings.Join(args, " "), "ms", time.Since(start).Milliseconds(), "ok", runErr == nil)

	if runErr != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		var err error
		if stderrStr != "" {
			err = parseGitError(stderrStr, runErr)
		} else {
			err = fmt.Errorf("git %s: %w", strings.Join(args, " "), runErr)
		}
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetStatus(codes.Ok, "")
	return strings.TrimRight(stdout.String(), "\n"), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}
	if strings.Contains(stderrLower, "bad revision") ||
		strings.Contains(stderrLower, "unknown revision") {
		return fmt.Errorf("%w: %s", ErrBadRevision, stderr)
	}
	if strings.Contains(stderrLower, "patch does not apply") ||
		strings.Contains(stderrLower, "patch failed") {
		return fmt.Errorf("%w: %s", ErrPatchFailed, stderr)
	}
	if strings.Contains(stderrLower, "index.lock") {
		return fmt.Errorf("%w: %s", ErrIndexLocked, stderr)
	}
	if strings.Contains(stderrLower, "did not match any file") ||
		strings.Contains(stderrLower, "no such path") {
		return fmt.Errorf("%w: %s", ErrFileNotFound, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

func isEmptyRepoErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not have any commits yet") ||
		strings.Contains(msg, "bad default revision")
}

// IsGitRepo checks if the working directory is inside a repository.
func (s *CLIService) IsGitRepo() bool {
	_, err := s.runGitOutput(context.Background(), "rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the root directory of the repository.
func (s *CLIService) RepoRoot(ctx context.Context) (string, error) {
	return s.runGitOutput(ctx, "rev-parse", "--show-toplevel")
}

// GitDir returns the repository's .git directory as an absolute path.
// The watcher points fsnotify at it.
func (s *CLIService) GitDir(ctx context.Context) (string, error) {
	dir, err := s.runGitOutput(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	base := s.workDir
	if base == "" {
		base, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(base, dir), nil
}

// CurrentBranch returns the checked-out branch name.
func (s *CLIService) CurrentBranch(ctx context.Context) (string, error) {
	// git branch --show-current (git 2.22+), empty on detached HEAD
	out, err := s.runGitOutput(ctx, "branch", "--show-current")
	if err == nil && out != "" {
		return out, nil
	}
	return s.runGitOutput(ctx, "symbolic-ref", "--short", "HEAD")
}

// ListCommits returns one page of history, newest first.
func (s *CLIService) ListCommits(ctx context.Context, maxCount, skip int) ([]graph.Commit, error) {
	args := []string{
		"log",
		"--format=" + logFormat,
		fmt.Sprintf("--max-count=%d", maxCount),
		fmt.Sprintf("--skip=%d", skip),
	}
	key := fmt.Sprintf("log:%d:%d", maxCount, skip)
	return s.commitCache.Get(ctx, key, args, commitCacheTTL)
}

// CommitDiff returns the parsed diff introduced by one commit. Cached:
// a commit's diff never changes for a given hash.
func (s *CLIService) CommitDiff(ctx context.Context, hash string) ([]diff.File, error) {
	return s.diffCache.Get(ctx, "show:"+hash, hash, diffCacheTTL)
}

// WorkingDiff returns the index diff (staged) or worktree diff.
func (s *CLIService) WorkingDiff(ctx context.Context, staged bool) ([]diff.File, error) {
	args := []string{"diff"}
	if staged {
		args = append(args, "--cached")
	}
	out, err := s.runGitOutput(ctx, args...)
	if err != nil {
		return nil, err
	}
	return diff.Parse(out)
}

// FileDiff returns the diff for a single file on the chosen side.
func (s *CLIService) FileDiff(ctx context.Context, path string, staged bool) (diff.File, error) {
	args := []string{"diff"}
	if staged {
		args = append(args, "--cached")
	}
	args = append(args, "--", path)
	out, err := s.runGitOutput(ctx, args...)
	if err != nil {
		return diff.File{}, err
	}
	files, err := diff.Parse(out)
	if err != nil {
		return diff.File{}, err
	}
	if len(files) == 0 {
		// No changes on this side; an empty file model is valid.
		return diff.File{OldPath: path, NewPath: path}, nil
	}
	return files[0], nil
}

// UntrackedFiles lists files git does not track yet.
func (s *CLIService) UntrackedFiles(ctx context.Context) ([]string, error) {
	out, err := s.runGitOutput(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// FileContent returns the working tree content of a file.
func (s *CLIService) FileContent(ctx context.Context, path string) (string, error) {
	full := path
	if s.workDir != "" {
		full = filepath.Join(s.workDir, path)
	}
	data, err := os.ReadFile(full) //nolint:gosec // G304: path comes from git output
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", err
	}
	return string(data), nil
}

// StageHunk applies a single hunk to the index.
func (s *CLIService) StageHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error {
	patch := BuildHunkPatch(file, hunk)
	_, err := s.runGitInput(ctx, patch, "apply", "--cached", "--unidiff-zero", "-")
	if err == nil {
		s.invalidate(ctx)
	}
	return err
}

// UnstageHunk removes a single hunk from the index.
func (s *CLIService) UnstageHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error {
	patch := BuildHunkPatch(file, hunk)
	_, err := s.runGitInput(ctx, patch, "apply", "--cached", "--reverse", "--unidiff-zero", "-")
	if err == nil {
		s.invalidate(ctx)
	}
	return err
}

// RevertHunk discards a single hunk from the working tree.
func (s *CLIService) RevertHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error {
	patch := BuildHunkPatch(file, hunk)
	_, err := s.runGitInput(ctx, patch, "apply", "--reverse", "--unidiff-zero", "-")
	if err == nil {
		s.invalidate(ctx)
	}
	return err
}

// StageFile stages a whole file. Works for untracked files too.
func (s *CLIService) StageFile(ctx context.Context, path string) error {
	_, err := s.runGitOutput(ctx, "add", "--", path)
	if err == nil {
		s.invalidate(ctx)
	}
	return err
}

// UnstageFile removes a whole file from the index.
func (s *CLIService) UnstageFile(ctx context.Context, path string) error {
	_, err := s.runGitOutput(ctx, "restore", "--staged", "--", path)
	if err == nil {
		s.invalidate(ctx)
	}
	return err
}

// InvalidateCaches drops cached pages. The watcher calls this when the
// repository changes under us.
func (s *CLIService) InvalidateCaches(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *CLIService) invalidate(ctx context.Context) {
	if err := s.commitStore.Flush(ctx); err != nil {
		log.ErrorErr(log.CatCache, "flush commit cache", err)
	}
	if err := s.diffStore.Flush(ctx); err != nil {
		log.ErrorErr(log.CatCache, "flush diff cache", err)
	}
}
