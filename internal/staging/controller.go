// Package staging coordinates hunk-level stage, unstage, and revert
// actions between the diff model and the git backend. State transitions
// are optimistic: the model moves into its in-flight state before the
// backend call, then settles forward or rolls back on the result.
package staging

import (
	"context"
	"sync"

	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/log"
	"github.com/zjrosen/vines/internal/pubsub"
)

// Service is the git surface the controller needs. Satisfied by
// git.CLIService.
type Service interface {
	// FileDiff returns the current diff for one file, from the index when
	// staged is true, from the working tree otherwise.
	FileDiff(ctx context.Context, path string, staged bool) (diff.File, error)
	StageHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error
	UnstageHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error
	RevertHunk(ctx context.Context, file diff.File, hunk diff.Hunk) error
}

// Options tune a controller at construction time.
type Options struct {
	// Staged selects the staged side of the diff: Refresh fetches the
	// index diff and models start with every hunk already staged.
	Staged bool
	// WordDiffMode picks the highlight algorithm for refreshed models.
	WordDiffMode diff.WordDiffMode
}

// HunkUpdate is the event payload published after every settled action.
type HunkUpdate struct {
	Path       string
	HunkIndex  int
	State      diff.HunkState
	SnapshotID string
	Err        error
}

// Controller owns the live FileModel for one file and serializes hunk
// actions against it. All methods are safe for concurrent use; per-hunk
// concurrency is rejected by the model, not queued.
type Controller struct {
	mu     sync.Mutex
	svc    Service
	model  *diff.FileModel
	opts   Options
	broker *pubsub.Broker[HunkUpdate]
}

// NewController builds a controller over an initial model. When
// opts.Staged is set the model's hunks are marked staged up front.
func NewController(svc Service, model *diff.FileModel, opts Options) *Controller {
	if opts.Staged {
		model.MarkAllStaged()
	}
	return &Controller{
		svc:    svc,
		model:  model,
		opts:   opts,
		broker: pubsub.NewBroker[HunkUpdate](),
	}
}

// Model returns the current snapshot model.
func (c *Controller) Model() *diff.FileModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Subscribe returns a channel of hunk updates, closed when ctx ends.
func (c *Controller) Subscribe(ctx context.Context) <-chan pubsub.Event[HunkUpdate] {
	return c.broker.Subscribe(ctx)
}

// Close shuts down the event broker.
func (c *Controller) Close() {
	c.broker.Close()
}

// StageHunk stages the hunk at index against the given snapshot.
func (c *Controller) StageHunk(ctx context.Context, snapshotID string, idx int) error {
	return c.run(ctx, snapshotID, idx, "stage", pubsub.HunkStagedEvent,
		(*diff.FileModel).BeginStage, c.svc.StageHunk)
}

// UnstageHunk moves a staged hunk back to unstaged.
func (c *Controller) UnstageHunk(ctx context.Context, snapshotID string, idx int) error {
	return c.run(ctx, snapshotID, idx, "unstage", pubsub.HunkUnstagedEvent,
		(*diff.FileModel).BeginUnstage, c.svc.UnstageHunk)
}

// RevertHunk discards the hunk from the working tree. Destructive and
// not undoable; the UI confirms before calling.
func (c *Controller) RevertHunk(ctx context.Context, snapshotID string, idx int) error {
	return c.run(ctx, snapshotID, idx, "revert", pubsub.HunkRevertedEvent,
		(*diff.FileModel).BeginRevert, c.svc.RevertHunk)
}

// Refresh re-fetches the file's diff and installs a fresh model with a
// new snapshot ID. Hunk states reset; anything already staged no longer
// appears in the unstaged diff.
func (c *Controller) Refresh(ctx context.Context) (*diff.FileModel, error) {
	c.mu.Lock()
	path := c.model.File().Path()
	opts := c.opts
	c.mu.Unlock()

	file, err := c.svc.FileDiff(ctx, path, opts.Staged)
	if err != nil {
		log.ErrorErr(log.CatStage, "refresh failed", err, "path", path)
		return nil, &ServiceError{Op: "refresh", Path: path, HunkIndex: -1, Err: err}
	}

	fresh := diff.NewFileModelWithMode(file, opts.WordDiffMode)
	if opts.Staged {
		fresh.MarkAllStaged()
	}

	c.mu.Lock()
	c.model.MarkStale()
	c.model = fresh
	c.mu.Unlock()

	log.Debug(log.CatStage, "snapshot refreshed", "path", path, "snapshot", fresh.SnapshotID(), "hunks", fresh.HunkCount())
	c.broker.Publish(pubsub.SnapshotEvent, HunkUpdate{
		Path:       path,
		HunkIndex:  -1,
		SnapshotID: fresh.SnapshotID(),
	})
	return fresh, nil
}

// run executes one hunk action: snapshot check, optimistic transition,
// backend call, settle, events.
func (c *Controller) run(
	ctx context.Context,
	snapshotID string,
	idx int,
	op string,
	okEvent pubsub.EventType,
	begin func(*diff.FileModel, int) error,
	call func(context.Context, diff.File, diff.Hunk) error,
) error {
	c.mu.Lock()
	model := c.model
	if snapshotID != model.SnapshotID() || model.Stale() {
		current := model.SnapshotID()
		c.mu.Unlock()
		log.Warn(log.CatStage, "rejected stale hunk action",
			"op", op, "hunk", idx, "requested", snapshotID, "current", current)
		return &StaleSnapshotError{
			RequestedID:    snapshotID,
			CurrentID:      current,
			StaleHunkIndex: idx,
		}
	}
	if err := begin(model, idx); err != nil {
		c.mu.Unlock()
		return err
	}
	hunk, err := model.Hunk(idx)
	if err != nil {
		// Unreachable after a successful begin, but settle back anyway.
		_ = model.Settle(idx, false)
		c.mu.Unlock()
		return err
	}
	file := model.File()
	c.mu.Unlock()

	callErr := call(ctx, file, hunk)

	c.mu.Lock()
	_ = model.Settle(idx, callErr == nil)
	if callErr == nil {
		model.MarkStale()
	}
	state := model.State(idx)
	c.mu.Unlock()

	if callErr != nil {
		log.ErrorErr(log.CatStage, "hunk action failed", callErr, "op", op, "hunk", idx, "path", file.Path())
		svcErr := &ServiceError{Op: op, Path: file.Path(), HunkIndex: idx, Err: callErr}
		c.broker.Publish(pubsub.HunkFailedEvent, HunkUpdate{
			Path:       file.Path(),
			HunkIndex:  idx,
			State:      state,
			SnapshotID: snapshotID,
			Err:        svcErr,
		})
		return svcErr
	}

	log.Info(log.CatStage, "hunk action applied", "op", op, "hunk", idx, "path", file.Path())
	c.broker.Publish(okEvent, HunkUpdate{
		Path:       file.Path(),
		HunkIndex:  idx,
		State:      state,
		SnapshotID: snapshotID,
	})
	return nil
}
