package diff

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Model-level errors. The staging controller wraps these with file and
// hunk context before they reach the UI.
var (
	// ErrStaleSnapshot means the model's hunk indices were invalidated by
	// a successful stage/unstage/revert. Retryable: re-fetch the diff.
	ErrStaleSnapshot = errors.New("hunk indices are stale, re-fetch the diff")

	// ErrHunkBusy means an action is already in flight for the hunk
	// index. Rejected, never queued.
	ErrHunkBusy = errors.New("an action is already in flight for this hunk")

	// ErrUnknownHunk means the hunk index is outside the snapshot.
	ErrUnknownHunk = errors.New("unknown hunk index")

	// ErrInvalidTransition means the hunk is not in a state the requested
	// action can start from (e.g. unstaging a hunk that is not staged).
	ErrInvalidTransition = errors.New("invalid hunk state transition")
)

// HunkState is the per-hunk staging state machine.
//
//	unstaged -> staging   -> staged | unstaged (on failure)
//	staged   -> unstaging -> unstaged | staged (on failure)
//	any settled state -> reverting -> gone on success, prior state on failure
type HunkState int

const (
	HunkUnstaged HunkState = iota
	HunkStaging
	HunkStaged
	HunkUnstaging
	HunkReverting
)

// String returns a human-readable name for the state.
func (s HunkState) String() string {
	switch s {
	case HunkUnstaged:
		return "unstaged"
	case HunkStaging:
		return "staging"
	case HunkStaged:
		return "staged"
	case HunkUnstaging:
		return "unstaging"
	case HunkReverting:
		return "reverting"
	default:
		return "unknown"
	}
}

// InFlight reports whether the state is a transition awaiting a backend
// response.
func (s HunkState) InFlight() bool {
	return s == HunkStaging || s == HunkUnstaging || s == HunkReverting
}

// FileModel holds one file's diff snapshot plus the mutable staging state
// for each hunk index. Indices are positional against this snapshot only:
// once any mutation succeeds the model is marked stale and every index is
// rejected until the caller builds a fresh model from a re-fetched diff.
type FileModel struct {
	file       File
	snapshotID string
	stale      bool

	states []HunkState
	// prior remembers the settled state a revert started from so a failed
	// revert can fall back to it.
	prior []HunkState

	mode WordDiffMode
	// wordDiffs caches pair results keyed by the pair's deletion index so
	// querying either side of a pair returns the identical result.
	wordDiffs map[int]map[int]WordDiffResult
	// pairOf maps line index -> deletion index of its pair, per hunk.
	pairOf map[int]map[int]int
}

// NewFileModel builds a model over a parsed file using the greedy word
// diff mode.
func NewFileModel(file File) *FileModel {
	return NewFileModelWithMode(file, WordDiffGreedy)
}

// NewFileModelWithMode builds a model with an explicit word diff mode.
func NewFileModelWithMode(file File, mode WordDiffMode) *FileModel {
	return &FileModel{
		file:       file,
		snapshotID: uuid.NewString(),
		states:     make([]HunkState, len(file.Hunks)),
		prior:      make([]HunkState, len(file.Hunks)),
		mode:       mode,
		wordDiffs:  make(map[int]map[int]WordDiffResult),
		pairOf:     make(map[int]map[int]int),
	}
}

// File returns the snapshot the model was built from.
func (m *FileModel) File() File { return m.file }

// SnapshotID identifies this diff snapshot. Every model gets a fresh ID.
func (m *FileModel) SnapshotID() string { return m.snapshotID }

// Stale reports whether the snapshot has been invalidated.
func (m *FileModel) Stale() bool { return m.stale }

// MarkStale invalidates every hunk index in the model. Called by the
// staging controller after any successful mutation.
func (m *FileModel) MarkStale() { m.stale = true }

// MarkAllStaged sets every hunk to staged. Used when the model was built
// from the staged side of the diff, where each hunk shown is by
// definition already in the index.
func (m *FileModel) MarkAllStaged() {
	for i := range m.states {
		m.states[i] = HunkStaged
	}
}

// LineCount returns the total line count across hunks.
func (m *FileModel) LineCount() int { return m.file.LineCount() }

// Additions returns the file's added line count.
func (m *FileModel) Additions() int { return m.file.Additions }

// Deletions returns the file's deleted line count.
func (m *FileModel) Deletions() int { return m.file.Deletions }

// HunkCount returns the number of hunks in the snapshot.
func (m *FileModel) HunkCount() int { return len(m.file.Hunks) }

// Hunk returns the hunk at index i, guarding staleness and range.
func (m *FileModel) Hunk(i int) (Hunk, error) {
	if m.stale {
		return Hunk{}, ErrStaleSnapshot
	}
	if i < 0 || i >= len(m.file.Hunks) {
		return Hunk{}, fmt.Errorf("%w: %d", ErrUnknownHunk, i)
	}
	return m.file.Hunks[i], nil
}

// State returns the staging state for hunk index i. Out-of-range indices
// read as unstaged.
func (m *FileModel) State(i int) HunkState {
	if i < 0 || i >= len(m.states) {
		return HunkUnstaged
	}
	return m.states[i]
}

// StagedIndices returns the hunk indices currently known staged.
func (m *FileModel) StagedIndices() []int {
	var out []int
	for i, s := range m.states {
		if s == HunkStaged {
			out = append(out, i)
		}
	}
	return out
}

// BeginStage moves hunk i into the staging transition.
func (m *FileModel) BeginStage(i int) error {
	return m.begin(i, HunkUnstaged, HunkStaging)
}

// BeginUnstage moves hunk i into the unstaging transition.
func (m *FileModel) BeginUnstage(i int) error {
	return m.begin(i, HunkStaged, HunkUnstaging)
}

// BeginRevert moves hunk i into the reverting transition from either
// settled state, remembering where it came from.
func (m *FileModel) BeginRevert(i int) error {
	if err := m.guard(i); err != nil {
		return err
	}
	s := m.states[i]
	if s.InFlight() {
		return fmt.Errorf("%w: hunk %d is %s", ErrHunkBusy, i, s)
	}
	m.prior[i] = s
	m.states[i] = HunkReverting
	return nil
}

// Settle completes the in-flight transition for hunk i. On success the
// hunk lands in its target state; on failure it falls back to where it
// started. Settling a hunk with no action in flight is a programmer
// error and reports ErrInvalidTransition.
func (m *FileModel) Settle(i int, success bool) error {
	if i < 0 || i >= len(m.states) {
		return fmt.Errorf("%w: %d", ErrUnknownHunk, i)
	}
	switch m.states[i] {
	case HunkStaging:
		if success {
			m.states[i] = HunkStaged
		} else {
			m.states[i] = HunkUnstaged
		}
	case HunkUnstaging:
		if success {
			m.states[i] = HunkUnstaged
		} else {
			m.states[i] = HunkStaged
		}
	case HunkReverting:
		if success {
			// The hunk no longer exists in the working tree; the state is
			// moot because the snapshot goes stale, but settle somewhere
			// sane for anything still holding the model.
			m.states[i] = HunkUnstaged
		} else {
			m.states[i] = m.prior[i]
		}
	default:
		return fmt.Errorf("%w: hunk %d is %s, nothing to settle", ErrInvalidTransition, i, m.states[i])
	}
	return nil
}

func (m *FileModel) begin(i int, from, to HunkState) error {
	if err := m.guard(i); err != nil {
		return err
	}
	s := m.states[i]
	if s.InFlight() {
		return fmt.Errorf("%w: hunk %d is %s", ErrHunkBusy, i, s)
	}
	if s != from {
		return fmt.Errorf("%w: hunk %d is %s, want %s", ErrInvalidTransition, i, s, from)
	}
	m.states[i] = to
	return nil
}

func (m *FileModel) guard(i int) error {
	if m.stale {
		return ErrStaleSnapshot
	}
	if i < 0 || i >= len(m.states) {
		return fmt.Errorf("%w: %d", ErrUnknownHunk, i)
	}
	return nil
}

// WordDiffFor returns the word-level diff for the pair that lineIdx
// belongs to. The second return is false when the line is not part of a
// deletion+addition pair (isolated lines render unhighlighted). Querying
// the deletion or the addition side of the same pair returns the
// identical result.
func (m *FileModel) WordDiffFor(hunkIdx, lineIdx int) (WordDiffResult, bool) {
	if hunkIdx < 0 || hunkIdx >= len(m.file.Hunks) {
		return WordDiffResult{}, false
	}
	pairs, ok := m.pairOf[hunkIdx]
	if !ok {
		pairs = make(map[int]int)
		for _, p := range findLinePairs(m.file.Hunks[hunkIdx]) {
			pairs[p.deletedIdx] = p.deletedIdx
			pairs[p.addedIdx] = p.deletedIdx
		}
		m.pairOf[hunkIdx] = pairs
	}

	key, ok := pairs[lineIdx]
	if !ok {
		return WordDiffResult{}, false
	}

	cache, ok := m.wordDiffs[hunkIdx]
	if !ok {
		cache = make(map[int]WordDiffResult)
		m.wordDiffs[hunkIdx] = cache
	}
	if result, ok := cache[key]; ok {
		return result, true
	}

	lines := m.file.Hunks[hunkIdx].Lines
	oldLine := lines[key].Content
	newLine := lines[key+1].Content
	if len(oldLine) > WordDiffMaxLineLength || len(newLine) > WordDiffMaxLineLength {
		return WordDiffResult{}, false
	}

	var result WordDiffResult
	if m.mode == WordDiffSemantic {
		result = SemanticWordDiff(oldLine, newLine)
	} else {
		result = WordDiff(oldLine, newLine)
	}
	cache[key] = result
	return result, true
}
