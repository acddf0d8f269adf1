package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func modelFixture(t *testing.T) *FileModel {
	t.Helper()
	files, err := Parse(simpleDiff)
	require.NoError(t, err)
	require.Len(t, files, 1)
	return NewFileModel(files[0])
}

func TestFileModel_DerivedCounts(t *testing.T) {
	m := modelFixture(t)
	require.Equal(t, 2, m.Additions())
	require.Equal(t, 1, m.Deletions())
	require.Equal(t, m.File().LineCount(), m.LineCount())
	require.Equal(t, 1, m.HunkCount())
}

func TestFileModel_SnapshotIDsUnique(t *testing.T) {
	a := modelFixture(t)
	b := modelFixture(t)
	require.NotEmpty(t, a.SnapshotID())
	require.NotEqual(t, a.SnapshotID(), b.SnapshotID())
}

func TestFileModel_HunkRangeAndStaleness(t *testing.T) {
	m := modelFixture(t)

	_, err := m.Hunk(0)
	require.NoError(t, err)

	_, err = m.Hunk(5)
	require.ErrorIs(t, err, ErrUnknownHunk)
	_, err = m.Hunk(-1)
	require.ErrorIs(t, err, ErrUnknownHunk)

	m.MarkStale()
	require.True(t, m.Stale())
	_, err = m.Hunk(0)
	require.ErrorIs(t, err, ErrStaleSnapshot)
}

func TestFileModel_StageLifecycle(t *testing.T) {
	m := modelFixture(t)
	require.Equal(t, HunkUnstaged, m.State(0))

	require.NoError(t, m.BeginStage(0))
	require.Equal(t, HunkStaging, m.State(0))
	require.True(t, m.State(0).InFlight())

	require.NoError(t, m.Settle(0, true))
	require.Equal(t, HunkStaged, m.State(0))
	require.Equal(t, []int{0}, m.StagedIndices())

	require.NoError(t, m.BeginUnstage(0))
	require.Equal(t, HunkUnstaging, m.State(0))
	require.NoError(t, m.Settle(0, true))
	require.Equal(t, HunkUnstaged, m.State(0))
	require.Empty(t, m.StagedIndices())
}

func TestFileModel_FailedStageFallsBack(t *testing.T) {
	m := modelFixture(t)
	require.NoError(t, m.BeginStage(0))
	require.NoError(t, m.Settle(0, false))
	require.Equal(t, HunkUnstaged, m.State(0))
}

func TestFileModel_FailedUnstageStaysStaged(t *testing.T) {
	m := modelFixture(t)
	require.NoError(t, m.BeginStage(0))
	require.NoError(t, m.Settle(0, true))

	require.NoError(t, m.BeginUnstage(0))
	require.NoError(t, m.Settle(0, false))
	require.Equal(t, HunkStaged, m.State(0))
}

func TestFileModel_RevertFallsBackToPriorState(t *testing.T) {
	m := modelFixture(t)
	require.NoError(t, m.BeginStage(0))
	require.NoError(t, m.Settle(0, true))

	require.NoError(t, m.BeginRevert(0))
	require.Equal(t, HunkReverting, m.State(0))
	require.NoError(t, m.Settle(0, false))
	require.Equal(t, HunkStaged, m.State(0))
}

func TestFileModel_BusyHunkRejectsSecondAction(t *testing.T) {
	m := modelFixture(t)
	require.NoError(t, m.BeginStage(0))

	require.ErrorIs(t, m.BeginStage(0), ErrHunkBusy)
	require.ErrorIs(t, m.BeginUnstage(0), ErrHunkBusy)
	require.ErrorIs(t, m.BeginRevert(0), ErrHunkBusy)

	// The rejected attempts did not queue anything.
	require.NoError(t, m.Settle(0, true))
	require.Equal(t, HunkStaged, m.State(0))
}

func TestFileModel_InvalidTransitions(t *testing.T) {
	m := modelFixture(t)
	require.ErrorIs(t, m.BeginUnstage(0), ErrInvalidTransition)

	require.NoError(t, m.BeginStage(0))
	require.NoError(t, m.Settle(0, true))
	require.ErrorIs(t, m.BeginStage(0), ErrInvalidTransition)

	require.ErrorIs(t, m.Settle(0, true), ErrInvalidTransition)
}

func TestFileModel_StaleRejectsActions(t *testing.T) {
	m := modelFixture(t)
	m.MarkStale()
	require.ErrorIs(t, m.BeginStage(0), ErrStaleSnapshot)
	require.ErrorIs(t, m.BeginUnstage(0), ErrStaleSnapshot)
	require.ErrorIs(t, m.BeginRevert(0), ErrStaleSnapshot)
}

func TestFileModel_UnknownHunkActions(t *testing.T) {
	m := modelFixture(t)
	require.ErrorIs(t, m.BeginStage(7), ErrUnknownHunk)
	require.ErrorIs(t, m.Settle(7, true), ErrUnknownHunk)
}

func TestFileModel_WordDiffForPair(t *testing.T) {
	m := modelFixture(t)
	// simpleDiff's hunk pairs line 3 (deletion) with line 4 (addition).
	fromDel, ok := m.WordDiffFor(0, 3)
	require.True(t, ok)
	require.Equal(t, "func main() {", joinSide(fromDel.Old))
	require.Equal(t, "func main() { // entry", joinSide(fromDel.New))

	fromAdd, ok := m.WordDiffFor(0, 4)
	require.True(t, ok)
	require.Equal(t, fromDel, fromAdd)
}

func TestFileModel_WordDiffForIsolatedLines(t *testing.T) {
	m := modelFixture(t)
	// Line 5 is the second addition; it has no deletion partner.
	_, ok := m.WordDiffFor(0, 5)
	require.False(t, ok)
	// Context and header rows never highlight.
	_, ok = m.WordDiffFor(0, 0)
	require.False(t, ok)
	_, ok = m.WordDiffFor(0, 1)
	require.False(t, ok)
	// Out-of-range queries are quiet misses.
	_, ok = m.WordDiffFor(3, 0)
	require.False(t, ok)
	_, ok = m.WordDiffFor(0, 99)
	require.False(t, ok)
}

func TestFileModel_WordDiffSkipsLongLines(t *testing.T) {
	long := make([]byte, WordDiffMaxLineLength+1)
	for i := range long {
		long[i] = 'a'
	}
	f := File{Hunks: []Hunk{{Lines: []Line{
		{Type: LineHunkHeader},
		{Type: LineDeletion, Content: string(long)},
		{Type: LineAddition, Content: "short"},
	}}}}
	m := NewFileModel(f)
	_, ok := m.WordDiffFor(0, 1)
	require.False(t, ok)
}

func TestFileModel_SemanticMode(t *testing.T) {
	f := File{Hunks: []Hunk{{Lines: []Line{
		{Type: LineHunkHeader},
		{Type: LineDeletion, Content: "a b c"},
		{Type: LineAddition, Content: "a x b c"},
	}}}}
	m := NewFileModelWithMode(f, WordDiffSemantic)
	result, ok := m.WordDiffFor(0, 1)
	require.True(t, ok)
	for _, c := range result.Old {
		require.False(t, c.Removed)
	}
}
