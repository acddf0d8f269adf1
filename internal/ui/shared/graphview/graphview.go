// Package graphview provides the commit graph pane: a scrollable, lazily
// paginated view of the commit DAG with lane coloring.
package graphview

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/vines/internal/graph"
	"github.com/zjrosen/vines/internal/keys"
	"github.com/zjrosen/vines/internal/log"
)

// loadMoreThreshold triggers a background page fetch when the cursor moves
// within this many rows of the loaded bottom.
const loadMoreThreshold = 5

// CommitSource is the slice of the git service this pane depends on.
type CommitSource interface {
	ListCommits(ctx context.Context, maxCount, skip int) ([]graph.Commit, error)
}

// CommitsLoadedMsg carries a page of commits back to the model.
type CommitsLoadedMsg struct {
	Commits []graph.Commit
	Skip    int // The offset this page was requested at
	Err     error
}

// CommitSelectedMsg is emitted when the user activates a commit.
type CommitSelectedMsg struct {
	Commit graph.Commit
}

// Model is the commit graph pane state.
type Model struct {
	svc       CommitSource
	engine    *graph.Engine
	layout    graph.Layout
	batchSize int

	cursor    int
	scrollTop int
	loading   bool // A page fetch is in flight; load more is disabled
	exhausted bool // The last page came back short; history is complete

	width, height int
	focused       bool
	err           error

	keymap keys.KeyMap
}

// New creates a graph pane backed by the given service.
func New(svc CommitSource, batchSize, paletteSize int) Model {
	if batchSize < 1 {
		batchSize = 200
	}
	return Model{
		svc:       svc,
		engine:    graph.NewEngine(paletteSize),
		batchSize: batchSize,
		focused:   true,
		keymap:    keys.DefaultKeyMap(),
	}
}

// Init requests the first page.
func (m Model) Init() tea.Cmd {
	return m.loadPage(0)
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// SetFocused toggles keyboard focus.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports keyboard focus.
func (m Model) Focused() bool { return m.focused }

// Selected returns the commit under the cursor.
func (m Model) Selected() (graph.Commit, bool) {
	if m.cursor < 0 || m.cursor >= len(m.layout.Rows) {
		return graph.Commit{}, false
	}
	return m.layout.Rows[m.cursor].Commit, true
}

// Loading reports whether a page fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// Err returns the last load error, if any.
func (m Model) Err() error { return m.err }

// RowCount returns the number of loaded commits.
func (m Model) RowCount() int { return len(m.layout.Rows) }

// Reset discards all loaded history and starts over. Used after the
// repository changes underneath us.
func (m *Model) Reset() tea.Cmd {
	m.engine = graph.NewEngine(m.engine.Colors().PaletteSize())
	m.layout = graph.Layout{}
	m.cursor = 0
	m.scrollTop = 0
	m.loading = false
	m.exhausted = false
	m.err = nil
	return m.loadPage(0)
}

// loadPage fetches one page of commits at the given offset.
func (m *Model) loadPage(skip int) tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	svc, batch := m.svc, m.batchSize
	return func() tea.Msg {
		commits, err := svc.ListCommits(context.Background(), batch, skip)
		return CommitsLoadedMsg{Commits: commits, Skip: skip, Err: err}
	}
}

// Update handles key and load messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CommitsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			log.ErrorErr(log.CatGraph, "load commits failed", msg.Err)
			return m, nil
		}
		m.err = nil
		if msg.Skip != len(m.layout.Rows) {
			// A Reset raced this page; drop it
			return m, nil
		}
		if len(msg.Commits) < m.batchSize {
			m.exhausted = true
		}
		if len(msg.Commits) > 0 {
			m.layout = m.engine.Extend(msg.Commits)
		}
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.moveCursor(-m.height / 2)
	case key.Matches(msg, m.keymap.PageDown):
		m.moveCursor(m.height / 2)
	case key.Matches(msg, m.keymap.Top):
		m.cursor = 0
		m.clampScroll()
	case key.Matches(msg, m.keymap.Bottom):
		m.cursor = len(m.layout.Rows) - 1
		m.clampScroll()
	case key.Matches(msg, m.keymap.LoadMore):
		return m, m.loadPage(len(m.layout.Rows))
	case key.Matches(msg, m.keymap.Enter):
		if commit, ok := m.Selected(); ok {
			return m, func() tea.Msg { return CommitSelectedMsg{Commit: commit} }
		}
		return m, nil
	default:
		return m, nil
	}

	// Approaching the bottom of loaded history prefetches the next page
	if !m.exhausted && !m.loading && m.cursor >= len(m.layout.Rows)-loadMoreThreshold {
		return m, m.loadPage(len(m.layout.Rows))
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.layout.Rows)-1 {
		m.cursor = max(len(m.layout.Rows)-1, 0)
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	if m.height < 1 {
		return
	}
	if m.cursor < m.scrollTop {
		m.scrollTop = m.cursor
	}
	if m.cursor >= m.scrollTop+m.height {
		m.scrollTop = m.cursor - m.height + 1
	}
	if m.scrollTop < 0 {
		m.scrollTop = 0
	}
}

// View renders the pane content (unbordered).
func (m Model) View() string {
	return renderRows(m.layout, m.cursor, m.scrollTop, m.width, m.height, m.focused)
}
