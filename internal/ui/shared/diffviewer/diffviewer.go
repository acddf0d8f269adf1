// Package diffviewer renders one file's diff with hunk level staging.
// It shows either the working tree or the index side of the diff,
// unified or side by side, with optional word level highlighting.
package diffviewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/keys"
	"github.com/zjrosen/vines/internal/log"
	"github.com/zjrosen/vines/internal/pubsub"
	"github.com/zjrosen/vines/internal/staging"
	"github.com/zjrosen/vines/internal/ui/styles"
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	errStyle  = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
)

// LayoutChangedMsg announces a layout toggle so the owner can persist
// the preference and apply it to viewers created later.
type LayoutChangedMsg struct {
	SideBySide bool
}

// SnapshotLoadedMsg carries the result of a controller refresh.
type SnapshotLoadedMsg struct {
	Model  *diff.FileModel
	Staged bool
	Err    error
}

// ActionDoneMsg reports the synchronous outcome of a hunk action. The
// settled state arrives separately through the controller's events.
type ActionDoneMsg struct {
	Err error
}

// hunkEventMsg wraps a controller event with the side it came from so
// the right channel gets re-armed.
type hunkEventMsg struct {
	event  pubsub.Event[staging.HunkUpdate]
	staged bool
}

// Model is the diff pane. It owns no git state; both controllers are
// built by the caller for the file being viewed.
type Model struct {
	ctx        context.Context
	unstaged   *staging.Controller
	staged     *staging.Controller
	unstagedCh <-chan pubsub.Event[staging.HunkUpdate]
	stagedCh   <-chan pubsub.Event[staging.HunkUpdate]

	model         *diff.FileModel
	cursor        int
	scroll        int
	viewStaged    bool
	sideBySide    bool
	wordDiff      bool
	pendingRevert int

	width   int
	height  int
	focused bool
	err     error
	keymap  keys.KeyMap
}

// New builds the pane over a working tree controller and an index
// controller for the same file.
func New(ctx context.Context, unstaged, staged *staging.Controller) Model {
	return Model{
		ctx:           ctx,
		unstaged:      unstaged,
		staged:        staged,
		unstagedCh:    unstaged.Subscribe(ctx),
		stagedCh:      staged.Subscribe(ctx),
		model:         unstaged.Model(),
		pendingRevert: -1,
		wordDiff:      true,
		focused:       false,
		keymap:        keys.DefaultKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		refreshCmd(m.ctx, m.unstaged, false),
		refreshCmd(m.ctx, m.staged, true),
		m.listen(false),
		m.listen(true),
	)
}

// Refresh re-fetches both sides, for example after the watcher reports
// a change on disk.
func (m Model) Refresh() tea.Cmd {
	return tea.Batch(
		refreshCmd(m.ctx, m.unstaged, false),
		refreshCmd(m.ctx, m.staged, true),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

func (m *Model) SetFocused(focused bool) { m.focused = focused }

// SetSideBySide sets the initial layout, normally from config.
func (m *Model) SetSideBySide(on bool) { m.sideBySide = on }

// Focused reports whether the pane handles key input.
func (m Model) Focused() bool { return m.focused }

// Err returns the last action or refresh error, cleared by the next
// successful snapshot.
func (m Model) Err() error { return m.err }

func refreshCmd(ctx context.Context, ctrl *staging.Controller, staged bool) tea.Cmd {
	return func() tea.Msg {
		fresh, err := ctrl.Refresh(ctx)
		return SnapshotLoadedMsg{Model: fresh, Staged: staged, Err: err}
	}
}

func (m Model) listen(staged bool) tea.Cmd {
	ch := m.unstagedCh
	if staged {
		ch = m.stagedCh
	}
	inner := pubsub.ListenCmd(m.ctx, ch)
	return func() tea.Msg {
		msg := inner()
		if msg == nil {
			return nil
		}
		return hunkEventMsg{event: msg.(pubsub.Event[staging.HunkUpdate]), staged: staged}
	}
}

func isMutation(t pubsub.EventType) bool {
	switch t {
	case pubsub.HunkStagedEvent, pubsub.HunkUnstagedEvent, pubsub.HunkRevertedEvent:
		return true
	}
	return false
}

func (m Model) active() *staging.Controller {
	if m.viewStaged {
		return m.staged
	}
	return m.unstaged
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		if msg.Staged == m.viewStaged {
			m.model = msg.Model
			m.err = nil
			m.pendingRevert = -1
			m.clampCursor()
		}
		return m, nil

	case hunkEventMsg:
		if msg.staged == m.viewStaged {
			m.model = m.active().Model()
			if msg.event.Payload.Err != nil {
				m.err = msg.event.Payload.Err
			}
		}
		cmds := []tea.Cmd{m.listen(msg.staged)}
		// A settled mutation moved a hunk between the working tree and
		// the index, so both snapshots are stale. Re-fetch them rather
		// than leaving the pane on a model that rejects every action.
		if isMutation(msg.event.Type) && msg.event.Payload.Err == nil {
			cmds = append(cmds,
				refreshCmd(m.ctx, m.unstaged, false),
				refreshCmd(m.ctx, m.staged, true))
		}
		return m, tea.Batch(cmds...)

	case ActionDoneMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
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
	// A pending revert confirmation survives only an immediate second x.
	confirming := m.pendingRevert == m.cursor && m.pendingRevert >= 0
	if !key.Matches(msg, m.keymap.Revert) {
		m.pendingRevert = -1
	}

	switch {
	case key.Matches(msg, m.keymap.Up):
		m.scroll--
		m.clampScroll()
	case key.Matches(msg, m.keymap.Down):
		m.scroll++
		m.clampScroll()
	case key.Matches(msg, m.keymap.PageUp):
		m.scroll -= m.contentHeight() / 2
		m.clampScroll()
	case key.Matches(msg, m.keymap.PageDown):
		m.scroll += m.contentHeight() / 2
		m.clampScroll()
	case key.Matches(msg, m.keymap.Top):
		m.cursor = 0
		m.scroll = 0
	case key.Matches(msg, m.keymap.Bottom):
		m.cursor = max(m.hunkCount()-1, 0)
		m.scrollToCursor()
	case key.Matches(msg, m.keymap.NextHunk):
		if m.cursor < m.hunkCount()-1 {
			m.cursor++
		}
		m.scrollToCursor()
	case key.Matches(msg, m.keymap.PrevHunk):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scrollToCursor()
	case key.Matches(msg, m.keymap.ToggleStaged):
		m.viewStaged = !m.viewStaged
		m.model = m.active().Model()
		m.cursor = 0
		m.scroll = 0
		m.err = nil
	case key.Matches(msg, m.keymap.ToggleSideBySide):
		m.sideBySide = !m.sideBySide
		m.scrollToCursor()
		on := m.sideBySide
		return m, func() tea.Msg { return LayoutChangedMsg{SideBySide: on} }
	case key.Matches(msg, m.keymap.ToggleWordDiff):
		m.wordDiff = !m.wordDiff
	case key.Matches(msg, m.keymap.Stage):
		if !m.viewStaged && m.hunkCount() > 0 {
			return m, m.actionCmd("stage", m.unstaged.StageHunk)
		}
	case key.Matches(msg, m.keymap.Unstage):
		if m.hunkCount() > 0 {
			return m, m.actionCmd("unstage", m.active().UnstageHunk)
		}
	case key.Matches(msg, m.keymap.Revert):
		if m.viewStaged || m.hunkCount() == 0 {
			break
		}
		if !confirming {
			m.pendingRevert = m.cursor
			break
		}
		m.pendingRevert = -1
		return m, m.actionCmd("revert", m.unstaged.RevertHunk)
	}
	return m, nil
}

// actionCmd runs one hunk action against the current snapshot off the
// update loop.
func (m Model) actionCmd(op string, call func(context.Context, string, int) error) tea.Cmd {
	ctx := m.ctx
	snapshot := m.model.SnapshotID()
	idx := m.cursor
	return func() tea.Msg {
		if err := call(ctx, snapshot, idx); err != nil {
			log.Debug(log.CatUI, "hunk action rejected", "op", op, "hunk", idx, "error", err)
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{}
	}
}

func (m Model) hunkCount() int {
	if m.model == nil {
		return 0
	}
	return m.model.HunkCount()
}

func (m Model) viewOptions() viewOptions {
	return viewOptions{
		Width:      m.width,
		SideBySide: m.sideBySide,
		WordDiff:   m.wordDiff,
		Cursor:     m.cursor,
		Focused:    m.focused,
	}
}

// contentHeight is the pane height minus the status line.
func (m Model) contentHeight() int {
	return max(m.height-1, 0)
}

func (m *Model) clampCursor() {
	if m.cursor >= m.hunkCount() {
		m.cursor = max(m.hunkCount()-1, 0)
	}
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	offsets := hunkOffsets(m.model, m.viewOptions())
	if m.cursor >= len(offsets) {
		m.clampScroll()
		return
	}
	target := offsets[m.cursor]
	if target < m.scroll {
		m.scroll = target
	}
	if bottom := m.scroll + m.contentHeight() - 1; target > bottom {
		m.scroll = target - m.contentHeight() + 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	total := len(renderFile(m.model, m.viewOptions()))
	maxScroll := max(total-m.contentHeight(), 0)
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m Model) View() string {
	lines := renderFile(m.model, m.viewOptions())

	end := min(m.scroll+m.contentHeight(), len(lines))
	start := min(m.scroll, end)
	visible := make([]string, 0, m.contentHeight()+1)
	visible = append(visible, lines[start:end]...)
	for len(visible) < m.contentHeight() {
		visible = append(visible, "")
	}
	visible = append(visible, m.statusLine())
	return strings.Join(visible, "\n")
}

// statusLine summarizes the pane state in one row.
func (m Model) statusLine() string {
	if m.model == nil {
		return ""
	}
	side := "working tree"
	if m.viewStaged {
		side = "index"
	}
	parts := []string{
		m.model.File().Path(),
		side,
		fmt.Sprintf("hunk %d/%d", min(m.cursor+1, m.hunkCount()), m.hunkCount()),
	}
	if staged := len(m.model.StagedIndices()); staged > 0 {
		parts = append(parts, fmt.Sprintf("%d staged", staged))
	}
	if m.sideBySide {
		parts = append(parts, "split")
	}
	if m.wordDiff {
		parts = append(parts, "words")
	}
	line := mutedStyle.Render(strings.Join(parts, " · "))
	switch {
	case m.pendingRevert == m.cursor && m.pendingRevert >= 0:
		line = warnStyle.Render("x again to discard hunk") + " " + line
	case m.err != nil:
		line = errStyle.Render(m.err.Error()) + " " + line
	}
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "…")
	}
	return line
}
