// Package commitdetail shows one commit's metadata, its message body
// rendered as markdown, and a per-file change summary.
package commitdetail

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/graph"
	"github.com/zjrosen/vines/internal/keys"
	"github.com/zjrosen/vines/internal/log"
	"github.com/zjrosen/vines/internal/ui/markdown"
)

// DiffSource is the slice of the git service this pane depends on.
type DiffSource interface {
	CommitDiff(ctx context.Context, hash string) ([]diff.File, error)
}

// DiffLoadedMsg carries a commit's file list back to the pane.
type DiffLoadedMsg struct {
	Hash  string
	Files []diff.File
	Err   error
}

// Model is the commit detail pane.
type Model struct {
	svc           DiffSource
	markdownStyle string

	commit  *graph.Commit
	body    string
	files   []diff.File
	loading bool
	err     error

	scroll  int
	width   int
	height  int
	focused bool
	keymap  keys.KeyMap
}

func New(svc DiffSource, markdownStyle string) Model {
	return Model{
		svc:           svc,
		markdownStyle: markdownStyle,
		keymap:        keys.DefaultKeyMap(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) SetSize(width, height int) {
	if width != m.width && m.commit != nil {
		m.body = renderBody(m.commit.Body, width, m.markdownStyle)
	}
	m.width = width
	m.height = height
	m.clampScroll()
}

func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the pane handles key input.
func (m Model) Focused() bool { return m.focused }

// Err returns the last diff load error.
func (m Model) Err() error { return m.err }

// SetCommit switches the pane to a commit and fetches its diff stats.
func (m *Model) SetCommit(c graph.Commit) tea.Cmd {
	m.commit = &c
	m.body = renderBody(c.Body, m.width, m.markdownStyle)
	m.files = nil
	m.err = nil
	m.loading = true
	m.scroll = 0

	svc := m.svc
	hash := c.Hash
	return func() tea.Msg {
		files, err := svc.CommitDiff(context.Background(), hash)
		return DiffLoadedMsg{Hash: hash, Files: files, Err: err}
	}
}

// Clear empties the pane.
func (m *Model) Clear() {
	m.commit = nil
	m.body = ""
	m.files = nil
	m.err = nil
	m.scroll = 0
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DiffLoadedMsg:
		// A newer selection may have superseded this fetch.
		if m.commit == nil || msg.Hash != m.commit.Hash {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			log.ErrorErr(log.CatUI, "commit diff load failed", msg.Err, "hash", msg.Hash)
			return m, nil
		}
		m.files = msg.Files
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keymap.Up):
			m.scroll--
		case key.Matches(msg, m.keymap.Down):
			m.scroll++
		case key.Matches(msg, m.keymap.PageUp):
			m.scroll -= m.height / 2
		case key.Matches(msg, m.keymap.PageDown):
			m.scroll += m.height / 2
		case key.Matches(msg, m.keymap.Top):
			m.scroll = 0
		case key.Matches(msg, m.keymap.Bottom):
			m.scroll = len(m.lines())
		}
		m.clampScroll()
	}
	return m, nil
}

func (m Model) lines() []string {
	return renderDetail(m.commit, m.body, m.files, m.loading, m.err, m.width)
}

func (m *Model) clampScroll() {
	maxScroll := max(len(m.lines())-m.height, 0)
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m Model) View() string {
	return window(m.lines(), m.scroll, m.width, m.height)
}

// renderBody runs the commit message through glamour, falling back to
// the raw text when rendering fails.
func renderBody(body string, width int, style string) string {
	if body == "" {
		return ""
	}
	if width < 10 {
		return body
	}
	r, err := markdown.New(width-2, style)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		log.Debug(log.CatUI, "markdown render failed", "error", err)
		return body
	}
	return out
}
