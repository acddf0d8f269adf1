// Package app contains the root application model.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/vines/internal/config"
	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/git"
	"github.com/zjrosen/vines/internal/keys"
	"github.com/zjrosen/vines/internal/log"
	"github.com/zjrosen/vines/internal/staging"
	"github.com/zjrosen/vines/internal/ui/shared/commitdetail"
	"github.com/zjrosen/vines/internal/ui/shared/diffviewer"
	"github.com/zjrosen/vines/internal/ui/shared/graphview"
	"github.com/zjrosen/vines/internal/watcher"
)

type focusPane int

const (
	focusGraph focusPane = iota
	focusDetail
	focusDiff
)

// WorkingDiffMsg carries the changed-file list for the diff pane.
type WorkingDiffMsg struct {
	Files []diff.File
	Err   error
}

// UntrackedContentMsg carries an untracked file's working tree content.
type UntrackedContentMsg struct {
	Path    string
	Content string
	Err     error
}

// RepoChangedMsg signals that the watcher saw the repository move.
type RepoChangedMsg struct{}

// BranchMsg carries the checked-out branch name for the status bar.
type BranchMsg struct {
	Name string
}

// Model is the root application state: the commit graph on the left,
// commit detail and the diff pane stacked on the right.
type Model struct {
	svc git.Service
	cfg config.Config

	graph  graphview.Model
	detail commitdetail.Model
	diff   diffviewer.Model

	files            []diff.File
	fileIdx          int
	hasDiff          bool
	untrackedContent string

	diffCtx      context.Context
	diffCancel   context.CancelFunc
	unstagedCtrl *staging.Controller
	stagedCtrl   *staging.Controller

	watcherHandle *watcher.Watcher
	watcherCh     <-chan struct{}

	clipboard Clipboard
	cfgPath   string

	focus       focusPane
	width       int
	height      int
	graphW      int
	rightW      int
	bodyH       int
	detailH     int
	diffH       int
	showStatus  bool
	helpVisible bool
	branch      string
	note        string
	err         error
	help        help.Model
	keymap      keys.KeyMap
}

// New creates the application model. gitDir enables the auto-refresh
// watcher when non-empty and cfg.AutoRefresh is set; watcher init
// errors are ignored because the app works fine without auto-refresh.
func New(svc git.Service, cfg config.Config, gitDir string) Model {
	var (
		handle *watcher.Watcher
		ch     <-chan struct{}
	)
	if cfg.AutoRefresh && gitDir != "" {
		wcfg := watcher.DefaultConfig(gitDir)
		if cfg.AutoRefreshDebounce > 0 {
			wcfg.DebounceDur = cfg.AutoRefreshDebounce
		}
		if w, err := watcher.New(wcfg); err == nil {
			if c, err := w.Start(); err == nil {
				handle = w
				ch = c
			} else {
				_ = w.Stop()
			}
		}
	}

	g := graphview.New(svc, cfg.CommitBatchSize, cfg.Palette)
	g.SetFocused(true)

	return Model{
		svc:           svc,
		cfg:           cfg,
		graph:         g,
		detail:        commitdetail.New(svc, cfg.UI.MarkdownStyle),
		watcherHandle: handle,
		watcherCh:     ch,
		clipboard:     SystemClipboard{},
		showStatus:    cfg.UI.ShowStatusBar,
		help:          help.New(),
		keymap:        keys.DefaultKeyMap(),
	}
}

// SetClipboard swaps the clipboard implementation, used by tests.
func (m *Model) SetClipboard(c Clipboard) { m.clipboard = c }

// SetConfigPath enables persisting view preferences back to the config
// file. An empty path disables saving.
func (m *Model) SetConfigPath(path string) { m.cfgPath = path }

func (m Model) savePrefs() tea.Cmd {
	if m.cfgPath == "" {
		return nil
	}
	path, ui := m.cfgPath, m.cfg.UI
	return func() tea.Msg {
		if err := config.SaveUI(path, ui); err != nil {
			log.ErrorErr(log.CatConfig, "saving ui preferences failed", err, "path", path)
		}
		return nil
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.graph.Init(),
		loadWorkingDiff(m.svc),
		loadBranch(m.svc),
	}
	if m.watcherCh != nil {
		cmds = append(cmds, waitForChange(m.watcherCh))
	}
	return tea.Batch(cmds...)
}

func loadWorkingDiff(svc git.Service) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		files, err := svc.WorkingDiff(ctx, false)
		if err != nil {
			return WorkingDiffMsg{Err: err}
		}
		untracked, err := svc.UntrackedFiles(ctx)
		if err != nil {
			return WorkingDiffMsg{Err: err}
		}
		for _, path := range untracked {
			files = append(files, diff.File{NewPath: path, IsUntracked: true})
		}
		return WorkingDiffMsg{Files: files}
	}
}

func loadBranch(svc git.Service) tea.Cmd {
	return func() tea.Msg {
		name, err := svc.CurrentBranch(context.Background())
		if err != nil {
			return BranchMsg{}
		}
		return BranchMsg{Name: name}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return RepoChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case WorkingDiffMsg:
		if msg.Err != nil {
			m.err = msg.Err
			log.ErrorErr(log.CatUI, "working diff load failed", msg.Err)
			return m, nil
		}
		m.err = nil
		return m, m.installFiles(msg.Files)

	case UntrackedContentMsg:
		if m.currentFile() == nil || m.currentFile().Path() != msg.Path {
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.untrackedContent = msg.Content
		return m, nil

	case BranchMsg:
		m.branch = msg.Name
		return m, nil

	case RepoChangedMsg:
		log.Debug(log.CatWatcher, "repository changed, refreshing")
		cmds := append(m.refreshCmds(), waitForChange(m.watcherCh))
		return m, tea.Batch(cmds...)

	case graphview.CommitSelectedMsg:
		return m, m.detail.SetCommit(msg.Commit)

	case diffviewer.LayoutChangedMsg:
		m.cfg.UI.SideBySide = msg.SideBySide
		return m, m.savePrefs()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.broadcast(msg)
}

// broadcast routes a message to every pane; each pane picks out its
// own message types and ignores the rest.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.graph, cmd = m.graph.Update(msg)
	cmds = append(cmds, cmd)
	m.detail, cmd = m.detail.Update(msg)
	cmds = append(cmds, cmd)
	if m.hasDiff {
		m.diff, cmd = m.diff.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.note = ""

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		m.layout()
		return m, nil

	case key.Matches(msg, m.keymap.Escape):
		if m.helpVisible {
			m.helpVisible = false
			m.help.ShowAll = false
			m.layout()
			return m, nil
		}

	case key.Matches(msg, m.keymap.ToggleStatus):
		m.showStatus = !m.showStatus
		m.layout()
		return m, nil

	case key.Matches(msg, m.keymap.FocusNext):
		m.setFocus((m.focus + 1) % 3)
		return m, nil

	case key.Matches(msg, m.keymap.Left):
		m.setFocus(focusGraph)
		return m, nil

	case key.Matches(msg, m.keymap.Right):
		if m.focus == focusGraph {
			m.setFocus(focusDiff)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, tea.Batch(m.refreshCmds()...)

	case key.Matches(msg, m.keymap.NextFile):
		return m, m.cycleFile(1)

	case key.Matches(msg, m.keymap.PrevFile):
		return m, m.cycleFile(-1)

	case key.Matches(msg, m.keymap.Yank):
		if m.focus == focusGraph {
			if c, ok := m.graph.Selected(); ok {
				if err := m.clipboard.Copy(c.Hash); err != nil {
					m.err = err
				} else {
					m.note = "copied " + c.ShortHash
				}
			}
			return m, nil
		}

	case key.Matches(msg, m.keymap.Stage):
		// Untracked files have no hunks; stage the whole file.
		if f := m.currentFile(); f != nil && f.IsUntracked && m.focus == focusDiff {
			return m, m.stageUntracked(f.Path())
		}
	}

	return m.broadcast(msg)
}

// installFiles swaps in a fresh changed-file list, keeping the
// selection on the same path when it still exists.
func (m *Model) installFiles(files []diff.File) tea.Cmd {
	current := ""
	if f := m.currentFile(); f != nil {
		current = f.Path()
	}
	m.files = files
	m.fileIdx = 0
	for i, f := range files {
		if f.Path() == current {
			m.fileIdx = i
			break
		}
	}
	return m.selectFile()
}

func (m *Model) currentFile() *diff.File {
	if m.fileIdx >= len(m.files) {
		return nil
	}
	return &m.files[m.fileIdx]
}

func (m *Model) cycleFile(delta int) tea.Cmd {
	if len(m.files) < 2 {
		return nil
	}
	m.fileIdx = (m.fileIdx + delta + len(m.files)) % len(m.files)
	return m.selectFile()
}

// selectFile tears down the previous file's controllers and builds the
// diff pane for the current selection.
func (m *Model) selectFile() tea.Cmd {
	if m.diffCancel != nil {
		m.diffCancel()
		m.unstagedCtrl.Close()
		m.stagedCtrl.Close()
		m.diffCancel = nil
	}
	m.hasDiff = false
	m.untrackedContent = ""

	f := m.currentFile()
	if f == nil {
		return nil
	}
	if f.IsUntracked {
		svc := m.svc
		path := f.Path()
		return func() tea.Msg {
			content, err := svc.FileContent(context.Background(), path)
			return UntrackedContentMsg{Path: path, Content: content, Err: err}
		}
	}

	mode := m.cfg.UI.WordDiffMode()
	m.diffCtx, m.diffCancel = context.WithCancel(context.Background())
	m.unstagedCtrl = staging.NewController(m.svc, diff.NewFileModelWithMode(*f, mode), staging.Options{
		WordDiffMode: mode,
	})
	indexSeed := diff.File{OldPath: f.OldPath, NewPath: f.NewPath}
	m.stagedCtrl = staging.NewController(m.svc, diff.NewFileModelWithMode(indexSeed, mode), staging.Options{
		Staged:       true,
		WordDiffMode: mode,
	})

	m.diff = diffviewer.New(m.diffCtx, m.unstagedCtrl, m.stagedCtrl)
	m.diff.SetSideBySide(m.cfg.UI.SideBySide)
	m.hasDiff = true
	m.layout()
	m.setFocus(m.focus)
	return m.diff.Init()
}

func (m *Model) stageUntracked(path string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.StageFile(context.Background(), path); err != nil {
			log.ErrorErr(log.CatStage, "stage file failed", err, "path", path)
			return WorkingDiffMsg{Err: err}
		}
		return loadWorkingDiff(svc)()
	}
}

// refreshCmds reloads everything that can go stale when the repository
// changes under us.
func (m *Model) refreshCmds() []tea.Cmd {
	if inv, ok := m.svc.(interface{ InvalidateCaches(context.Context) }); ok {
		inv.InvalidateCaches(context.Background())
	}
	cmds := []tea.Cmd{
		m.graph.Reset(),
		loadWorkingDiff(m.svc),
		loadBranch(m.svc),
	}
	m.detail.Clear()
	return cmds
}

func (m *Model) setFocus(focus focusPane) {
	m.focus = focus
	m.graph.SetFocused(focus == focusGraph)
	m.detail.SetFocused(focus == focusDetail)
	if m.hasDiff {
		m.diff.SetFocused(focus == focusDiff)
	}
}

// layout recomputes pane sizes from the window and the visible chrome.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.bodyH = m.height - m.bottomHeight()

	m.graphW = max(m.width*2/5, 30)
	if m.graphW > m.width {
		m.graphW = m.width
	}
	m.rightW = max(m.width-m.graphW, 0)
	m.detailH = max(m.bodyH/3, 5)
	m.diffH = max(m.bodyH-m.detailH, 3)

	m.graph.SetSize(max(m.graphW-2, 1), max(m.bodyH-2, 1))
	m.detail.SetSize(max(m.rightW-2, 1), max(m.detailH-2, 1))
	if m.hasDiff {
		m.diff.SetSize(max(m.rightW-2, 1), max(m.diffH-2, 1))
	}
}

func (m Model) bottomHeight() int {
	if m.helpVisible {
		// The expanded help grid is the tallest column plus a blank row.
		return 9
	}
	if m.showStatus {
		return 1
	}
	return 0
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.diffCancel != nil {
		m.diffCancel()
		m.unstagedCtrl.Close()
		m.stagedCtrl.Close()
	}
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
