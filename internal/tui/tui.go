// Package tui is a dual-pane terminal diff viewer. The current document is on the left with a caret; the previous document is on the right and follows the caret
// through the row mapping. The right pane never drives the left one.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/codalotl/blobdiff/internal/cursorsync"
	"github.com/codalotl/blobdiff/internal/presentation"
	"github.com/mattn/go-runewidth"
)

// Config describes what the viewer shows.
type Config struct {
	Current       string
	Previous      string
	CurrentTitle  string
	PreviousTitle string

	PresentationOptions []presentation.Option
}

// DocumentsMsg replaces the document pair being viewed.
type DocumentsMsg struct {
	Current       string
	Previous      string
	CurrentTitle  string
	PreviousTitle string
}

// Run shows the viewer until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config) error {
	m := newModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

type model struct {
	keys   keyMap
	styles styles

	session *cursorsync.Session
	caret   *caretSource

	current  viewport.Model
	previous viewport.Model

	titles    [2]string
	lines     [2][]string
	tags      [2][]string
	hunkStart []int // current rows where a current-side marker starts

	cursor int // caret row in the current document

	ready          bool
	windowWidth    int
	windowHeight   int
	leftWidth      int
	rightWidth     int
	viewportHeight int
}

func newModel(cfg Config) *model {
	m := &model{
		keys:   defaultKeyMap(),
		styles: defaultStyles(),
		caret:  &caretSource{},
	}
	m.session = cursorsync.NewSession(&previousPane{m: m}, cfg.PresentationOptions...)
	m.session.Attach(m.caret)
	m.load(DocumentsMsg{Current: cfg.Current, Previous: cfg.Previous, CurrentTitle: cfg.CurrentTitle, PreviousTitle: cfg.PreviousTitle})
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case DocumentsMsg:
		m.load(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.moveCaret(m.cursor + 1)
	case key.Matches(msg, m.keys.Up):
		m.moveCaret(m.cursor - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCaret(m.cursor + max(1, m.viewportHeight))
	case key.Matches(msg, m.keys.PageUp):
		m.moveCaret(m.cursor - max(1, m.viewportHeight))
	case key.Matches(msg, m.keys.Top):
		m.moveCaret(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveCaret(len(m.lines[presentation.SideCurrent]) - 1)
	case key.Matches(msg, m.keys.NextHunk):
		for _, r := range m.hunkStart {
			if r > m.cursor {
				m.moveCaret(r)
				break
			}
		}
	case key.Matches(msg, m.keys.PrevHunk):
		for i := len(m.hunkStart) - 1; i >= 0; i-- {
			if m.hunkStart[i] < m.cursor {
				m.moveCaret(m.hunkStart[i])
				break
			}
		}
	}
	return nil
}

// load replaces the document pair. Everything derived from the old pair is dropped.
func (m *model) load(docs DocumentsMsg) {
	p := m.session.Replace(docs.Current, docs.Previous)

	m.titles = [2]string{docs.CurrentTitle, docs.PreviousTitle}
	if m.titles[0] == "" {
		m.titles[0] = "current"
	}
	if m.titles[1] == "" {
		m.titles[1] = "previous"
	}

	for side := range m.lines {
		m.lines[side] = splitLines(p.Value[side])
		m.tags[side] = rowTags(p.Markers[side], len(m.lines[side]))
	}
	m.hunkStart = m.hunkStart[:0]
	for _, mk := range p.Markers[presentation.SideCurrent] {
		m.hunkStart = append(m.hunkStart, mk.StartRow)
	}

	m.cursor = 0
	if m.ready {
		m.current.SetYOffset(0)
		m.previous.SetYOffset(0)
		m.refresh()
	}
}

// moveCaret moves the caret to row (clamped), keeps it visible, and publishes the move.
func (m *model) moveCaret(row int) {
	n := len(m.lines[presentation.SideCurrent])
	if n == 0 {
		return
	}
	row = min(max(row, 0), n-1)
	m.cursor = row

	if m.ready {
		if row < m.current.YOffset {
			m.current.SetYOffset(row)
		} else if row >= m.current.YOffset+m.viewportHeight {
			m.current.SetYOffset(row - m.viewportHeight + 1)
		}
		m.refreshCurrent()
	}
	m.caret.emit(row)
}

func (m *model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.windowWidth = msg.Width
	m.windowHeight = msg.Height

	// One column separates the panes; one row each for the title bar and the footer.
	m.leftWidth = max(1, (msg.Width-1)/2)
	m.rightWidth = max(1, msg.Width-1-m.leftWidth)
	m.viewportHeight = max(1, msg.Height-2)

	if !m.ready {
		m.current = viewport.New(m.leftWidth, m.viewportHeight)
		m.previous = viewport.New(m.rightWidth, m.viewportHeight)
		m.ready = true
	} else {
		m.current.Width, m.current.Height = m.leftWidth, m.viewportHeight
		m.previous.Width, m.previous.Height = m.rightWidth, m.viewportHeight
	}
	m.refresh()
}

func (m *model) refresh() {
	m.refreshCurrent()
	m.previous.SetContent(renderPane(m.lines[presentation.SidePrevious], m.tags[presentation.SidePrevious], m.rightWidth, -1, m.styles))
}

func (m *model) refreshCurrent() {
	m.current.SetContent(renderPane(m.lines[presentation.SideCurrent], m.tags[presentation.SideCurrent], m.leftWidth, m.cursor, m.styles))
}

func (m *model) View() string {
	if !m.ready {
		return "initializing"
	}

	header := m.styles.title.Render(fit(m.titles[0], m.leftWidth)) + " " + m.styles.title.Render(fit(m.titles[1], m.rightWidth))

	sep := m.styles.separator.Render(strings.TrimSuffix(strings.Repeat("│\n", m.viewportHeight), "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.current.View(), sep, m.previous.View())

	return header + "\n" + body + "\n" + m.footer()
}

func (m *model) footer() string {
	status := fmt.Sprintf("row %d/%d", m.cursor+1, len(m.lines[presentation.SideCurrent]))
	if prevRow, ok := m.session.Presentation().RowMapping.Lookup(m.cursor); ok {
		status += fmt.Sprintf(" ↔ %d", prevRow+1)
	}

	var help []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	line := status + "  " + strings.Join(help, " · ")
	return m.styles.status.Render(fit(line, m.windowWidth))
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// previousPane adapts the previous-side viewport to cursorsync.Pane.
type previousPane struct {
	m *model
}

func (p *previousPane) FirstVisibleRow() int {
	return p.m.previous.YOffset
}

func (p *previousPane) ScrollToRow(row int) {
	p.m.previous.SetYOffset(row)
}

// caretSource publishes caret moves in the current pane.
type caretSource struct {
	handlers []func(int)
}

func (s *caretSource) OnCursorMoved(h func(int)) {
	s.handlers = append(s.handlers, h)
}

func (s *caretSource) emit(row int) {
	for _, h := range s.handlers {
		h(row)
	}
}
