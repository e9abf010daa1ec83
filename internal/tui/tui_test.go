package tui

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/codalotl/blobdiff/internal/presentation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func numbered(prefix string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(prefix + strconv.Itoa(i) + "\n")
	}
	return b.String()
}

// insertedAtTop returns a model whose current document is the previous document (30 lines) with 5 lines inserted at the top.
func insertedAtTop(t *testing.T) *model {
	t.Helper()
	previous := numbered("p", 30)
	m := newModel(Config{Current: numbered("new", 5) + previous, Previous: previous})
	_, _ = m.Update(tea.WindowSizeMsg{Width: 81, Height: 12})
	return m
}

func TestModelViewAfterResize(t *testing.T) {
	m := newModel(Config{Current: "a\nb\n", Previous: "a\n", CurrentTitle: "v2", PreviousTitle: "v1"})
	require.False(t, m.ready)
	require.Equal(t, "initializing", m.View())

	_, _ = m.Update(tea.WindowSizeMsg{Width: 81, Height: 12})
	assert.Equal(t, 40, m.leftWidth)
	assert.Equal(t, 40, m.rightWidth)
	assert.Equal(t, 10, m.viewportHeight)
	assert.Equal(t, 40, m.current.Width)
	assert.Equal(t, 10, m.previous.Height)

	view := m.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 12)
	for i, line := range lines {
		assert.LessOrEqualf(t, lipgloss.Width(line), 81, "line %d too wide", i)
	}
	assert.Contains(t, lines[0], "v2")
	assert.Contains(t, lines[0], "v1")
}

func TestModel_CaretSyncsPreviousPane(t *testing.T) {
	m := insertedAtTop(t)

	// Rows 0-4 are inserted and have no counterpart; row 5 maps to previous row 0, which is already at the top.
	for i := 0; i < 5; i++ {
		_, _ = m.Update(keyRunes("j"))
		assert.Equal(t, 0, m.previous.YOffset)
	}
	assert.Equal(t, 5, m.cursor)

	_, _ = m.Update(keyRunes("j"))
	assert.Equal(t, 6, m.cursor)
	assert.Equal(t, 1, m.previous.YOffset)

	// Bottom: previous row 29 is requested; the viewport clamps at its last page.
	_, _ = m.Update(keyRunes("G"))
	assert.Equal(t, 34, m.cursor)
	assert.Equal(t, 20, m.previous.YOffset)
	assert.Equal(t, 25, m.current.YOffset)

	// Back to an inserted row: the previous pane holds its position.
	_, _ = m.Update(keyRunes("g"))
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.current.YOffset)
	assert.Equal(t, 20, m.previous.YOffset)
}

func TestModel_RepeatedMoveIsNoop(t *testing.T) {
	m := insertedAtTop(t)
	m.moveCaret(10)
	assert.Equal(t, 5, m.previous.YOffset)

	m.moveCaret(10)
	assert.Equal(t, 5, m.previous.YOffset)
	assert.Equal(t, 10, m.cursor)

	// Up at the top clamps to row 0.
	m.moveCaret(0)
	_, _ = m.Update(keyRunes("k"))
	assert.Equal(t, 0, m.cursor)
}

func TestModel_PageKeys(t *testing.T) {
	m := insertedAtTop(t)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 10, m.cursor)
	assert.Equal(t, 1, m.current.YOffset)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, m.cursor)
}

func TestModel_Hunks(t *testing.T) {
	previous := numbered("x", 20)
	current := strings.Replace(previous, "x3\n", "CHANGED\n", 1)
	current = strings.Replace(current, "x10\n", "x10\nADDED\n", 1)
	m := newModel(Config{Current: current, Previous: previous})
	_, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})

	require.Equal(t, []int{3, 11}, m.hunkStart)
	assert.Equal(t, presentation.StyleAdded, m.tags[presentation.SideCurrent][3])
	assert.Equal(t, presentation.StyleAdded, m.tags[presentation.SideCurrent][11])
	assert.Equal(t, "", m.tags[presentation.SideCurrent][10])
	assert.Equal(t, presentation.StyleDeleted, m.tags[presentation.SidePrevious][3])

	_, _ = m.Update(keyRunes("n"))
	assert.Equal(t, 3, m.cursor)
	_, _ = m.Update(keyRunes("n"))
	assert.Equal(t, 11, m.cursor)
	_, _ = m.Update(keyRunes("n"))
	assert.Equal(t, 11, m.cursor)
	_, _ = m.Update(keyRunes("N"))
	assert.Equal(t, 3, m.cursor)
}

func TestModel_DocumentsReplaceEverything(t *testing.T) {
	m := insertedAtTop(t)
	m.moveCaret(20)
	require.NotZero(t, m.previous.YOffset)

	_, _ = m.Update(DocumentsMsg{Current: "same\n", Previous: "same\n", CurrentTitle: "b", PreviousTitle: "a"})
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.previous.YOffset)
	assert.Equal(t, []string{""}, m.tags[presentation.SideCurrent])
	assert.Empty(t, m.hunkStart)
	assert.Equal(t, [2]string{"b", "a"}, m.titles)

	// The caret handler was attached once and reads the new mapping:
	assert.Len(t, m.caret.handlers, 1)
	m.moveCaret(0)
	assert.Equal(t, 0, m.previous.YOffset)
}

func TestModel_Quit(t *testing.T) {
	m := insertedAtTop(t)
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}

func TestModel_EmptyDocuments(t *testing.T) {
	m := newModel(Config{})
	_, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 6})
	_, _ = m.Update(keyRunes("j"))
	assert.Equal(t, 0, m.cursor)
	assert.Len(t, strings.Split(m.View(), "\n"), 6)
}

func TestRenderPane(t *testing.T) {
	st := defaultStyles()
	lines := []string{"short", "a line that is much too long for the pane"}
	out := strings.Split(renderPane(lines, []string{"", presentation.StyleAdded}, 12, -1, st), "\n")
	require.Len(t, out, 2)
	for _, l := range out {
		assert.Equal(t, 12, lipgloss.Width(l))
	}
	assert.Contains(t, out[0], "1 short")
	assert.Contains(t, out[1], "…")
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{""}, splitLines("\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "plain", sanitize("plain"))
	assert.Equal(t, "a   b", sanitize("a\tb"))
	assert.Equal(t, "x�y", sanitize("x\x01y"))
}

func TestRowTags(t *testing.T) {
	markers := []presentation.Marker{
		{StartRow: 1, EndRow: 3, Side: presentation.SidePrevious},
		{StartRow: 4, EndRow: 4, EndCol: 2, Side: presentation.SidePrevious},
	}
	assert.Equal(t, []string{"", "deleted", "deleted", "", "deleted"}, rowTags(markers, 5))
}
