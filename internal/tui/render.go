package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/codalotl/blobdiff/internal/presentation"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// splitLines splits doc into display lines without line terminators. An empty doc has no lines.
func splitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

// rowTags returns, per row, the style tag of the marker covering it ("" for none).
func rowTags(markers []presentation.Marker, rows int) []string {
	tags := make([]string, rows)
	for _, m := range markers {
		for r := m.StartRow; r <= m.LastRow() && r < rows; r++ {
			if r >= 0 {
				tags[r] = m.Style()
			}
		}
	}
	return tags
}

// sanitize expands tabs and replaces other control characters so that a line occupies a predictable number of cells.
func sanitize(line string) string {
	if !strings.ContainsFunc(line, unicode.IsControl) {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		switch {
		case r == '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case unicode.IsControl(r):
			b.WriteRune('�')
			col++
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}

// renderPane renders lines into exactly width cells each, with a line-number gutter. caret is the highlighted row, or -1.
func renderPane(lines []string, tags []string, width, caret int, st styles) string {
	gutterWidth := len(strconv.Itoa(max(1, len(lines))))
	contentWidth := max(1, width-gutterWidth-1)

	out := make([]string, len(lines))
	for i, line := range lines {
		num := fmt.Sprintf("%*d ", gutterWidth, i+1)
		if i == caret {
			num = st.caret.Render(num)
		} else {
			num = st.gutter.Render(num)
		}

		text := runewidth.FillRight(runewidth.Truncate(sanitize(line), contentWidth, "…"), contentWidth)
		if tags[i] != "" {
			text = st.marker(tags[i]).Render(text)
		}
		out[i] = num + text
	}
	return strings.Join(out, "\n")
}
