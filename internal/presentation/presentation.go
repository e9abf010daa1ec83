package presentation

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/codalotl/blobdiff/internal/linediff"
)

// Side identifies one of the two documents of a diff.
type Side int

// Sides, in the order they appear in Presentation.Value and Presentation.Markers.
const (
	SideCurrent Side = iota
	SidePrevious
)

func (s Side) String() string {
	switch s {
	case SideCurrent:
		return "current"
	case SidePrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// Style tags for markers.
const (
	StyleAdded   = "added"   // Current-side region absent from previous.
	StyleDeleted = "deleted" // Previous-side region absent from current.
)

// Cursor is a zero-based (column, row) position in one document.
type Cursor struct {
	Col int
	Row int
}

// Marker is a highlighted region of one document, from (StartRow, StartCol) inclusive to (EndRow, EndCol) exclusive. StartRow <= EndRow.
type Marker struct {
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
	Side     Side
}

// Style returns StyleAdded for current-side markers and StyleDeleted for previous-side markers.
func (m Marker) Style() string {
	if m.Side == SidePrevious {
		return StyleDeleted
	}
	return StyleAdded
}

// LastRow returns the last row that contains at least one highlighted character. A marker ending at column 0 of a later row does not cover that row.
func (m Marker) LastRow() int {
	if m.EndCol == 0 && m.EndRow > m.StartRow {
		return m.EndRow - 1
	}
	return m.EndRow
}

// CoversRow reports whether row is within [StartRow, LastRow()].
func (m Marker) CoversRow(row int) bool {
	return row >= m.StartRow && row <= m.LastRow()
}

// RowMapping is a sparse mapping from rows of the current document to rows of the previous document. The zero value maps nothing.
type RowMapping struct {
	rows []int // rows[r] is the previous row for current row r, or unset.
}

const unset = -1

// Lookup returns the previous row corresponding to current row, and whether one is defined.
func (m RowMapping) Lookup(row int) (int, bool) {
	if row < 0 || row >= len(m.rows) || m.rows[row] == unset {
		return 0, false
	}
	return m.rows[row], true
}

// Len returns the number of defined entries.
func (m RowMapping) Len() int {
	n := 0
	for _, v := range m.rows {
		if v != unset {
			n++
		}
	}
	return n
}

// Entries returns defined entries as a map from current row to previous row.
func (m RowMapping) Entries() map[int]int {
	out := make(map[int]int, len(m.rows))
	for r, v := range m.rows {
		if v != unset {
			out[r] = v
		}
	}
	return out
}

// Presentation is everything a dual-pane view renders for one (current, previous) pair. Index 0 of Value and Markers is the current side; index 1 is the previous
// side.
type Presentation struct {
	Value      [2]string
	Markers    [2][]Marker
	RowMapping RowMapping
	Ops        []linediff.Operation
}

// Current returns the current document.
func (p Presentation) Current() string { return p.Value[SideCurrent] }

// Previous returns the previous document.
func (p Presentation) Previous() string { return p.Value[SidePrevious] }

// Changed reports whether the documents differ.
func (p Presentation) Changed() bool { return linediff.Changed(p.Ops) }

// Option configures Build and New.
type Option func(*options)

type options struct {
	width   func(string) int
	diffOps linediff.Options
}

// WithUTF16Columns counts columns in UTF-16 code units instead of runes. Browser editors address columns this way.
func WithUTF16Columns() Option {
	return func(o *options) {
		o.width = utf16Width
	}
}

// WithDiffOptions passes opts to linediff when New computes the diff.
func WithDiffOptions(opts linediff.Options) Option {
	return func(o *options) {
		o.diffOps = opts
	}
}

func newOptions(opts []Option) options {
	o := options{width: utf8.RuneCountInString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func utf16Width(s string) int {
	n := 0
	for _, r := range s {
		if utf16.RuneLen(r) == 2 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
