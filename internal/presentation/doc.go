// Package presentation turns line-diff operations into the two structures a dual-pane diff view needs: highlight markers for each pane, and a sparse mapping
// from rows of the current document to corresponding rows of the previous document.
//
// Build walks the operations once, carrying one Cursor per document. A cursor moves the way a text caret would if the operation's text were typed: without a line
// break the column grows by the text's length; with n line breaks the row grows by n and the column becomes the length of the text after the last break.
//
// Markers: an Insert operation produces a SideCurrent marker, a Delete produces a SidePrevious marker, spanning the cursor positions before and after the
// operation. Equal operations produce none. Markers on each side are ordered and never overlap.
//
// Row mapping: operations are grouped into steps. A step is one Equal operation or a maximal run of adjacent Insert/Delete operations. A step touches the current
// rows from where its current cursor starts through where it ends, except that ending at column 0 of a later row does not touch that row.
//   - Equal step: each current row touched by the step maps to the previous row at the same offset from where the step started.
//   - Change step that moved the previous cursor to a later row (a deletion or replacement): every touched current row maps to the previous row reached at the
//     end of the step.
//   - Change step that did not move the previous cursor's row (a pure insertion): no entries; rows inside inserted runs stay unset.
//
// Entries only exist for rows that exist in the current document, and values are clamped to the last row of the previous document. RowMapping values are
// monotonically non-decreasing as the current row increases. Consumers must treat an unset row as "no counterpart", never as row 0.
package presentation
