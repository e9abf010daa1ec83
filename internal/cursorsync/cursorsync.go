// Package cursorsync keeps the previous-side pane of a dual-pane diff view aligned with the caret in the current-side pane.
//
// Sync is one-directional: the current pane is the only Source, and the previous pane is only ever a Pane that gets scrolled. The handler reads the row mapping
// through a Cell at event time, so it may be attached before the first mapping exists and keeps working across document replacements.
package cursorsync

import (
	"sync"
	"sync/atomic"

	"github.com/codalotl/blobdiff/internal/presentation"
)

// Pane is a scrollable view whose first visible row can be read and set.
type Pane interface {
	FirstVisibleRow() int
	ScrollToRow(row int)
}

// Source publishes the caret row of the current-side pane.
type Source interface {
	OnCursorMoved(handler func(row int))
}

// Cell holds the latest row mapping. The zero value is ready to use and maps nothing.
type Cell struct {
	p atomic.Pointer[presentation.RowMapping]
}

// Store replaces the mapping.
func (c *Cell) Store(m presentation.RowMapping) {
	c.p.Store(&m)
}

// Load returns the latest mapping, or the zero RowMapping if none has been stored.
func (c *Cell) Load() presentation.RowMapping {
	if m := c.p.Load(); m != nil {
		return *m
	}
	return presentation.RowMapping{}
}

// Syncer scrolls a target Pane in response to caret moves.
type Syncer struct {
	cell   *Cell
	target Pane

	attachOnce sync.Once
	attached   atomic.Bool
}

// New returns a Syncer that reads mappings from cell and scrolls target.
func New(cell *Cell, target Pane) *Syncer {
	return &Syncer{cell: cell, target: target}
}

// Attach registers the Syncer's handler on src. Only the first call registers; it returns false for every later call.
func (s *Syncer) Attach(src Source) bool {
	registered := false
	s.attachOnce.Do(func() {
		src.OnCursorMoved(func(row int) { s.CursorMoved(row) })
		s.attached.Store(true)
		registered = true
	})
	return registered
}

// Attached reports whether a handler has been registered.
func (s *Syncer) Attached() bool {
	return s.attached.Load()
}

// CursorMoved handles a caret move to row in the current pane. It scrolls the target so the mapped row is first visible and reports whether it scrolled. Rows
// without a mapping, or already aligned, leave the target alone.
func (s *Syncer) CursorMoved(row int) bool {
	prevRow, ok := s.cell.Load().Lookup(row)
	if !ok {
		return false
	}
	if s.target.FirstVisibleRow() == prevRow {
		return false
	}
	s.target.ScrollToRow(prevRow)
	return true
}
