package cursorsync

import (
	"sync/atomic"

	"github.com/codalotl/blobdiff/internal/presentation"
)

// Session couples a document pair, its presentation, and the Syncer that aligns the two panes. Replace swaps in a new pair; nothing from the old pair survives.
type Session struct {
	opts   []presentation.Option
	cell   Cell
	syncer *Syncer
	pres   atomic.Pointer[presentation.Presentation]
}

// NewSession returns a Session that scrolls target. opts are used for every presentation the Session builds. Until Replace is called the session holds two empty
// documents.
func NewSession(target Pane, opts ...presentation.Option) *Session {
	s := &Session{opts: opts}
	s.syncer = New(&s.cell, target)
	return s
}

// Replace recomputes the presentation for a new document pair and makes it current.
func (s *Session) Replace(current, previous string) presentation.Presentation {
	p := presentation.New(current, previous, s.opts...)
	s.pres.Store(&p)
	s.cell.Store(p.RowMapping)
	return p
}

// Presentation returns the latest presentation.
func (s *Session) Presentation() presentation.Presentation {
	if p := s.pres.Load(); p != nil {
		return *p
	}
	return presentation.Presentation{}
}

// Attach registers the session's handler on src once. See Syncer.Attach.
func (s *Session) Attach(src Source) bool {
	return s.syncer.Attach(src)
}

// CursorMoved forwards a caret move to the Syncer.
func (s *Session) CursorMoved(row int) bool {
	return s.syncer.CursorMoved(row)
}
