package presentation

import (
	"strings"

	"github.com/codalotl/blobdiff/internal/linediff"
)

// New diffs previous to current and builds the Presentation.
func New(current, previous string, opts ...Option) Presentation {
	o := newOptions(opts)
	return build(linediff.ComputeWithOptions(current, previous, o.diffOps), o)
}

// Build computes markers and the row mapping from ops, which must be the output of linediff.Compute (or satisfy the same invariants). Value is reconstructed from
// ops.
func Build(ops []linediff.Operation, opts ...Option) Presentation {
	return build(ops, newOptions(opts))
}

func build(ops []linediff.Operation, o options) Presentation {
	current, previous := linediff.Reconstruct(ops)
	curLines, prevLines := linediff.LineCount(current), linediff.LineCount(previous)

	rows := make([]int, curLines)
	for i := range rows {
		rows[i] = unset
	}
	set := func(r, v int) {
		if r < 0 || r >= curLines || prevLines == 0 {
			return
		}
		rows[r] = min(v, prevLines-1)
	}

	var p Presentation
	p.Value = [2]string{current, previous}
	p.Ops = ops

	var cur, prev Cursor
	for i := 0; i < len(ops); {
		curBefore, prevBefore := cur, prev

		if ops[i].Kind == linediff.Equal {
			cur = cur.advance(ops[i].Text, o.width)
			prev = prev.advance(ops[i].Text, o.width)
			for r := curBefore.Row; r <= touchedUntil(curBefore, cur); r++ {
				set(r, prevBefore.Row+(r-curBefore.Row))
			}
			i++
			continue
		}

		// A maximal run of changes is one step:
		for ; i < len(ops) && ops[i].Kind != linediff.Equal; i++ {
			switch ops[i].Kind {
			case linediff.Insert:
				start := cur
				cur = cur.advance(ops[i].Text, o.width)
				p.Markers[SideCurrent] = append(p.Markers[SideCurrent], markerBetween(start, cur, SideCurrent))
			case linediff.Delete:
				start := prev
				prev = prev.advance(ops[i].Text, o.width)
				p.Markers[SidePrevious] = append(p.Markers[SidePrevious], markerBetween(start, prev, SidePrevious))
			}
		}
		if prev.Row != prevBefore.Row {
			for r := curBefore.Row; r <= touchedUntil(curBefore, cur); r++ {
				set(r, prev.Row)
			}
		}
	}

	p.RowMapping = RowMapping{rows: rows}
	return p
}

// touchedUntil returns the last row a step from start to end touches. A step ending at column 0 of a later row does not touch that row.
func touchedUntil(start, end Cursor) int {
	if end.Col == 0 && end.Row > start.Row {
		return end.Row - 1
	}
	return end.Row
}

func markerBetween(start, end Cursor, side Side) Marker {
	return Marker{StartCol: start.Col, StartRow: start.Row, EndCol: end.Col, EndRow: end.Row, Side: side}
}

// advance returns the cursor after typing text at c.
func (c Cursor) advance(text string, width func(string) int) Cursor {
	n := strings.Count(text, "\n")
	if n == 0 {
		c.Col += width(text)
		return c
	}
	c.Row += n
	c.Col = width(text[strings.LastIndexByte(text, '\n')+1:])
	return c
}
