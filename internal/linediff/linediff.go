package linediff

import (
	"strings"
	"time"
)

// Kind classifies an Operation.
type Kind int

// Operation kinds, from previous to current.
const (
	Equal  Kind = iota
	Insert      // present in current, absent in previous
	Delete      // present in previous, absent in current
)

func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Operation is one run of whole lines tagged with the Kind of change it represents.
type Operation struct {
	Kind Kind
	Text string // One or more whole lines. The trailing '\n' is part of the text.
}

// Options tune Compute.
type Options struct {
	// Timeout bounds the time spent searching for a minimal diff. Zero means no limit, which keeps output deterministic. A non-zero timeout may produce a coarser
	// (still valid) diff on very large inputs, and which diff is produced can depend on machine load.
	Timeout time.Duration
}

// Reconstruct returns the two documents described by ops: current is the concatenation of Equal and Insert texts; previous is the concatenation of Equal and
// Delete texts.
func Reconstruct(ops []Operation) (current string, previous string) {
	var cur, prev strings.Builder
	for _, op := range ops {
		switch op.Kind {
		case Equal:
			cur.WriteString(op.Text)
			prev.WriteString(op.Text)
		case Insert:
			cur.WriteString(op.Text)
		case Delete:
			prev.WriteString(op.Text)
		}
	}
	return cur.String(), prev.String()
}

// LineCount returns the number of lines in text: every '\n'-terminated line, plus one for a non-empty unterminated tail. The empty string has 0 lines.
func LineCount(text string) int {
	n := strings.Count(text, defaultEOL)
	if text != "" && !strings.HasSuffix(text, defaultEOL) {
		n++
	}
	return n
}

// Changed reports whether ops contain any Insert or Delete.
func Changed(ops []Operation) bool {
	for _, op := range ops {
		if op.Kind != Equal {
			return true
		}
	}
	return false
}

// defaultEOL is the line separator. "\r\n" documents work because '\r' stays attached to its line.
const defaultEOL = "\n"
