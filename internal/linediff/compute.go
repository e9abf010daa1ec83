package linediff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// maxSymbols is the number of distinct lines that can be interned before symbols would enter the UTF-16 surrogate range, which Go strings cannot carry through
// diffmatchpatch's string-typed Diff.Text.
const maxSymbols = 0xD800

// Compute diffs previous to current at line granularity and returns the cleaned-up operations. It never fails for valid strings; an internal inconsistency
// panics.
func Compute(current, previous string) []Operation {
	return ComputeWithOptions(current, previous, Options{})
}

// ComputeWithOptions is Compute with tunable Options.
func ComputeWithOptions(current, previous string, opts Options) []Operation {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = opts.Timeout

	// Diff based on lines. previous is text1 so that diffmatchpatch's inserts are the lines present in current:
	rPrev, rCur, lineArray := dmp.DiffLinesToRunes(previous, current)

	var ops []Operation
	if len(lineArray) > maxSymbols {
		ops = coarseDiff(current, previous)
	} else {
		symbolDiffs := dmp.DiffMainRunes(rPrev, rCur, false)
		symbolDiffs = cleanupSemantic(dmp, symbolDiffs)
		ops = decode(symbolDiffs, lineArray)
	}
	ops = coalesce(ops)

	if err := validate(ops, current, previous); err != nil {
		panic(fmt.Errorf("linediff.Compute: validate failed with %v", err))
	}

	return ops
}

// decode rehydrates symbol diffs into line-text operations using lineArray.
func decode(diffs []diffmatchpatch.Diff, lineArray []string) []Operation {
	ops := make([]Operation, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var b strings.Builder
		for _, r := range d.Text {
			idx := int(r)
			if idx > 0 && idx < len(lineArray) {
				b.WriteString(lineArray[idx])
			}
		}
		var kind Kind
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			kind = Equal
		case diffmatchpatch.DiffInsert:
			kind = Insert
		case diffmatchpatch.DiffDelete:
			kind = Delete
		}
		ops = append(ops, Operation{Kind: kind, Text: b.String()})
	}
	return ops
}

// coalesce drops empty runs and merges adjacent runs of the same Kind. Within a run of non-Equal operations, deletes are ordered before inserts.
func coalesce(ops []Operation) []Operation {
	var out []Operation
	var dels, ins strings.Builder

	flush := func() {
		if dels.Len() > 0 {
			out = append(out, Operation{Kind: Delete, Text: dels.String()})
			dels.Reset()
		}
		if ins.Len() > 0 {
			out = append(out, Operation{Kind: Insert, Text: ins.String()})
			ins.Reset()
		}
	}

	for _, op := range ops {
		if op.Text == "" {
			continue
		}
		switch op.Kind {
		case Delete:
			dels.WriteString(op.Text)
		case Insert:
			ins.WriteString(op.Text)
		default:
			flush()
			if len(out) > 0 && out[len(out)-1].Kind == Equal {
				out[len(out)-1].Text += op.Text
				continue
			}
			out = append(out, op)
		}
	}
	flush()

	return out
}

// coarseDiff trims the common line prefix and suffix and reports everything in between as one replacement. It serves inputs with too many distinct lines to
// intern.
func coarseDiff(current, previous string) []Operation {
	curLines := splitPreserveEOL(current, defaultEOL)
	prevLines := splitPreserveEOL(previous, defaultEOL)

	prefix := 0
	for prefix < len(curLines) && prefix < len(prevLines) && curLines[prefix] == prevLines[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(curLines)-prefix && suffix < len(prevLines)-prefix && curLines[len(curLines)-1-suffix] == prevLines[len(prevLines)-1-suffix] {
		suffix++
	}

	return []Operation{
		{Kind: Equal, Text: strings.Join(curLines[:prefix], "")},
		{Kind: Delete, Text: strings.Join(prevLines[prefix:len(prevLines)-suffix], "")},
		{Kind: Insert, Text: strings.Join(curLines[prefix:len(curLines)-suffix], "")},
		{Kind: Equal, Text: strings.Join(curLines[len(curLines)-suffix:], "")},
	}
}

// splitPreserveEOL splits text by eol and preserves the eol on each line, except possibly the last.
func splitPreserveEOL(text, eol string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for {
		idx := strings.Index(text, eol)
		if idx == -1 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx+len(eol)])
		text = text[idx+len(eol):]
		if text == "" {
			break
		}
	}
	return lines
}

// trimEOL removes a trailing eol from a line if present.
func trimEOL(line, eol string) (string, bool) {
	if eol != "" && strings.HasSuffix(line, eol) {
		return line[:len(line)-len(eol)], true
	}
	return line, false
}
