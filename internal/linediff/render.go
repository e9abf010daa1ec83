package linediff

import (
	"fmt"
	"strings"
)

// RenderOptions control Render.
type RenderOptions struct {
	Color        bool   // Colorize with ANSI escapes.
	ContextSize  int    // Unchanged lines shown before and after each group of changes.
	CurrentName  string // Optional header name for the current revision.
	PreviousName string // Optional header name for the previous revision.
}

// Render returns a unified-style rendering of ops: "-" lines come from previous, "+" lines from current, " " lines are context. Groups of changes separated by
// at most 2*ContextSize unchanged lines are merged, and each group is introduced with an "@@ -prev,n +cur,m @@" header (1-based line numbers).
//
// If both names are empty no file header is emitted. Lines are rendered without their trailing newline. If ops contain no changes and no header is requested,
// the result is the empty string.
func Render(ops []Operation, opts RenderOptions) string {
	const (
		reset    = "\x1b[0m"
		red      = "\x1b[31m"
		green    = "\x1b[32m"
		magenta  = "\x1b[35m"
		cyanBold = "\x1b[1;36m"
	)

	colorize := func(s, code string) string {
		if !opts.Color {
			return s
		}
		return code + s + reset
	}

	type outLine struct {
		tag     byte // ' ', '+', '-'
		text    string
		prevNum int // 1-based line number in previous (context and '-')
		curNum  int // 1-based line number in current (context and '+')
	}

	// Flatten ops into lines numbered on both sides:
	var all []outLine
	prevNum, curNum := 1, 1
	for _, op := range ops {
		for _, ln := range splitPreserveEOL(op.Text, defaultEOL) {
			core, _ := trimEOL(ln, defaultEOL)
			switch op.Kind {
			case Equal:
				all = append(all, outLine{tag: ' ', text: core, prevNum: prevNum, curNum: curNum})
				prevNum++
				curNum++
			case Delete:
				all = append(all, outLine{tag: '-', text: core, prevNum: prevNum, curNum: curNum})
				prevNum++
			case Insert:
				all = append(all, outLine{tag: '+', text: core, prevNum: prevNum, curNum: curNum})
				curNum++
			}
		}
	}

	var out []string
	if opts.CurrentName != "" || opts.PreviousName != "" {
		out = append(out, colorize("--- "+opts.PreviousName, cyanBold))
		out = append(out, colorize("+++ "+opts.CurrentName, cyanBold))
	}

	ctx := opts.ContextSize
	if ctx < 0 {
		ctx = 0
	}

	i := 0
	for i < len(all) {
		if all[i].tag == ' ' {
			i++
			continue
		}

		// Extend the group while the next change is within 2*ctx context lines:
		start := i - ctx
		if start < 0 {
			start = 0
		}
		end := i
		for j := i; j < len(all); j++ {
			if all[j].tag != ' ' {
				end = j
				continue
			}
			if j-end > 2*ctx {
				break
			}
		}
		stop := end + ctx + 1
		if stop > len(all) {
			stop = len(all)
		}

		group := all[start:stop]
		prevCount, curCount := 0, 0
		for _, ol := range group {
			switch ol.tag {
			case ' ':
				prevCount++
				curCount++
			case '-':
				prevCount++
			case '+':
				curCount++
			}
		}
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", group[0].prevNum, prevCount, group[0].curNum, curCount)
		out = append(out, colorize(header, magenta))
		for _, ol := range group {
			line := string(ol.tag) + ol.text
			switch ol.tag {
			case '+':
				out = append(out, colorize(line, green))
			case '-':
				out = append(out, colorize(line, red))
			default:
				out = append(out, line)
			}
		}

		i = stop
	}

	return strings.Join(out, defaultEOL)
}
