package linediff

import (
	"fmt"
	"strings"
)

// validate checks the Operation invariants against the documents they were computed from and returns an error on the first violation.
func validate(ops []Operation, current, previous string) error {
	lastCur, lastPrev := -1, -1
	for i, op := range ops {
		if op.Text == "" {
			return fmt.Errorf("op[%d]: empty %s text", i, op.Kind)
		}
		if i > 0 && ops[i-1].Kind == op.Kind {
			return fmt.Errorf("op[%d]: adjacent ops share kind %s", i, op.Kind)
		}
		switch op.Kind {
		case Equal:
			lastCur, lastPrev = i, i
		case Insert:
			lastCur = i
		case Delete:
			lastPrev = i
		default:
			return fmt.Errorf("op[%d]: unknown kind %d", i, op.Kind)
		}
	}

	// Only the last run on each side may end without an EOL:
	for i, op := range ops {
		if strings.HasSuffix(op.Text, defaultEOL) {
			continue
		}
		switch op.Kind {
		case Equal:
			if i != lastCur || i != lastPrev {
				return fmt.Errorf("op[%d]: equal run is not whole lines", i)
			}
		case Insert:
			if i != lastCur {
				return fmt.Errorf("op[%d]: insert run is not whole lines", i)
			}
		case Delete:
			if i != lastPrev {
				return fmt.Errorf("op[%d]: delete run is not whole lines", i)
			}
		}
	}

	gotCur, gotPrev := Reconstruct(ops)
	if gotCur != current {
		return fmt.Errorf("ops do not reconstruct current")
	}
	if gotPrev != previous {
		return fmt.Errorf("ops do not reconstruct previous")
	}
	return nil
}
