package linediff

import (
	"slices"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// cleanupSemantic reduces the number of edits in line-symbol diffs by eliminating equalities that are no longer than the edits on both sides of them, then
// extracts overlaps between adjacent deletions and insertions.
//
// This follows diffmatchpatch's DiffCleanupSemantic but measures everything in symbols (lines) and never slices symbol strings by byte offsets. The library
// version mixes rune counts and byte offsets in its lossless pass, which corrupts symbols once a document has more than 127 distinct lines. The lossless pass
// (shifting edits to word boundaries) is skipped: symbols have no word boundaries.
func cleanupSemantic(dmp *diffmatchpatch.DiffMatchPatch, diffs []diffmatchpatch.Diff) []diffmatchpatch.Diff {
	changes := false
	var equalities []int // Stack of indices of equalities.
	lastEquality := ""
	var ins1, del1 int // Symbols changed before lastEquality.
	var ins2, del2 int // Symbols changed after lastEquality.

	for pointer := 0; pointer < len(diffs); pointer++ {
		d := diffs[pointer]
		if d.Type == diffmatchpatch.DiffEqual {
			equalities = append(equalities, pointer)
			ins1, del1 = ins2, del2
			ins2, del2 = 0, 0
			lastEquality = d.Text
			continue
		}

		n := utf8.RuneCountInString(d.Text)
		if d.Type == diffmatchpatch.DiffInsert {
			ins2 += n
		} else {
			del2 += n
		}

		eqLen := utf8.RuneCountInString(lastEquality)
		if eqLen > 0 && eqLen <= max(ins1, del1) && eqLen <= max(ins2, del2) {
			at := equalities[len(equalities)-1]

			// Replace the equality with a deletion and an insertion of the same lines:
			diffs = slices.Insert(diffs, at, diffmatchpatch.Diff{Type: diffmatchpatch.DiffDelete, Text: lastEquality})
			diffs[at+1].Type = diffmatchpatch.DiffInsert

			// Drop the eliminated equality, and the one before it since it needs re-evaluation:
			equalities = equalities[:len(equalities)-1]
			if len(equalities) > 0 {
				equalities = equalities[:len(equalities)-1]
			}
			if len(equalities) > 0 {
				pointer = equalities[len(equalities)-1]
			} else {
				pointer = -1
			}

			ins1, del1, ins2, del2 = 0, 0, 0, 0
			lastEquality = ""
			changes = true
		}
	}

	if changes {
		diffs = dmp.DiffCleanupMerge(diffs)
	}

	return eliminateOverlaps(diffs)
}

// eliminateOverlaps looks at each deletion immediately followed by an insertion. If the end of one is the start of the other, and the shared lines make up at
// least half of either edit, the shared lines become an equality between the trimmed edits.
func eliminateOverlaps(diffs []diffmatchpatch.Diff) []diffmatchpatch.Diff {
	for pointer := 1; pointer < len(diffs); pointer++ {
		if diffs[pointer-1].Type != diffmatchpatch.DiffDelete || diffs[pointer].Type != diffmatchpatch.DiffInsert {
			continue
		}
		deletion := []rune(diffs[pointer-1].Text)
		insertion := []rune(diffs[pointer].Text)
		overlap1 := commonOverlap(deletion, insertion)
		overlap2 := commonOverlap(insertion, deletion)

		if overlap1 >= overlap2 {
			if overlap1 > 0 && (2*overlap1 >= len(deletion) || 2*overlap1 >= len(insertion)) {
				// Deletion ends with what insertion starts with:
				diffs = slices.Insert(diffs, pointer, diffmatchpatch.Diff{Type: diffmatchpatch.DiffEqual, Text: string(insertion[:overlap1])})
				diffs[pointer-1].Text = string(deletion[:len(deletion)-overlap1])
				diffs[pointer+1].Text = string(insertion[overlap1:])
				pointer++
			}
		} else if 2*overlap2 >= len(deletion) || 2*overlap2 >= len(insertion) {
			// Insertion ends with what deletion starts with; swap the edits around the equality:
			diffs = slices.Insert(diffs, pointer, diffmatchpatch.Diff{Type: diffmatchpatch.DiffEqual, Text: string(deletion[:overlap2])})
			diffs[pointer-1] = diffmatchpatch.Diff{Type: diffmatchpatch.DiffInsert, Text: string(insertion[:len(insertion)-overlap2])}
			diffs[pointer+1] = diffmatchpatch.Diff{Type: diffmatchpatch.DiffDelete, Text: string(deletion[overlap2:])}
			pointer++
		}
	}
	return diffs
}

// commonOverlap returns the length of the longest suffix of a that is also a prefix of b.
func commonOverlap(a, b []rune) int {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	a = a[len(a)-n:]
	b = b[:n]
	if slices.Equal(a, b) {
		return n
	}

	// Grow a candidate suffix of a, jumping to wherever it next occurs in b:
	best := 0
	length := 1
	for length <= n {
		found := runeIndex(b, a[n-length:])
		if found == -1 {
			return best
		}
		length += found
		if length > n {
			return best
		}
		if found == 0 || slices.Equal(a[n-length:], b[:length]) {
			best = length
			length++
		}
	}
	return best
}

// runeIndex returns the index of the first occurrence of sub in s, or -1.
func runeIndex(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
