package textdiff

import (
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

// slideToWordBoundaries shifts each lone insert/delete op sideways
// across its neighboring equal runs to the position that best aligns
// with word boundaries. Sliding never changes what the script
// reconstructs: an edit may only move while the surrounding
// concatenation stays identical.
func slideToWordBoundaries(ops []Op) []Op {
	for i := 1; i < len(ops)-1; i++ {
		if ops[i].Kind == OpEqual {
			continue
		}
		if ops[i-1].Kind != OpEqual || ops[i+1].Kind != OpEqual {
			continue
		}

		eq1, edit, eq2 := slideEdit(ops[i-1].Text, ops[i].Text, ops[i+1].Text)
		ops[i-1].Text = eq1
		ops[i].Text = edit
		ops[i+1].Text = eq2
	}
	return ops
}

// slideEdit finds the best placement of edit between equality runs.
// The concatenation eq1+edit+eq2 is invariant under sliding; candidate
// placements are scored by how well the edit's endpoints line up with
// word starts in that concatenation. Leftmost placement wins ties.
func slideEdit(eq1, edit, eq2 string) (string, string, string) {
	if edit == "" {
		return eq1, edit, eq2
	}

	// Shift as far left as possible.
	if n := commonSuffixLen(eq1, edit); n > 0 {
		common := edit[len(edit)-n:]
		eq1 = eq1[:len(eq1)-n]
		edit = common + edit[:len(edit)-n]
		eq2 = common + eq2
	}

	starts := wordStarts(eq1 + edit + eq2)
	total := len(eq1) + len(edit) + len(eq2)

	bestEq1, bestEdit, bestEq2 := eq1, edit, eq2
	bestScore := placementScore(len(eq1), len(edit), total, starts)

	// Step right one byte at a time, keeping the best-scoring placement.
	for len(eq2) > 0 && edit[0] == eq2[0] {
		eq1 += string(edit[0])
		edit = edit[1:] + string(eq2[0])
		eq2 = eq2[1:]

		score := placementScore(len(eq1), len(edit), total, starts)
		if score > bestScore {
			bestScore = score
			bestEq1, bestEdit, bestEq2 = eq1, edit, eq2
		}
	}

	return bestEq1, bestEdit, bestEq2
}

// placementScore rates an edit placement. An endpoint sitting on a word
// start reads cleanly in a change-tracking UI ("big " before "cat",
// never " big" after "The"); the window extremes also count so edits
// hug the surrounding context.
func placementScore(start, editLen, total int, starts map[int]bool) int {
	end := start + editLen
	score := 0
	if starts[start] {
		score += 2
	}
	if starts[end] {
		score += 2
	}
	if start == 0 {
		score++
	}
	if end == total {
		score++
	}
	return score
}

// wordStarts returns the byte offsets where a word token (one that
// begins with a letter or digit) starts, per UAX #29 segmentation.
func wordStarts(s string) map[int]bool {
	starts := make(map[int]bool)
	iter := words.FromString(s)
	for iter.Next() {
		r, _ := utf8.DecodeRuneInString(iter.Value())
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			starts[iter.Start()] = true
		}
	}
	return starts
}

// commonSuffixLen returns the length of the common suffix of a and b.
func commonSuffixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 1; i <= n; i++ {
		if a[len(a)-i] != b[len(b)-i] {
			return i - 1
		}
	}
	return n
}
