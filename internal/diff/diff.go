package diff

import "strings"

// Op classifies a diff span.
type Op uint8

const (
	// OpEqual marks content present in both inputs.
	OpEqual Op = iota
	// OpAdded marks content present only in the new input.
	OpAdded
	// OpRemoved marks content present only in the old input.
	OpRemoved
)

// String returns the wire name of the op.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpAdded:
		return "added"
	case OpRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Span is a run of consecutive items sharing one op. OldStart and NewStart
// are 0-indexed positions into the old and new sequences; for an added span
// OldStart is the alignment point in the old sequence (no old items are
// covered), and symmetrically for a removed span.
type Span struct {
	Op       Op
	OldStart int
	NewStart int
	Items    []string
}

// Lines computes the line-level diff between two texts. Within any changed
// region removed lines precede added lines, so the span sequence reads like
// the replace blocks of a unified diff.
func Lines(oldText, newText string) []Span {
	return Compare(SplitLines(oldText), SplitLines(newText))
}

// Words computes the word-level diff between two texts, tokenized on
// whitespace. Concatenating equal+added spans reconstructs the new text's
// words in order; equal+removed reconstructs the old text's words.
func Words(oldText, newText string) []Span {
	return Compare(strings.Fields(oldText), strings.Fields(newText))
}

// SplitLines splits text into lines without a trailing empty line for a
// trailing newline. Empty text yields no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Compare runs the diff over pre-split sequences.
func Compare(oldItems, newItems []string) []Span {
	edits := myers(oldItems, newItems)
	return buildSpans(oldItems, newItems, edits)
}

type edit struct {
	op       Op
	oldIndex int
	newIndex int
}

// myers computes a shortest edit script between the two sequences using the
// greedy O((n+m)d) algorithm.
func myers(oldItems, newItems []string) []edit {
	n := len(oldItems)
	m := len(newItems)
	if n == 0 && m == 0 {
		return nil
	}
	if n == 0 {
		edits := make([]edit, m)
		for j := range newItems {
			edits[j] = edit{op: OpAdded, newIndex: j}
		}
		return edits
	}
	if m == 0 {
		edits := make([]edit, n)
		for i := range oldItems {
			edits[i] = edit{op: OpRemoved, oldIndex: i}
		}
		return edits
	}

	max := n + m
	offset := max
	v := make([]int, 2*max+1)
	var trace [][]int

	depth := -1
search:
	for d := 0; d <= max; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && oldItems[x] == newItems[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				depth = d
				break search
			}
		}
	}

	// Backtrack from (n, m) through the recorded V vectors.
	var reversed []edit
	x, y := n, m
	for d := depth; d > 0; d-- {
		prev := trace[d]
		k := x - y
		var prevK int
		if k == -d || (k != d && prev[offset+k-1] < prev[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := prev[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			reversed = append(reversed, edit{op: OpEqual, oldIndex: x, newIndex: y})
		}
		if x == prevX {
			y--
			reversed = append(reversed, edit{op: OpAdded, newIndex: y})
		} else {
			x--
			reversed = append(reversed, edit{op: OpRemoved, oldIndex: x})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		reversed = append(reversed, edit{op: OpEqual, oldIndex: x, newIndex: y})
	}

	edits := make([]edit, len(reversed))
	for i := range reversed {
		edits[i] = reversed[len(reversed)-1-i]
	}
	return edits
}

// buildSpans groups the edit script into spans, normalizing every changed
// region so removals come before additions.
func buildSpans(oldItems, newItems []string, edits []edit) []Span {
	var spans []Span
	oldPos, newPos := 0, 0
	i := 0
	for i < len(edits) {
		if edits[i].op == OpEqual {
			span := Span{Op: OpEqual, OldStart: oldPos, NewStart: newPos}
			for i < len(edits) && edits[i].op == OpEqual {
				span.Items = append(span.Items, oldItems[edits[i].oldIndex])
				oldPos++
				newPos++
				i++
			}
			spans = append(spans, span)
			continue
		}

		regionOld, regionNew := oldPos, newPos
		var removed, added []string
		for i < len(edits) && edits[i].op != OpEqual {
			if edits[i].op == OpRemoved {
				removed = append(removed, oldItems[edits[i].oldIndex])
				oldPos++
			} else {
				added = append(added, newItems[edits[i].newIndex])
				newPos++
			}
			i++
		}
		if len(removed) > 0 {
			spans = append(spans, Span{Op: OpRemoved, OldStart: regionOld, NewStart: regionNew, Items: removed})
		}
		if len(added) > 0 {
			spans = append(spans, Span{Op: OpAdded, OldStart: oldPos, NewStart: regionNew, Items: added})
		}
	}
	return spans
}
