package diff

import (
	"fmt"
	"strings"
)

// DefaultContext is the number of unchanged lines kept around each change
// when grouping spans into hunks.
const DefaultContext = 3

// Line is a single rendered diff line with its op and 1-indexed positions.
// OldNumber and NewNumber are 0 when the line has no counterpart on that side.
type Line struct {
	Op        Op
	OldNumber int
	NewNumber int
	Content   string
}

// Hunk is a unified-diff style group of changed lines with surrounding
// context. Start/Count pairs are 1-indexed, matching @@ header conventions.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Hunks groups line spans into hunks, keeping up to context unchanged lines
// around each change. Hunks whose context windows touch are merged.
func Hunks(spans []Span, context int) []Hunk {
	if context < 0 {
		context = DefaultContext
	}

	lines := flatten(spans)

	var hunks []Hunk
	i := 0
	for i < len(lines) {
		if lines[i].Op == OpEqual {
			i++
			continue
		}

		// Found a change; open a hunk context lines earlier.
		start := i - context
		if start < 0 {
			start = 0
		}
		end := i
		lastChange := i
		for end < len(lines) {
			if lines[end].Op != OpEqual {
				lastChange = end
				end++
				continue
			}
			// A run of more than 2*context equal lines closes the hunk.
			run := 0
			for end+run < len(lines) && lines[end+run].Op == OpEqual {
				run++
			}
			if end+run >= len(lines) || run > 2*context {
				break
			}
			end += run
		}
		stop := lastChange + context + 1
		if stop > len(lines) {
			stop = len(lines)
		}

		hunks = append(hunks, newHunk(lines[start:stop]))
		i = stop
	}
	return hunks
}

func flatten(spans []Span) []Line {
	var lines []Line
	for _, span := range spans {
		for idx, item := range span.Items {
			switch span.Op {
			case OpEqual:
				lines = append(lines, Line{
					Op:        OpEqual,
					OldNumber: span.OldStart + idx + 1,
					NewNumber: span.NewStart + idx + 1,
					Content:   item,
				})
			case OpRemoved:
				lines = append(lines, Line{
					Op:        OpRemoved,
					OldNumber: span.OldStart + idx + 1,
					Content:   item,
				})
			case OpAdded:
				lines = append(lines, Line{
					Op:        OpAdded,
					NewNumber: span.NewStart + idx + 1,
					Content:   item,
				})
			}
		}
	}
	return lines
}

func newHunk(lines []Line) Hunk {
	hunk := Hunk{Lines: append([]Line(nil), lines...)}
	for _, line := range lines {
		if line.OldNumber > 0 {
			if hunk.OldStart == 0 {
				hunk.OldStart = line.OldNumber
			}
			hunk.OldCount++
		}
		if line.NewNumber > 0 {
			if hunk.NewStart == 0 {
				hunk.NewStart = line.NewNumber
			}
			hunk.NewCount++
		}
	}
	return hunk
}

// FormatUnified renders hunks as unified diff text with ---/+++ headers.
func FormatUnified(hunks []Hunk, fromLabel, toLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", fromLabel)
	fmt.Fprintf(&b, "+++ %s\n", toLabel)
	for _, hunk := range hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		for _, line := range hunk.Lines {
			switch line.Op {
			case OpRemoved:
				b.WriteString("-")
			case OpAdded:
				b.WriteString("+")
			default:
				b.WriteString(" ")
			}
			b.WriteString(line.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}
