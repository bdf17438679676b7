package merge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedConflict indicates a truncated conflict block: an opening
	// marker without its separator or closing marker.
	ErrMalformedConflict = errors.New("merge: malformed conflict block")
	// ErrInvalidResolution indicates a resolution with an unknown choice.
	ErrInvalidResolution = errors.New("merge: invalid resolution")
)

// Choice selects how a conflict is resolved.
type Choice string

const (
	// ChoiceTarget keeps the target side of the conflict.
	ChoiceTarget Choice = "target"
	// ChoiceSource keeps the source side of the conflict.
	ChoiceSource Choice = "source"
	// ChoiceBoth keeps the target side followed by the source side.
	ChoiceBoth Choice = "both"
	// ChoiceCustom replaces the conflict with caller-supplied text.
	ChoiceCustom Choice = "custom"
)

// Resolution resolves one conflict. Custom is consulted only when Choice is
// ChoiceCustom.
type Resolution struct {
	Choice Choice `json:"choice"`
	Custom string `json:"custom,omitempty"`
}

// Block is a conflict block located in a merged buffer. Start and End are
// the 0-indexed lines of the opening and closing markers; ID is the key
// Resolve expects for this block.
type Block struct {
	ID          string   `json:"id"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	TargetLines []string `json:"target_lines"`
	SourceLines []string `json:"source_lines"`
}

// Blocks scans merged content for conflict blocks in order. It fails with
// ErrMalformedConflict on a truncated block.
func Blocks(content string) ([]Block, error) {
	lines := strings.Split(content, "\n")

	var blocks []Block
	i := 0
	for i < len(lines) {
		if lines[i] != markerTarget {
			i++
			continue
		}
		start := i
		mid, end := -1, -1
		for j := i + 1; j < len(lines); j++ {
			if lines[j] == markerSeparator && mid < 0 {
				mid = j
			} else if lines[j] == markerSource {
				end = j
				break
			}
		}
		if mid < 0 || end < 0 {
			return nil, fmt.Errorf("%w: block opened at line %d is truncated", ErrMalformedConflict, start+1)
		}
		blocks = append(blocks, Block{
			ID:          conflictID(start, end),
			Start:       start,
			End:         end,
			TargetLines: append([]string(nil), lines[start+1:mid]...),
			SourceLines: append([]string(nil), lines[mid+1:end]...),
		})
		i = end + 1
	}
	return blocks, nil
}

// Resolve replaces conflict blocks in merged content according to the given
// resolutions, keyed by conflict id. Conflicts without a resolution are left
// in place with their markers, so resolution can proceed in several passes.
// Resolution operates on the text buffer only; persisting the result is the
// caller's decision.
func Resolve(content string, resolutions map[string]Resolution) (string, error) {
	lines := strings.Split(content, "\n")

	var out []string
	i := 0
	for i < len(lines) {
		if lines[i] != markerTarget {
			out = append(out, lines[i])
			i++
			continue
		}

		start := i
		mid, end := -1, -1
		for j := i + 1; j < len(lines); j++ {
			if lines[j] == markerSeparator && mid < 0 {
				mid = j
			} else if lines[j] == markerSource {
				end = j
				break
			}
		}
		if mid < 0 || end < 0 {
			return "", fmt.Errorf("%w: block opened at line %d is truncated", ErrMalformedConflict, start+1)
		}

		resolution, ok := resolutions[conflictID(start, end)]
		if !ok {
			out = append(out, lines[start:end+1]...)
			i = end + 1
			continue
		}

		switch resolution.Choice {
		case ChoiceTarget:
			out = append(out, lines[start+1:mid]...)
		case ChoiceSource:
			out = append(out, lines[mid+1:end]...)
		case ChoiceBoth:
			out = append(out, lines[start+1:mid]...)
			out = append(out, lines[mid+1:end]...)
		case ChoiceCustom:
			if resolution.Custom != "" {
				out = append(out, strings.Split(resolution.Custom, "\n")...)
			}
		default:
			return "", fmt.Errorf("%w: unknown choice %q", ErrInvalidResolution, resolution.Choice)
		}
		i = end + 1
	}

	return strings.Join(out, "\n"), nil
}
