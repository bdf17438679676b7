package merge

import "fmt"

// Conflict marker lines emitted into merged content. The format matches the
// blocks Resolve scans for.
const (
	markerTarget    = "<<<<<<< TARGET"
	markerSeparator = "======="
	markerSource    = ">>>>>>> SOURCE"
)

// Conflict describes one region where target and source diverge
// irreconcilably. The shape is identical for three-way and two-way merges.
//
// ID is derived from the delimiter block's position in the merged content
// (start and end line index of the block) and is the key Resolve expects.
// TargetStart/TargetEnd and SourceStart/SourceEnd are 0-indexed half-open
// line ranges into the target and source documents.
type Conflict struct {
	ID          string   `json:"id"`
	TargetStart int      `json:"target_start"`
	TargetEnd   int      `json:"target_end"`
	TargetLines []string `json:"target_lines"`
	SourceStart int      `json:"source_start"`
	SourceEnd   int      `json:"source_end"`
	SourceLines []string `json:"source_lines"`
}

func conflictID(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}

// appendConflictBlock writes a delimited conflict block to merged and returns
// the block's stable identifier.
func appendConflictBlock(merged []string, targetLines, sourceLines []string) ([]string, string) {
	start := len(merged)
	merged = append(merged, markerTarget)
	merged = append(merged, targetLines...)
	merged = append(merged, markerSeparator)
	merged = append(merged, sourceLines...)
	merged = append(merged, markerSource)
	end := len(merged) - 1
	return merged, conflictID(start, end)
}
