package merge

import (
	"strings"

	"github.com/manuscriptlabs/manuscript/internal/diff"
	"go.uber.org/zap"
)

// Merge reconciles the source document (at sourceVersion, 0 meaning current)
// into the target document's current content. When the source's lineage names
// the target as its origin, the target content at the recorded branch version
// serves as the common ancestor for a three-way merge; otherwise the two
// contents are merged directly.
//
// The returned content contains delimited conflict blocks for every entry in
// the conflict list; an empty list means the merge was fully automatic. The
// result is not persisted — the caller decides whether to store it as a new
// version.
func (e *Engine) Merge(targetID, sourceID string, sourceVersion int) (string, []Conflict, error) {
	sourceContent, sourceMeta, err := e.store.Read(sourceID, sourceVersion)
	if err != nil {
		return "", nil, err
	}
	targetContent, _, err := e.store.Read(targetID, 0)
	if err != nil {
		return "", nil, err
	}

	targetLines := diff.SplitLines(targetContent)
	sourceLines := diff.SplitLines(sourceContent)

	var merged []string
	var conflicts []Conflict

	lineage := sourceMeta.Lineage
	if lineage != nil && lineage.SourceID == targetID {
		ancestorContent, _, err := e.store.Read(targetID, lineage.SourceVersion)
		if err != nil {
			return "", nil, err
		}
		merged, conflicts = threeWay(diff.SplitLines(ancestorContent), targetLines, sourceLines)
	} else {
		merged, conflicts = twoWay(targetLines, sourceLines)
	}

	e.logger.Info("merge computed",
		zap.String("target_id", targetID),
		zap.String("source_id", sourceID),
		zap.Bool("three_way", lineage != nil && lineage.SourceID == targetID),
		zap.Int("conflicts", len(conflicts)))

	return strings.Join(merged, "\n"), conflicts, nil
}

// threeWay walks both sides against the shared ancestor, anchored on ancestor
// line numbers. Lines matched by both sides at the same ancestor position
// bound the unstable regions between them; each region is resolved
// independently.
func threeWay(ancestor, target, source []string) ([]string, []Conflict) {
	matchTarget := matchAncestor(ancestor, target)
	matchSource := matchAncestor(ancestor, source)

	var merged []string
	var conflicts []Conflict

	a, t, s := 0, 0, 0
	for {
		// Advance to the next ancestor line kept unchanged by both sides.
		anchor := a
		for anchor < len(ancestor) && (matchTarget[anchor] < 0 || matchSource[anchor] < 0) {
			anchor++
		}

		tEnd, sEnd := len(target), len(source)
		if anchor < len(ancestor) {
			tEnd = matchTarget[anchor]
			sEnd = matchSource[anchor]
		}

		merged, conflicts = mergeRegion(merged, conflicts,
			ancestor[a:anchor], target[t:tEnd], source[s:sEnd], t, s)

		if anchor == len(ancestor) {
			break
		}

		merged = append(merged, ancestor[anchor])
		a = anchor + 1
		t = tEnd + 1
		s = sEnd + 1
	}

	return merged, conflicts
}

// mergeRegion resolves one unstable region. targetAt and sourceAt are the
// region's starting line offsets in the target and source documents, used for
// the conflict record's ranges.
func mergeRegion(merged []string, conflicts []Conflict, ancestor, target, source []string, targetAt, sourceAt int) ([]string, []Conflict) {
	targetChanged := !equalLines(ancestor, target)
	sourceChanged := !equalLines(ancestor, source)

	switch {
	case !targetChanged && !sourceChanged:
		merged = append(merged, ancestor...)
	case targetChanged && !sourceChanged:
		merged = append(merged, target...)
	case !targetChanged && sourceChanged:
		merged = append(merged, source...)
	case equalLines(target, source):
		// Both sides made the same change.
		merged = append(merged, target...)
	default:
		var id string
		merged, id = appendConflictBlock(merged, target, source)
		conflicts = append(conflicts, Conflict{
			ID:          id,
			TargetStart: targetAt,
			TargetEnd:   targetAt + len(target),
			TargetLines: append([]string(nil), target...),
			SourceStart: sourceAt,
			SourceEnd:   sourceAt + len(source),
			SourceLines: append([]string(nil), source...),
		})
	}
	return merged, conflicts
}

// matchAncestor maps each ancestor line index to the side's line index it is
// aligned with, or -1 where the side removed or replaced the line.
func matchAncestor(ancestor, side []string) []int {
	match := make([]int, len(ancestor))
	for i := range match {
		match[i] = -1
	}
	for _, span := range diff.Compare(ancestor, side) {
		if span.Op != diff.OpEqual {
			continue
		}
		for offset := range span.Items {
			match[span.OldStart+offset] = span.NewStart + offset
		}
	}
	return match
}

// twoWay merges without a common ancestor. Aligned regions are copied once,
// one-sided regions are copied through, and replace regions become conflicts
// carrying the full unmatched range from each side.
func twoWay(target, source []string) ([]string, []Conflict) {
	spans := diff.Compare(target, source)

	var merged []string
	var conflicts []Conflict

	i := 0
	for i < len(spans) {
		span := spans[i]
		switch span.Op {
		case diff.OpEqual:
			merged = append(merged, span.Items...)
			i++
		case diff.OpRemoved:
			if i+1 < len(spans) && spans[i+1].Op == diff.OpAdded {
				// Both sides replace the same alignment span.
				added := spans[i+1]
				var id string
				merged, id = appendConflictBlock(merged, span.Items, added.Items)
				conflicts = append(conflicts, Conflict{
					ID:          id,
					TargetStart: span.OldStart,
					TargetEnd:   span.OldStart + len(span.Items),
					TargetLines: append([]string(nil), span.Items...),
					SourceStart: added.NewStart,
					SourceEnd:   added.NewStart + len(added.Items),
					SourceLines: append([]string(nil), added.Items...),
				})
				i += 2
				continue
			}
			// Lines present only in the target.
			merged = append(merged, span.Items...)
			i++
		case diff.OpAdded:
			// Lines present only in the source.
			merged = append(merged, span.Items...)
			i++
		}
	}

	return merged, conflicts
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
