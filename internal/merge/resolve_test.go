package merge

import (
	"errors"
	"strings"
	"testing"
)

func conflictedBuffer() string {
	return strings.Join([]string{
		"intro",
		"<<<<<<< TARGET",
		"target one",
		"target two",
		"=======",
		"source one",
		">>>>>>> SOURCE",
		"outro",
	}, "\n")
}

func TestBlocksListsConflictsInOrder(t *testing.T) {
	content := strings.Join([]string{
		"<<<<<<< TARGET",
		"a",
		"=======",
		"b",
		">>>>>>> SOURCE",
		"between",
		"<<<<<<< TARGET",
		"c",
		"=======",
		"d",
		">>>>>>> SOURCE",
	}, "\n")

	blocks, err := Blocks(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].ID != "0-4" || blocks[1].ID != "6-10" {
		t.Fatalf("unexpected block ids: %q, %q", blocks[0].ID, blocks[1].ID)
	}
	if blocks[0].TargetLines[0] != "a" || blocks[0].SourceLines[0] != "b" {
		t.Fatalf("unexpected first block sides: %#v", blocks[0])
	}
	if blocks[1].TargetLines[0] != "c" || blocks[1].SourceLines[0] != "d" {
		t.Fatalf("unexpected second block sides: %#v", blocks[1])
	}
}

func TestBlocksOnCleanContent(t *testing.T) {
	blocks, err := Blocks("no conflicts\nhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %#v", blocks)
	}
}

func TestBlocksTruncatedBlockFails(t *testing.T) {
	content := "<<<<<<< TARGET\ntarget\n=======\nsource"

	if _, err := Blocks(content); !errors.Is(err, ErrMalformedConflict) {
		t.Fatalf("expected ErrMalformedConflict, got %v", err)
	}
}

func TestResolveWithoutResolutionsRoundTrips(t *testing.T) {
	content := conflictedBuffer()

	resolved, err := Resolve(content, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != content {
		t.Fatalf("content changed without resolutions:\n%s", resolved)
	}
}

func TestResolveChoices(t *testing.T) {
	cases := []struct {
		name       string
		resolution Resolution
		expected   string
	}{
		{
			name:       "target",
			resolution: Resolution{Choice: ChoiceTarget},
			expected:   "intro\ntarget one\ntarget two\noutro",
		},
		{
			name:       "source",
			resolution: Resolution{Choice: ChoiceSource},
			expected:   "intro\nsource one\noutro",
		},
		{
			name:       "both",
			resolution: Resolution{Choice: ChoiceBoth},
			expected:   "intro\ntarget one\ntarget two\nsource one\noutro",
		},
		{
			name:       "custom",
			resolution: Resolution{Choice: ChoiceCustom, Custom: "rewritten\nby hand"},
			expected:   "intro\nrewritten\nby hand\noutro",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := Resolve(conflictedBuffer(), map[string]Resolution{
				"1-6": tc.resolution,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resolved != tc.expected {
				t.Fatalf("unexpected result:\n%s", resolved)
			}
		})
	}
}

func TestResolveEmptyCustomDropsBlock(t *testing.T) {
	resolved, err := Resolve(conflictedBuffer(), map[string]Resolution{
		"1-6": {Choice: ChoiceCustom},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != "intro\noutro" {
		t.Fatalf("unexpected result:\n%s", resolved)
	}
}

func TestResolveUnknownChoiceFails(t *testing.T) {
	_, err := Resolve(conflictedBuffer(), map[string]Resolution{
		"1-6": {Choice: Choice("theirs")},
	})
	if !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("expected ErrInvalidResolution, got %v", err)
	}
}

func TestResolveLeavesUnresolvedBlocksForLaterPasses(t *testing.T) {
	content := strings.Join([]string{
		"<<<<<<< TARGET",
		"a",
		"=======",
		"b",
		">>>>>>> SOURCE",
		"between",
		"<<<<<<< TARGET",
		"c",
		"=======",
		"d",
		">>>>>>> SOURCE",
	}, "\n")

	resolved, err := Resolve(content, map[string]Resolution{
		"0-4": {Choice: ChoiceTarget},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := strings.Join([]string{
		"a",
		"between",
		"<<<<<<< TARGET",
		"c",
		"=======",
		"d",
		">>>>>>> SOURCE",
	}, "\n")
	if resolved != expected {
		t.Fatalf("unexpected result:\n%s", resolved)
	}

	// The remaining block can be resolved in a second pass under its new id.
	blocks, err := Blocks(resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected one remaining block, got %d", len(blocks))
	}
	final, err := Resolve(resolved, map[string]Resolution{
		blocks[0].ID: {Choice: ChoiceSource},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final != "a\nbetween\nd" {
		t.Fatalf("unexpected result:\n%s", final)
	}
}

func TestResolveTruncatedBlockFails(t *testing.T) {
	_, err := Resolve("<<<<<<< TARGET\nonly target", nil)
	if !errors.Is(err, ErrMalformedConflict) {
		t.Fatalf("expected ErrMalformedConflict, got %v", err)
	}
}

func TestMergeConflictIDsMatchResolve(t *testing.T) {
	documentStore, engine := newTestEngine(t)

	id, err := documentStore.Create("X\nY", "A", "txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	branchID, err := engine.CreateBranch(id, "B", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := documentStore.AppendVersion(id, "X\nY\nZ-A", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := documentStore.AppendVersion(branchID, "X\nY\nZ-B", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, conflicts, err := engine.Merge(id, branchID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %d", len(conflicts))
	}

	resolved, err := Resolve(content, map[string]Resolution{
		conflicts[0].ID: {Choice: ChoiceSource},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != "X\nY\nZ-B" {
		t.Fatalf("unexpected result:\n%s", resolved)
	}
}
