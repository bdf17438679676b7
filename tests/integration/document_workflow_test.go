package integration

import (
	"strings"
	"testing"

	"github.com/manuscriptlabs/manuscript/internal/diff"
	"github.com/manuscriptlabs/manuscript/internal/merge"
	"github.com/manuscriptlabs/manuscript/internal/store"
)

// TestDocumentBranchMergeWorkflow drives the full lifecycle: create a
// document, revise it, branch it, let both lines diverge, merge them back,
// resolve the conflict, and persist the resolution as a new version.
func TestDocumentBranchMergeWorkflow(testContext *testing.T) {
	documentStore, err := store.NewStore(store.StoreConfig{Root: testContext.TempDir()})
	if err != nil {
		testContext.Fatalf("unexpected error creating store: %v", err)
	}
	engine, err := merge.NewEngine(merge.EngineConfig{Store: documentStore})
	if err != nil {
		testContext.Fatalf("unexpected error creating engine: %v", err)
	}

	id, err := documentStore.Create("Title\n\nFirst paragraph.", "Essay", "md")
	if err != nil {
		testContext.Fatalf("unexpected error creating document: %v", err)
	}

	version, err := documentStore.AppendVersion(id, "Title\n\nFirst paragraph.\nSecond paragraph.", "added second paragraph")
	if err != nil {
		testContext.Fatalf("unexpected error appending version: %v", err)
	}
	if version != 2 {
		testContext.Fatalf("expected version 2, got %d", version)
	}

	branchID, err := engine.CreateBranch(id, "alternate ending", 0)
	if err != nil {
		testContext.Fatalf("unexpected error creating branch: %v", err)
	}

	// Both lines of work rewrite the second paragraph differently.
	if _, err := documentStore.AppendVersion(id, "Title\n\nFirst paragraph.\nMainline ending.", "mainline rewrite"); err != nil {
		testContext.Fatalf("unexpected error: %v", err)
	}
	if _, err := documentStore.AppendVersion(branchID, "Title\n\nFirst paragraph.\nBranch ending.", "branch rewrite"); err != nil {
		testContext.Fatalf("unexpected error: %v", err)
	}

	merged, conflicts, err := engine.Merge(id, branchID, 0)
	if err != nil {
		testContext.Fatalf("unexpected error merging: %v", err)
	}
	if len(conflicts) != 1 {
		testContext.Fatalf("expected one conflict, got %d", len(conflicts))
	}
	if !strings.Contains(merged, "Mainline ending.") || !strings.Contains(merged, "Branch ending.") {
		testContext.Fatalf("merged content missing conflict sides:\n%s", merged)
	}

	resolved, err := merge.Resolve(merged, map[string]merge.Resolution{
		conflicts[0].ID: {Choice: merge.ChoiceBoth},
	})
	if err != nil {
		testContext.Fatalf("unexpected error resolving: %v", err)
	}
	if strings.Contains(resolved, "<<<<<<<") {
		testContext.Fatalf("resolved content still carries markers:\n%s", resolved)
	}

	version, err = documentStore.AppendVersion(id, resolved, "merged alternate ending")
	if err != nil {
		testContext.Fatalf("unexpected error persisting merge: %v", err)
	}
	if version != 4 {
		testContext.Fatalf("expected version 4, got %d", version)
	}

	content, meta, err := documentStore.Read(id, 0)
	if err != nil {
		testContext.Fatalf("unexpected error reading back: %v", err)
	}
	if content != resolved {
		testContext.Fatalf("persisted content does not match resolution")
	}
	if meta.VersionCount != 4 || meta.CurrentVersion != 4 {
		testContext.Fatalf("unexpected metadata after merge: %#v", meta)
	}

	// Earlier versions remain readable and unchanged.
	original, _, err := documentStore.Read(id, 1)
	if err != nil {
		testContext.Fatalf("unexpected error reading version 1: %v", err)
	}
	if original != "Title\n\nFirst paragraph." {
		testContext.Fatalf("version 1 content changed: %q", original)
	}

	// The diff between the pre-merge and merged versions shows both endings.
	spans := diff.Lines("Title\n\nFirst paragraph.\nMainline ending.", content)
	var addedLines []string
	for _, span := range spans {
		if span.Op == diff.OpAdded {
			addedLines = append(addedLines, span.Items...)
		}
	}
	if len(addedLines) == 0 {
		testContext.Fatalf("expected added lines in merge diff, got %#v", spans)
	}
}

// TestBranchIsolation verifies that branch and source evolve independently
// after the branch point.
func TestBranchIsolation(testContext *testing.T) {
	documentStore, err := store.NewStore(store.StoreConfig{Root: testContext.TempDir()})
	if err != nil {
		testContext.Fatalf("unexpected error creating store: %v", err)
	}
	engine, err := merge.NewEngine(merge.EngineConfig{Store: documentStore})
	if err != nil {
		testContext.Fatalf("unexpected error creating engine: %v", err)
	}

	id, err := documentStore.Create("shared start", "Doc", "txt")
	if err != nil {
		testContext.Fatalf("unexpected error: %v", err)
	}
	branchID, err := engine.CreateBranch(id, "fork", 0)
	if err != nil {
		testContext.Fatalf("unexpected error: %v", err)
	}

	if _, err := documentStore.AppendVersion(id, "source moved on", ""); err != nil {
		testContext.Fatalf("unexpected error: %v", err)
	}

	branchContent, branchMeta, err := documentStore.Read(branchID, 0)
	if err != nil {
		testContext.Fatalf("unexpected error: %v", err)
	}
	if branchContent != "shared start" {
		testContext.Fatalf("branch content changed with source: %q", branchContent)
	}
	if branchMeta.VersionCount != 1 {
		testContext.Fatalf("branch gained versions from source: %d", branchMeta.VersionCount)
	}

	sourceContent, sourceMeta, err := documentStore.Read(id, 0)
	if err != nil {
		testContext.Fatalf("unexpected error: %v", err)
	}
	if sourceContent != "source moved on" {
		testContext.Fatalf("unexpected source content: %q", sourceContent)
	}
	if sourceMeta.Lineage != nil {
		testContext.Fatalf("source must not carry branch lineage: %#v", sourceMeta.Lineage)
	}
}
