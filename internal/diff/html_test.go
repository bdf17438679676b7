package diff

import (
	"strings"
	"testing"
)

func TestRenderHTMLMarksChanges(t *testing.T) {
	page, err := RenderHTML("a\nb\nc", "a\nB\nc", "Version 1", "Version 2", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(page, "Version 1") || !strings.Contains(page, "Version 2") {
		t.Fatalf("page missing version labels")
	}
	if !strings.Contains(page, `class="removed"`) {
		t.Fatalf("page missing removed row")
	}
	if !strings.Contains(page, `class="added"`) {
		t.Fatalf("page missing added row")
	}
	if !strings.Contains(page, ">b<") || !strings.Contains(page, ">B<") {
		t.Fatalf("page missing changed line content")
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	page, err := RenderHTML("safe", "<script>alert(1)</script>", "v1", "v2", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(page, "<script>alert(1)</script>") {
		t.Fatalf("content was not escaped")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Fatalf("expected escaped script tag in page")
	}
}

func TestRenderHTMLSeparatesDistantHunks(t *testing.T) {
	oldLines := numberedLines(40)
	newLines := numberedLines(40)
	newLines[2] = "changed a"
	newLines[30] = "changed b"

	page, err := RenderHTML(strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"), "v1", "v2", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(page, `class="gap"`) {
		t.Fatalf("expected a gap row between distant hunks")
	}
}
