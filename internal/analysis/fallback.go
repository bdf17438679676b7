package analysis

import (
	"fmt"
	"strings"

	"github.com/manuscriptlabs/manuscript/internal/diff"
)

// Offline heuristics used when no API key is configured. They keep the
// analysis commands functional without network access.

func fallbackSummary(content string) string {
	words := strings.Fields(content)
	sentences := splitSentences(content)
	paragraphs := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			paragraphs++
		}
	}

	var b strings.Builder
	b.WriteString("Document statistics (offline summary):\n")
	fmt.Fprintf(&b, "- %d words, %d sentences, %d paragraphs\n", len(words), len(sentences), paragraphs)
	if len(sentences) > 0 {
		b.WriteString("\nOpening:\n")
		limit := len(sentences)
		if limit > 2 {
			limit = 2
		}
		for _, sentence := range sentences[:limit] {
			fmt.Fprintf(&b, "  %s\n", strings.TrimSpace(sentence))
		}
	}
	return b.String()
}

func fallbackComparison(oldContent, newContent string) string {
	added, removed := 0, 0
	for _, span := range diff.Lines(oldContent, newContent) {
		switch span.Op {
		case diff.OpAdded:
			added += len(span.Items)
		case diff.OpRemoved:
			removed += len(span.Items)
		}
	}

	oldWords := len(strings.Fields(oldContent))
	newWords := len(strings.Fields(newContent))

	var b strings.Builder
	b.WriteString("Change statistics (offline comparison):\n")
	fmt.Fprintf(&b, "- %d lines added, %d lines removed\n", added, removed)
	fmt.Fprintf(&b, "- word count %d -> %d\n", oldWords, newWords)
	return b.String()
}

func fallbackSuggestions(content string) string {
	var suggestions []string

	sentences := splitSentences(content)
	long := 0
	for _, sentence := range sentences {
		if len(strings.Fields(sentence)) > 30 {
			long++
		}
	}
	if long > 0 {
		suggestions = append(suggestions, fmt.Sprintf("%d sentences exceed 30 words; consider splitting them", long))
	}
	if !strings.Contains(content, "\n\n") && len(strings.Fields(content)) > 150 {
		suggestions = append(suggestions, "the document is a single block; consider paragraph breaks")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "no structural issues detected by offline heuristics")
	}

	var b strings.Builder
	b.WriteString("Suggestions (offline heuristics):\n")
	for _, suggestion := range suggestions {
		fmt.Fprintf(&b, "- %s\n", suggestion)
	}
	return b.String()
}

func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
