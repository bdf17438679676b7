package analysis

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/manuscriptlabs/manuscript/internal/diff"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "claude-sonnet-4-5-20250929"
	// DefaultMaxTokens bounds the response length of a single analysis call.
	DefaultMaxTokens = 800

	systemPrompt = "You are an assistant that analyzes text documents. " +
		"Answer concisely and refer to specific lines where useful."
)

// Config configures an Analyzer. With an empty APIKey the analyzer runs in
// offline mode and every call falls back to local heuristics.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

// Analyzer produces document summaries, version comparisons, and improvement
// suggestions. The rest of the system has no dependency on it and works with
// it entirely absent.
type Analyzer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	online    bool
	logger    *zap.Logger
}

// NewAnalyzer builds an Analyzer from the configuration.
func NewAnalyzer(cfg Config) *Analyzer {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	analyzer := &Analyzer{
		model:     model,
		maxTokens: maxTokens,
		online:    cfg.APIKey != "",
		logger:    logger,
	}
	if analyzer.online {
		analyzer.client = anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	} else {
		logger.Info("analysis running offline, using heuristic fallbacks")
	}
	return analyzer
}

// Online reports whether calls go to the model API.
func (a *Analyzer) Online() bool {
	return a.online
}

// Summarize produces a short summary of the document content.
func (a *Analyzer) Summarize(ctx context.Context, content string) (string, error) {
	if !a.online {
		return fallbackSummary(content), nil
	}
	prompt := fmt.Sprintf("Summarize the following document in a short paragraph "+
		"followed by up to five key points.\n\n%s", content)
	return a.generate(ctx, prompt)
}

// CompareVersions describes what changed between two versions of a document.
func (a *Analyzer) CompareVersions(ctx context.Context, oldContent, newContent string) (string, error) {
	if !a.online {
		return fallbackComparison(oldContent, newContent), nil
	}
	unified := diff.FormatUnified(diff.Hunks(diff.Lines(oldContent, newContent), diff.DefaultContext), "old", "new")
	prompt := fmt.Sprintf("Describe the meaningful changes between two versions of a document, "+
		"based on this unified diff. Group related edits and note anything that changes the document's meaning.\n\n%s", unified)
	return a.generate(ctx, prompt)
}

// SuggestImprovements proposes edits that would improve the document.
func (a *Analyzer) SuggestImprovements(ctx context.Context, content string) (string, error) {
	if !a.online {
		return fallbackSuggestions(content), nil
	}
	prompt := fmt.Sprintf("Suggest concrete improvements to the following document: "+
		"clarity, structure, and wording. List the suggestions in priority order.\n\n%s", content)
	return a.generate(ctx, prompt)
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		a.logger.Error("analysis request failed", zap.Error(err))
		return "", fmt.Errorf("analysis request: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
