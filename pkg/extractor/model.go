package extractor

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/jmylchreest/prodcrawl/internal/logger"
	"github.com/jmylchreest/prodcrawl/pkg/llm"
	"github.com/jmylchreest/prodcrawl/pkg/urlnorm"
)

// MaxHTMLPrefix bounds the HTML prefix submitted to the model, per
// spec.md §4.2: "a bounded prefix of the HTML (≤ 10 000 characters)".
// This is part of the contract and preserved for deterministic testing.
const MaxHTMLPrefix = 10000

const modelSystemPrompt = `You identify product-detail page URLs linked from an e-commerce listing or category page.

Rules:
1. Only return URLs that point to an individual product's detail page.
2. Do not return category, search, cart, account, or navigation URLs.
3. Return absolute URLs when possible; relative URLs will be resolved against the page's base URL.
4. Briefly explain your reasoning in the "reasoning" field.`

var modelJSONSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"urls": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"reasoning": map[string]any{"type": "string"},
	},
	"required": []any{"urls", "reasoning"},
}

type modelOutput struct {
	URLs      []string `json:"urls"`
	Reasoning string   `json:"reasoning"`
}

// ModelExtractor (AI) submits a bounded HTML prefix to a hosted LLM and
// asks it to classify product-page links, per spec.md §4.2. Failures of
// any kind (provider error, malformed output) yield an empty result,
// never propagate — Parse never returns an error.
type ModelExtractor struct {
	Provider llm.Provider
}

// NewModel creates an AI extractor backed by provider.
func NewModel(provider llm.Provider) *ModelExtractor {
	return &ModelExtractor{Provider: provider}
}

// Parse implements Extractor.
func (e *ModelExtractor) Parse(ctx context.Context, html, baseURL string) []string {
	if e.Provider == nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	prefix := html
	if len(prefix) > MaxHTMLPrefix {
		prefix = prefix[:MaxHTMLPrefix]
	}

	var prompt strings.Builder
	prompt.WriteString("Base URL: ")
	prompt.WriteString(baseURL)
	prompt.WriteString("\n\nPage HTML:\n```\n")
	prompt.WriteString(prefix)
	prompt.WriteString("\n```\n")

	resp, err := e.Provider.Execute(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: modelSystemPrompt},
			{Role: llm.RoleUser, Content: prompt.String()},
		},
		MaxTokens:  1024,
		JSONSchema: modelJSONSchema,
	})
	if err != nil {
		logger.Debug("model extractor call failed", "provider", e.Provider.Name(), "url", baseURL, "error", err)
		return nil
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(resp.Content), &out); err != nil {
		logger.Debug("model extractor malformed output", "provider", e.Provider.Name(), "url", baseURL, "error", err)
		return nil
	}

	seen := make(map[string]struct{}, len(out.URLs))
	result := make([]string, 0, len(out.URLs))
	for _, raw := range out.URLs {
		s := urlnorm.Resolve(base, raw)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}

// Name implements Extractor.
func (e *ModelExtractor) Name() Name { return AI }

var _ Extractor = (*ModelExtractor)(nil)
