package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"

	llmprovider "github.com/haowjy/meridian-grounded-go"
)

// Provider is a mock provider that answers with lorem ipsum text.
// Used for testing and offline runs without an Azure resource.
//
// When the request carries data sources, the response includes a retrieval
// context with synthetic citations, shaped like the extensions API output.
// WithFailures makes the first calls fail, which exercises retry handling.
type Provider struct {
	generator *loremgen.Lorem
	delay     time.Duration
	citations int

	mu       sync.Mutex
	calls    int
	failures int
	failWith error
}

// Option configures a Provider.
type Option func(*Provider)

// WithDelay simulates network latency on every call.
func WithDelay(d time.Duration) Option {
	return func(p *Provider) {
		p.delay = d
	}
}

// WithCitations sets how many citations are generated per grounded answer (default 2).
func WithCitations(n int) Option {
	return func(p *Provider) {
		p.citations = n
	}
}

// WithFailures makes the first n calls fail with err.
// A nil err means a synthetic HTTP 429 ProviderError.
func WithFailures(n int, err error) Option {
	return func(p *Provider) {
		p.failures = n
		p.failWith = err
	}
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		generator: loremgen.New(),
		citations: 2,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.failWith == nil {
		p.failWith = RateLimitError()
	}
	return p
}

// RateLimitError returns the error used for synthetic rate limiting.
func RateLimitError() error {
	return &llmprovider.ProviderError{
		Provider:   llmprovider.ProviderLorem.String(),
		StatusCode: 429,
		Message:    "Requests have exceeded the call rate limit of your current tier.",
		Retryable:  true,
		Err:        llmprovider.ErrRateLimited,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() llmprovider.ProviderID {
	return llmprovider.ProviderLorem
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-travel"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Calls returns how many times GenerateResponse has been invoked.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// GenerateResponse generates a complete lorem ipsum response.
func (p *Provider) GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error) {
	p.mu.Lock()
	call := p.calls
	p.calls++
	p.mu.Unlock()

	if !p.SupportsModel(req.Model) {
		return nil, &llmprovider.ModelError{
			Model:    req.Model,
			Provider: p.Name().String(),
			Reason:   "model not supported by Lorem provider (must start with 'lorem-')",
			Err:      llmprovider.ErrInvalidModel,
		}
	}

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if call < p.failures {
		return nil, p.failWith
	}

	// Estimate: 1 token ≈ 4 characters
	maxTokens := req.Params.GetMaxTokens(256)
	text := p.generateText(maxTokens * 4)

	choice := llmprovider.Choice{
		Index:        0,
		Message:      llmprovider.Message{Role: llmprovider.RoleAssistant, Content: text},
		FinishReason: "stop",
	}

	if len(req.DataSources) > 0 && p.citations > 0 {
		contextJSON, err := p.citationContext(req.DataSources[0])
		if err != nil {
			return nil, err
		}
		choice.Context = contextJSON
	}

	return &llmprovider.GenerateResponse{
		ID:           fmt.Sprintf("lorem-%d", call),
		Choices:      []llmprovider.Choice{choice},
		Model:        req.Model,
		InputTokens:  p.estimateTokens(req.Messages),
		OutputTokens: len(strings.Fields(text)), // Word count as proxy
	}, nil
}

// citationContext builds {"messages": [{"role": "tool", "content": "<citations json>"}]}.
func (p *Provider) citationContext(ds llmprovider.DataSource) (json.RawMessage, error) {
	index := ds.StringParam("indexName")
	if index == "" {
		index = "index"
	}

	citations := make([]llmprovider.Citation, 0, p.citations)
	for i := 0; i < p.citations; i++ {
		citations = append(citations, llmprovider.Citation{
			Title:   strings.TrimSuffix(p.generator.Sentence(2, 4), "."),
			URL:     p.generator.Url(),
			ChunkID: fmt.Sprintf("%d", i),
			Content: p.generator.Sentence(8, 14),
		})
	}

	content, err := json.Marshal(map[string]any{
		"citations": citations,
		"intent":    fmt.Sprintf("[%q]", index),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal citations: %w", err)
	}

	return json.Marshal(map[string]any{
		"messages": []map[string]any{
			{"role": "tool", "content": string(content), "end_turn": false},
		},
	})
}

// generateText generates lorem ipsum text with approximately targetChars characters.
func (p *Provider) generateText(targetChars int) string {
	var sb strings.Builder
	for sb.Len() < targetChars {
		paragraph := p.generator.Paragraph(3, 5)
		sb.WriteString(paragraph)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}

// estimateTokens estimates the token count for a list of messages.
// Uses word count as a rough approximation.
func (p *Provider) estimateTokens(messages []llmprovider.Message) int {
	totalWords := 0
	for _, msg := range messages {
		totalWords += len(strings.Fields(msg.Content))
	}
	return totalWords
}
