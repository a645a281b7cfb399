package azureopenai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmprovider "github.com/haowjy/meridian-grounded-go"
)

const okBody = `{
  "id": "chatcmpl-1",
  "model": "gpt-35-turbo",
  "object": "extensions.chat.completion",
  "created": 1700000000,
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {
      "role": "assistant",
      "content": "Try the Burj Khalifa [doc1].",
      "end_turn": true,
      "context": {"messages": [{"role": "tool", "content": "{\"citations\": [{\"title\": \"Dubai\", \"url\": \"https://x/dubai.pdf\"}], \"intent\": \"[]\"}", "end_turn": false}]}
    }
  }],
  "usage": {"prompt_tokens": 120, "completion_tokens": 12, "total_tokens": 132}
}`

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func travelRequest() *llmprovider.GenerateRequest {
	return &llmprovider.GenerateRequest{
		Model: "travel-gpt",
		Messages: []llmprovider.Message{
			llmprovider.SystemMessage("You are a helpful travel agent"),
			llmprovider.UserMessage("Where should I stay in Dubai?"),
		},
		Params: &llmprovider.RequestParams{
			Temperature: floatPtr(0.5),
			MaxTokens:   intPtr(1000),
		},
		DataSources: []llmprovider.DataSource{
			llmprovider.NewAzureSearchDataSource("https://search.example.net", "search-key", "margies-travel"),
		},
	}
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewProvider(Config{
		Endpoint:   server.URL + "/",
		APIKey:     "oai-key",
		Deployment: "travel-gpt",
		HTTPClient: server.Client(),
	})
}

func TestProvider_GenerateResponse(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotRequestID string
	var gotBody map[string]any

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("api-version")
		gotKey = r.Header.Get("api-key")
		gotRequestID = r.Header.Get(RequestIDHeader)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okBody))
	})

	resp, err := p.GenerateResponse(context.Background(), travelRequest())
	require.NoError(t, err)

	assert.Equal(t, "/openai/deployments/travel-gpt/extensions/chat/completions", gotPath)
	assert.Equal(t, DefaultAPIVersion, gotQuery)
	assert.Equal(t, "oai-key", gotKey)
	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err, "request id should be a UUID")

	assert.Equal(t, "travel-gpt", gotBody["model"])
	assert.Equal(t, 0.5, gotBody["temperature"])
	assert.Equal(t, float64(1000), gotBody["max_tokens"])
	assert.Equal(t, false, gotBody["stream"])

	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "You are a helpful travel agent"}, messages[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "Where should I stay in Dubai?"}, messages[1])

	dataSources := gotBody["dataSources"].([]any)
	require.Len(t, dataSources, 1)
	assert.Equal(t, map[string]any{
		"type": "AzureCognitiveSearch",
		"parameters": map[string]any{
			"endpoint":  "https://search.example.net",
			"key":       "search-key",
			"indexName": "margies-travel",
		},
	}, dataSources[0])

	assert.Equal(t, "Try the Burj Khalifa [doc1].", resp.Text())
	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, 120, resp.InputTokens)
	assert.Equal(t, 12, resp.OutputTokens)

	choice, err := resp.FirstChoice()
	require.NoError(t, err)
	assert.Equal(t, "stop", choice.FinishReason)

	citations, err := choice.Citations()
	require.NoError(t, err)
	assert.Equal(t, []llmprovider.Citation{{Title: "Dubai", URL: "https://x/dubai.pdf"}}, citations)
}

func TestProvider_DefaultsModelToDeployment(t *testing.T) {
	var gotPath string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(okBody))
	})

	req := travelRequest()
	req.Model = ""

	_, err := p.GenerateResponse(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "/openai/deployments/travel-gpt/extensions/chat/completions", gotPath)
	assert.Empty(t, req.Model, "caller's request must not be mutated")
}

func TestProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		header        map[string]string
		wantSentinel  error
		wantRetryable bool
		wantRateLimit bool
		wantAfter     time.Duration
	}{
		{
			name:          "rate limited",
			status:        429,
			body:          `{"error": {"code": "429", "message": "Requests to the ChatCompletions_Create Operation have exceeded token rate limit."}}`,
			header:        map[string]string{"Retry-After": "7"},
			wantSentinel:  llmprovider.ErrRateLimited,
			wantRetryable: true,
			wantRateLimit: true,
			wantAfter:     7 * time.Second,
		},
		{
			name:          "rate limited with ms header",
			status:        429,
			body:          `Too Many Requests`,
			header:        map[string]string{"retry-after-ms": "1500"},
			wantSentinel:  llmprovider.ErrRateLimited,
			wantRetryable: true,
			wantRateLimit: true,
			wantAfter:     1500 * time.Millisecond,
		},
		{
			name:         "unauthorized",
			status:       401,
			body:         `{"error": {"code": "401", "message": "Access denied due to invalid subscription key or wrong API endpoint."}}`,
			wantSentinel: llmprovider.ErrInvalidAPIKey,
		},
		{
			name:         "bad request",
			status:       400,
			body:         `{"error": {"code": "BadRequest", "message": "Invalid AzureCognitiveSearch configuration detected"}}`,
			wantSentinel: llmprovider.ErrInvalidRequest,
		},
		{
			name:          "server error",
			status:        503,
			body:          ``,
			wantSentinel:  llmprovider.ErrProviderUnavailable,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.GenerateResponse(context.Background(), travelRequest())
			require.Error(t, err)

			var providerErr *llmprovider.ProviderError
			require.True(t, errors.As(err, &providerErr), "expected ProviderError, got %T", err)
			assert.Equal(t, tt.status, providerErr.StatusCode)
			assert.ErrorIs(t, err, tt.wantSentinel)
			assert.Equal(t, tt.wantRetryable, llmprovider.IsRetryable(err))
			assert.Equal(t, tt.wantRateLimit, llmprovider.IsRateLimited(err))
			assert.Equal(t, tt.wantAfter, providerErr.RetryAfter)
			assert.NotEmpty(t, providerErr.Message)
		})
	}
}

func TestProvider_DeploymentNotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": "DeploymentNotFound", "message": "The API deployment for this resource does not exist."}}`))
	})

	_, err := p.GenerateResponse(context.Background(), travelRequest())

	var modelErr *llmprovider.ModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, "travel-gpt", modelErr.Model)
	assert.ErrorIs(t, err, llmprovider.ErrInvalidModel)
	assert.False(t, llmprovider.IsRateLimited(err))
}

func TestProvider_RetriesThroughCaller(t *testing.T) {
	calls := 0
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"code": "429", "message": "slow down"}}`))
			return
		}
		_, _ = w.Write([]byte(okBody))
	})

	var waits []time.Duration
	caller := llmprovider.NewCaller(llmprovider.WithSleep(func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}))

	resp, err := caller.Generate(context.Background(), p, travelRequest())
	require.NoError(t, err)
	assert.Equal(t, "Try the Burj Khalifa [doc1].", resp.Text())
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, waits)
}

func TestProvider_UnreachableEndpoint(t *testing.T) {
	p := NewProvider(Config{Endpoint: "", APIKey: "", Deployment: "travel-gpt"})

	_, err := p.GenerateResponse(context.Background(), travelRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "azure openai HTTP request failed")
	assert.False(t, llmprovider.IsRateLimited(err))
}

func TestProvider_NameAndSupportsModel(t *testing.T) {
	p := NewProvider(Config{Deployment: "travel-gpt"})
	assert.Equal(t, llmprovider.ProviderAzureOpenAI, p.Name())
	assert.Equal(t, "travel-gpt", p.Deployment())
	assert.True(t, p.SupportsModel("anything"))
	assert.False(t, p.SupportsModel(""))
}
