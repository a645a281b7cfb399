package azureopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	llmprovider "github.com/haowjy/meridian-grounded-go"
)

// DefaultAPIVersion is the extensions API version the data-source payload targets.
const DefaultAPIVersion = "2023-09-01-preview"

// RequestIDHeader carries a per-call ID that Azure echoes in its logs.
const RequestIDHeader = "x-ms-client-request-id"

// Config holds the connection settings for one Azure OpenAI deployment.
type Config struct {
	// Endpoint is the resource URL, e.g. https://my-resource.openai.azure.com
	Endpoint string

	// APIKey is sent in the api-key header
	APIKey string

	// Deployment is the deployment name used in the URL path and request body
	Deployment string

	// APIVersion defaults to DefaultAPIVersion
	APIVersion string

	// HTTPClient defaults to a client with a 120s timeout
	HTTPClient *http.Client

	// Logger receives validation warnings; defaults to a no-op logger
	Logger *zap.Logger
}

// Provider implements llmprovider.Provider for Azure OpenAI's "on your data"
// extensions endpoint, which grounds answers on attached data sources.
//
// Configuration values are not checked here. A wrong endpoint, key or
// deployment surfaces as an error from the first GenerateResponse call.
type Provider struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
	logger     *zap.Logger
	validator  *llmprovider.ValidationEngine
}

// NewProvider creates a new Azure OpenAI provider.
func NewProvider(cfg Config) *Provider {
	p := &Provider{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		validator:  llmprovider.GetValidationEngine(),
	}

	if p.apiVersion == "" {
		p.apiVersion = DefaultAPIVersion
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}

	return p
}

// Name returns the provider identifier.
func (p *Provider) Name() llmprovider.ProviderID {
	return llmprovider.ProviderAzureOpenAI
}

// SupportsModel returns true for any non-empty deployment name.
// Azure deployments are user-named, so there is no pattern to check against.
func (p *Provider) SupportsModel(model string) bool {
	return model != ""
}

// Deployment returns the configured deployment name.
func (p *Provider) Deployment() string {
	return p.deployment
}

// GenerateResponse performs one extensions chat completion call. It does not retry.
func (p *Provider) GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error) {
	if req.Model == "" {
		withDeployment := *req
		withDeployment.Model = p.deployment
		req = &withDeployment
	}

	for _, w := range p.validator.Validate(p.Name().String(), req) {
		p.logger.Debug("request validation warning",
			zap.String("code", string(w.Code)),
			zap.String("field", w.Field),
			zap.String("severity", string(w.Severity)),
			zap.String("message", w.Message),
		)
	}

	azureReq, err := buildChatCompletionRequest(req)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	httpReq, err := p.buildHTTPRequest(ctx, req.Model, requestID, azureReq)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("azure openai HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug("azure openai request failed",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, p.handleErrorResponse(resp, req.Model)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	response, err := convertFromChatCompletionResponse(&chatResp)
	if err != nil {
		return nil, fmt.Errorf("failed to convert response: %w", err)
	}

	return response, nil
}

// completionsURL builds {endpoint}/openai/deployments/{deployment}/extensions/chat/completions?api-version=...
func (p *Provider) completionsURL(deployment string) string {
	query := url.Values{}
	query.Set("api-version", p.apiVersion)

	return fmt.Sprintf("%s/openai/deployments/%s/extensions/chat/completions?%s",
		p.endpoint, url.PathEscape(deployment), query.Encode())
}

// buildHTTPRequest creates the HTTP request for the extensions API.
func (p *Provider) buildHTTPRequest(ctx context.Context, deployment, requestID string, req *ChatCompletionRequest) (*http.Request, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.completionsURL(deployment), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("api-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	return httpReq, nil
}

// handleErrorResponse maps non-200 responses to library errors.
// The status code is always part of the error text.
func (p *Provider) handleErrorResponse(resp *http.Response, deployment string) error {
	body, _ := io.ReadAll(resp.Body)

	message := strings.TrimSpace(string(body))
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		if errResp.Error.Code != "" {
			message = errResp.Error.Code + ": " + message
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	providerErr := &llmprovider.ProviderError{
		Provider:   p.Name().String(),
		StatusCode: resp.StatusCode,
		Message:    message,
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		providerErr.Err = llmprovider.ErrInvalidAPIKey
	case resp.StatusCode == http.StatusTooManyRequests:
		providerErr.Retryable = true
		providerErr.RetryAfter = parseRetryAfter(resp.Header)
		providerErr.Err = llmprovider.ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return &llmprovider.ModelError{
			Model:    deployment,
			Provider: p.Name().String(),
			Reason:   fmt.Sprintf("deployment not found (status %d): %s", resp.StatusCode, message),
			Err:      llmprovider.ErrInvalidModel,
		}
	case resp.StatusCode == http.StatusBadRequest:
		providerErr.Err = llmprovider.ErrInvalidRequest
	case resp.StatusCode >= 500:
		providerErr.Retryable = true
		providerErr.Err = llmprovider.ErrProviderUnavailable
	default:
		providerErr.Err = llmprovider.ErrProviderUnavailable
	}

	return providerErr
}

// parseRetryAfter reads retry-after-ms or Retry-After (seconds). Zero when absent.
func parseRetryAfter(h http.Header) time.Duration {
	if ms, err := strconv.Atoi(h.Get("retry-after-ms")); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	if secs, err := strconv.Atoi(h.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
