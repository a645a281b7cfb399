package llmprovider

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrInvalidModel indicates the requested deployment does not exist or is not supported.
	ErrInvalidModel = errors.New("llmprovider: invalid or unsupported model")

	// ErrInvalidAPIKey indicates the API key is missing, malformed, or unauthorized.
	ErrInvalidAPIKey = errors.New("llmprovider: invalid API key")

	// ErrRateLimited indicates the provider's rate limit has been exceeded (HTTP 429).
	ErrRateLimited = errors.New("llmprovider: rate limit exceeded")

	// ErrInvalidRequest indicates the request parameters are invalid.
	ErrInvalidRequest = errors.New("llmprovider: invalid request")

	// ErrProviderUnavailable indicates the provider service is down or unreachable.
	ErrProviderUnavailable = errors.New("llmprovider: provider unavailable")

	// ErrNoChoices indicates a response came back without any completion candidates.
	ErrNoChoices = errors.New("llmprovider: response contains no choices")

	// ErrMaxRetriesExceeded is wrapped by ExhaustedRetriesError.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// rateLimitToken is the literal the fallback classifier looks for in error text.
const rateLimitToken = "429"

// ModelError represents an error related to model or deployment availability.
type ModelError struct {
	Model    string // The deployment that was requested
	Provider string // The provider name
	Reason   string // Human-readable explanation
	Err      error  // Wrapped error (usually ErrInvalidModel)
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model '%s' for provider '%s': %s (%v)", e.Model, e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("model '%s' for provider '%s': %s", e.Model, e.Provider, e.Reason)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ValidationError represents an error in request parameter validation.
type ValidationError struct {
	Field  string // The parameter field that failed validation
	Value  any    // The invalid value
	Reason string // Human-readable explanation
	Err    error  // Wrapped error (usually ErrInvalidRequest)
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for '%s' (value: %v): %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProviderError represents an error from the underlying provider API.
type ProviderError struct {
	Provider   string        // The provider name
	StatusCode int           // HTTP status code (if applicable)
	Message    string        // Error message from provider
	Retryable  bool          // Whether this error is potentially retryable
	RetryAfter time.Duration // Server-suggested wait, zero when absent
	Err        error         // Wrapped sentinel error (ErrRateLimited, ErrProviderUnavailable, etc.)
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider '%s' error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider '%s' error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NonRetriableError is returned by the Caller when a failure is not a rate
// limit. It is returned on first occurrence, without further attempts.
type NonRetriableError struct {
	Attempt int // 0-based attempt on which the failure happened
	Err     error
}

func (e *NonRetriableError) Error() string {
	return fmt.Sprintf("non-retriable error: %v", e.Err)
}

func (e *NonRetriableError) Unwrap() error {
	return e.Err
}

// ExhaustedRetriesError is returned by the Caller when every attempt failed
// with a rate-limit error.
type ExhaustedRetriesError struct {
	Attempts int   // Attempts consumed
	Last     error // Failure of the final attempt
}

func (e *ExhaustedRetriesError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("%v after %d attempts: %v", ErrMaxRetriesExceeded, e.Attempts, e.Last)
	}
	return fmt.Sprintf("%v after %d attempts", ErrMaxRetriesExceeded, e.Attempts)
}

func (e *ExhaustedRetriesError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrMaxRetriesExceeded}
	}
	return []error{ErrMaxRetriesExceeded, e.Last}
}

// IsRateLimited reports whether err signals HTTP 429 Too Many Requests.
//
// Structured signals are checked first: a ProviderError carrying status 429
// or anything wrapping ErrRateLimited. Otherwise it falls back to looking for
// "429" anywhere in the error text, so an unrelated message that happens to
// contain "429" is also treated as a rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.StatusCode > 0 {
		return providerErr.StatusCode == 429
	}

	if errors.Is(err, ErrRateLimited) {
		return true
	}

	return strings.Contains(err.Error(), rateLimitToken)
}

// IsRetryable checks if an error is potentially retryable.
// Returns true for rate limits and temporary unavailability.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	if errors.Is(err, ErrRateLimited) {
		return true
	}

	if errors.Is(err, ErrProviderUnavailable) {
		return true
	}

	return false
}

// IsInvalidRequest checks if an error indicates invalid request parameters.
// These errors are not retryable and require request changes.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrInvalidModel) {
		return true
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthError checks if an error is related to authentication.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidAPIKey) {
		return true
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		// HTTP 401/403 indicate auth issues
		return providerErr.StatusCode == 401 || providerErr.StatusCode == 403
	}

	return false
}
