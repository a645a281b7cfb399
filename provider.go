package llmprovider

import (
	"context"
)

// Provider defines the interface that chat-completion backends implement.
//
// Types used by this interface:
//   - GenerateRequest, Message: defined in request.go
//   - GenerateResponse: defined in response.go
type Provider interface {
	// GenerateResponse performs one blocking chat-completion call.
	// Implementations do not retry; wrap them in a Caller for that.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider identifier
	Name() ProviderID

	// SupportsModel returns true if the provider can serve the given model or deployment.
	SupportsModel(model string) bool
}
