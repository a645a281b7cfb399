package llmprovider

import "encoding/json"

// GenerateResponse contains the provider's response.
type GenerateResponse struct {
	// ID is the provider-assigned completion ID, if any
	ID string

	// Choices holds the candidate completions. Callers normally use the first.
	Choices []Choice

	// Model is the model that was used (may differ from request if aliased)
	Model string

	// InputTokens is the number of tokens in the input
	InputTokens int

	// OutputTokens is the number of tokens in the output
	OutputTokens int
}

// Choice is one candidate completion.
type Choice struct {
	Index        int
	Message      Message
	FinishReason string

	// Context is the raw side-channel payload returned next to the message
	// when a data source is attached. It carries the retrieval citations.
	Context json.RawMessage
}

// FirstChoice returns the first candidate, or ErrNoChoices.
func (r *GenerateResponse) FirstChoice() (*Choice, error) {
	if r == nil || len(r.Choices) == 0 {
		return nil, ErrNoChoices
	}
	return &r.Choices[0], nil
}

// Text returns the content of the first choice, or "" when there is none.
func (r *GenerateResponse) Text() string {
	choice, err := r.FirstChoice()
	if err != nil {
		return ""
	}
	return choice.Message.Content
}
