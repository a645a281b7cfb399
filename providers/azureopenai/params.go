package azureopenai

import (
	"encoding/json"
	"fmt"

	llmprovider "github.com/haowjy/meridian-grounded-go"
)

// ChatCompletionRequest is the body of an extensions chat completion call.
// It is the OpenAI chat format plus a dataSources array.
type ChatCompletionRequest struct {
	Model       string       `json:"model,omitempty"`
	Messages    []Message    `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
	MaxTokens   *int         `json:"max_tokens,omitempty"`
	TopP        *float64     `json:"top_p,omitempty"`
	Stop        []string     `json:"stop,omitempty"`
	Stream      bool         `json:"stream"`
	DataSources []DataSource `json:"dataSources,omitempty"`
}

// Message represents a message in the conversation.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant", "tool"
	Content string `json:"content"`
}

// DataSource is the wire form of llmprovider.DataSource.
type DataSource struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

// ChatCompletionResponse is a non-streaming extensions response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"` // "extensions.chat.completion"
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice represents a completion choice in the response.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason *string         `json:"finish_reason"`
}

// ResponseMessage is an assistant message. Context holds the retrieval
// side-channel: {"messages": [{"role": "tool", "content": "<json string>"}]}.
type ResponseMessage struct {
	Role    string          `json:"role"`
	Content *string         `json:"content"`
	EndTurn *bool           `json:"end_turn,omitempty"`
	Context json.RawMessage `json:"context,omitempty"`
}

// Usage represents token usage in the response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse is the error envelope returned on non-2xx statuses.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

// buildChatCompletionRequest constructs the wire request from a GenerateRequest.
func buildChatCompletionRequest(req *llmprovider.GenerateRequest) (*ChatCompletionRequest, error) {
	if len(req.Messages) == 0 {
		return nil, &llmprovider.ValidationError{
			Field:  "messages",
			Value:  0,
			Reason: "at least one message is required",
			Err:    llmprovider.ErrInvalidRequest,
		}
	}

	params := req.Params
	if params == nil {
		params = &llmprovider.RequestParams{}
	}
	if err := llmprovider.ValidateRequestParams(params); err != nil {
		return nil, err
	}

	messages, err := convertMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	azureReq := &ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		TopP:        params.TopP,
		Stream:      false,
		DataSources: convertDataSources(req.DataSources),
	}

	if len(params.Stop) > 0 {
		azureReq.Stop = params.Stop
	}

	return azureReq, nil
}

// BuildChatCompletionRequestDebug returns the exact JSON body that would be sent,
// decoded into a map for inspection.
func BuildChatCompletionRequestDebug(req *llmprovider.GenerateRequest) (map[string]interface{}, error) {
	chatReq, err := buildChatCompletionRequest(req)
	if err != nil {
		return nil, err
	}

	jsonBytes, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal azure request: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal azure request: %w", err)
	}

	return result, nil
}
