package azureopenai

import (
	"fmt"

	llmprovider "github.com/haowjy/meridian-grounded-go"
)

// convertMessages converts library messages to the wire format.
func convertMessages(messages []llmprovider.Message) ([]Message, error) {
	result := make([]Message, 0, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case llmprovider.RoleSystem, llmprovider.RoleUser, llmprovider.RoleAssistant:
		default:
			return nil, fmt.Errorf("message %d: unsupported role %q", i, msg.Role)
		}

		result = append(result, Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return result, nil
}

// convertDataSources copies data sources to the wire format.
func convertDataSources(sources []llmprovider.DataSource) []DataSource {
	if len(sources) == 0 {
		return nil
	}

	result := make([]DataSource, 0, len(sources))
	for _, ds := range sources {
		result = append(result, DataSource{
			Type:       ds.Type,
			Parameters: ds.Parameters,
		})
	}
	return result
}

// convertFromChatCompletionResponse converts the wire response to library format.
func convertFromChatCompletionResponse(resp *ChatCompletionResponse) (*llmprovider.GenerateResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, llmprovider.ErrNoChoices
	}

	choices := make([]llmprovider.Choice, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		choice := llmprovider.Choice{
			Index: c.Index,
			Message: llmprovider.Message{
				Role: c.Message.Role,
			},
			Context: c.Message.Context,
		}
		if c.Message.Content != nil {
			choice.Message.Content = *c.Message.Content
		}
		if c.FinishReason != nil {
			choice.FinishReason = *c.FinishReason
		}
		choices = append(choices, choice)
	}

	out := &llmprovider.GenerateResponse{
		ID:      resp.ID,
		Choices: choices,
		Model:   resp.Model,
	}
	if resp.Usage != nil {
		out.InputTokens = resp.Usage.PromptTokens
		out.OutputTokens = resp.Usage.CompletionTokens
	}

	return out, nil
}
