package llmprovider

// Message roles understood by chat-completion backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// GenerateRequest contains the parameters for a single chat-completion call.
type GenerateRequest struct {
	// Model is the deployment identifier (Azure) or model name (lorem-*).
	Model string

	// Messages is the ordered list of role-tagged messages, usually a
	// system persona followed by the user question.
	Messages []Message

	// Params contains sampling parameters (temperature, max_tokens, ...).
	Params *RequestParams

	// DataSources instructs the backend to ground its answer on external
	// indexes. Passed through to the provider as-is.
	DataSources []DataSource
}

// Message represents a single message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage returns a message with the system role.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a message with the user role.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
