package llmprovider

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrNoCitations indicates a choice carries no retrieval context to read citations from.
var ErrNoCitations = errors.New("llmprovider: response has no citation context")

// ParseCitations parses the JSON document the retrieval backend returns as a
// tool message, e.g. {"citations": [{"title": "A", "url": "http://a"}], "intent": "..."}.
// A document without a "citations" key yields no citations and no error.
func ParseCitations(content string) ([]Citation, error) {
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("failed to parse citations: invalid JSON")
	}

	list := gjson.Get(content, "citations")
	if !list.Exists() || list.Type == gjson.Null {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("failed to parse citations: expected array, got %s", list.Type)
	}

	citations := make([]Citation, 0, len(list.Array()))
	list.ForEach(func(_, c gjson.Result) bool {
		citations = append(citations, Citation{
			Title:    c.Get("title").String(),
			URL:      c.Get("url").String(),
			FilePath: c.Get("filepath").String(),
			ChunkID:  c.Get("chunk_id").String(),
			Content:  c.Get("content").String(),
		})
		return true
	})

	return citations, nil
}

// CitationContent returns the JSON string held in context.messages[0].content,
// which is where the extensions API puts retrieval results.
func (c *Choice) CitationContent() (string, error) {
	if len(c.Context) == 0 {
		return "", ErrNoCitations
	}

	content := gjson.GetBytes(c.Context, "messages.0.content")
	if !content.Exists() || content.Type != gjson.String {
		return "", ErrNoCitations
	}
	return content.String(), nil
}

// Citations extracts the citations attached to this choice.
// Newer API versions inline the citations on the context object itself; both shapes are accepted.
func (c *Choice) Citations() ([]Citation, error) {
	if len(c.Context) > 0 && gjson.GetBytes(c.Context, "citations").IsArray() {
		return ParseCitations(string(c.Context))
	}

	content, err := c.CitationContent()
	if err != nil {
		return nil, err
	}
	return ParseCitations(content)
}
