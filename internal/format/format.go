// Package format renders the CLI's user-facing output.
package format

import (
	"fmt"
	"io"

	llmprovider "github.com/haowjy/meridian-grounded-go"
)

// WriteRequest echoes the question before it is sent.
func WriteRequest(w io.Writer, question string) error {
	_, err := fmt.Fprintf(w, "...Sending the following request to Azure OpenAI endpoint...\nRequest: %s\n\n", question)
	return err
}

// WriteAnswer prints the answer text.
func WriteAnswer(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "Response: %s\n\n", text)
	return err
}

// WriteCitations prints a titled citation list, one title line and one URL
// line per citation.
func WriteCitations(w io.Writer, citations []llmprovider.Citation) error {
	if _, err := fmt.Fprintln(w, "Citations:"); err != nil {
		return err
	}
	for _, c := range citations {
		if _, err := fmt.Fprintf(w, "  Title: %s\n    URL: %s\n", c.Title, c.URL); err != nil {
			return err
		}
	}
	return nil
}

// WriteFatal prints the single-line failure report.
func WriteFatal(w io.Writer, err error) {
	fmt.Fprintf(w, "[Fatal Error] %v\n", err)
}
