package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	llmprovider "github.com/haowjy/meridian-grounded-go"
	"github.com/haowjy/meridian-grounded-go/internal/config"
	"github.com/haowjy/meridian-grounded-go/internal/format"
	"github.com/haowjy/meridian-grounded-go/providers/azureopenai"
)

const (
	systemPersona = "You are a helpful travel agent"
	temperature   = 0.5
	maxTokens     = 1000
	maxAttempts   = 5
)

// Exit codes per failure class.
const (
	exitOK           = 0
	exitFailure      = 1
	exitNonRetriable = 2
	exitExhausted    = 3
)

// errNoQuestion is returned when stdin closes before a question is entered.
var errNoQuestion = errors.New("no question provided on standard input")

// asker runs one question through the provider and prints the result.
type asker struct {
	in            io.Reader
	out           io.Writer
	logger        *zap.Logger
	caller        *llmprovider.Caller
	newProvider   func(cfg config.Config, logger *zap.Logger) llmprovider.Provider
	showCitations bool
}

func newAzureProvider(cfg config.Config, logger *zap.Logger) llmprovider.Provider {
	return azureopenai.NewProvider(azureopenai.Config{
		Endpoint:   cfg.OpenAIEndpoint,
		APIKey:     cfg.OpenAIKey,
		Deployment: cfg.OpenAIDeployment,
		Logger:     logger,
	})
}

// buildRequest assembles the two-message grounded request.
func buildRequest(cfg config.Config, question string) *llmprovider.GenerateRequest {
	t := temperature
	m := maxTokens

	return &llmprovider.GenerateRequest{
		Model: cfg.OpenAIDeployment,
		Messages: []llmprovider.Message{
			llmprovider.SystemMessage(systemPersona),
			llmprovider.UserMessage(question),
		},
		Params: &llmprovider.RequestParams{
			Temperature: &t,
			MaxTokens:   &m,
		},
		DataSources: []llmprovider.DataSource{
			llmprovider.NewAzureSearchDataSource(cfg.SearchEndpoint, cfg.SearchKey, cfg.SearchIndex),
		},
	}
}

// readQuestion prompts on out and reads one line from in. No length limit.
func readQuestion(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, "\nEnter a question:\n"); err != nil {
		return "", err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line == "":
		return "", errNoQuestion
	case err != nil && !errors.Is(err, io.EOF):
		return "", fmt.Errorf("failed to read question: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (a *asker) run(ctx context.Context, cfg config.Config) error {
	if problems := cfg.Problems(); len(problems) > 0 {
		a.logger.Debug("configuration incomplete", zap.Strings("problems", problems))
	}

	provider := a.newProvider(cfg, a.logger)

	question, err := readQuestion(a.in, a.out)
	if err != nil {
		return err
	}

	if err := format.WriteRequest(a.out, question); err != nil {
		return err
	}

	resp, err := a.caller.Generate(ctx, provider, buildRequest(cfg, question))
	if err != nil {
		return err
	}

	choice, err := resp.FirstChoice()
	if err != nil {
		return err
	}

	if err := format.WriteAnswer(a.out, choice.Message.Content); err != nil {
		return err
	}

	if a.showCitations {
		citations, err := choice.Citations()
		if err != nil {
			return err
		}
		return format.WriteCitations(a.out, citations)
	}

	return nil
}

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var exhausted *llmprovider.ExhaustedRetriesError
	if errors.As(err, &exhausted) {
		return exitExhausted
	}

	var nonRetriable *llmprovider.NonRetriableError
	if errors.As(err, &nonRetriable) {
		return exitNonRetriable
	}

	return exitFailure
}
