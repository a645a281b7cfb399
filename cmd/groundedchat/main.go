// groundedchat asks one question to an Azure OpenAI deployment grounded on an
// Azure Cognitive Search index and prints the answer.
//
// Configuration comes from the environment (or a .env file found by walking
// up from the working directory):
//
//	AZURE_OAI_ENDPOINT, AZURE_OAI_KEY, AZURE_OAI_DEPLOYMENT
//	AZURE_SEARCH_ENDPOINT, AZURE_SEARCH_KEY, AZURE_SEARCH_INDEX
//
// Usage:
//
//	go run ./cmd/groundedchat
package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	llmprovider "github.com/haowjy/meridian-grounded-go"
	"github.com/haowjy/meridian-grounded-go/internal/config"
	"github.com/haowjy/meridian-grounded-go/internal/format"
	"github.com/haowjy/meridian-grounded-go/internal/logging"
)

// showCitations turns on the citation list after the answer.
const showCitations = false

func newApp(a *asker, loadConfig func() config.Config) *cli.App {
	return &cli.App{
		Name:            "groundedchat",
		Usage:           "Ask a question answered from your own search index",
		HideHelpCommand: true,
		Writer:          a.out,
		ErrWriter:       a.out,
		Action: func(c *cli.Context) error {
			return a.run(c.Context, loadConfig())
		},
	}
}

// run executes the CLI and returns the exit code. Every failure is reported
// as one "[Fatal Error]" line on stdout.
func run(args []string, stdin io.Reader, stdout io.Writer, a *asker, loadConfig func() config.Config) int {
	a.in = stdin
	a.out = stdout

	err := newApp(a, loadConfig).RunContext(context.Background(), args)
	if err != nil {
		format.WriteFatal(stdout, err)
	}
	return exitCode(err)
}

func main() {
	logger := logging.FromEnv()
	defer func() { _ = logger.Sync() }()

	a := &asker{
		logger: logger,
		caller: llmprovider.NewCaller(
			llmprovider.WithMaxAttempts(maxAttempts),
			llmprovider.WithLogger(logger),
		),
		newProvider:   newAzureProvider,
		showCitations: showCitations,
	}

	code := run(os.Args, os.Stdin, os.Stdout, a, config.Load)
	_ = logger.Sync()
	os.Exit(code)
}
