// Package config loads the fixed set of environment variables the CLI needs.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvOpenAIEndpoint   = "AZURE_OAI_ENDPOINT"
	EnvOpenAIKey        = "AZURE_OAI_KEY"
	EnvOpenAIDeployment = "AZURE_OAI_DEPLOYMENT"
	EnvSearchEndpoint   = "AZURE_SEARCH_ENDPOINT"
	EnvSearchKey        = "AZURE_SEARCH_KEY"
	EnvSearchIndex      = "AZURE_SEARCH_INDEX"
)

// Config is the load-once configuration bundle. It is built at startup and
// passed explicitly to whatever needs it.
//
// Values are not validated. Missing or malformed settings surface as errors
// from the first network call.
type Config struct {
	OpenAIEndpoint   string `env:"AZURE_OAI_ENDPOINT" validate:"required,url"`
	OpenAIKey        string `env:"AZURE_OAI_KEY" validate:"required"`
	OpenAIDeployment string `env:"AZURE_OAI_DEPLOYMENT" validate:"required"`

	SearchEndpoint string `env:"AZURE_SEARCH_ENDPOINT" validate:"required,url"`
	SearchKey      string `env:"AZURE_SEARCH_KEY" validate:"required"`
	SearchIndex    string `env:"AZURE_SEARCH_INDEX" validate:"required"`
}

var validate = newValidator()

// newValidator reports fields by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv builds a Config from lookup. Unset variables become "".
func FromEnv(lookup LookupFunc) Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	return Config{
		OpenAIEndpoint:   get(EnvOpenAIEndpoint),
		OpenAIKey:        get(EnvOpenAIKey),
		OpenAIDeployment: get(EnvOpenAIDeployment),
		SearchEndpoint:   get(EnvSearchEndpoint),
		SearchKey:        get(EnvSearchKey),
		SearchIndex:      get(EnvSearchIndex),
	}
}

// Load reads a .env file if one is found and then the process environment.
// Variables already set in the environment win over the .env file.
func Load() Config {
	LoadDotEnv()
	return FromEnv(os.LookupEnv)
}

// Problems lists every setting that is empty or malformed, in declaration
// order, as "NAME: reason". Used for diagnostics only; it never blocks a run.
func (c Config) Problems() []string {
	var problems []string
	for _, fe := range c.fieldErrors() {
		reason := "is not set"
		if fe.Tag() == "url" {
			reason = "is not a valid URL"
		}
		problems = append(problems, fe.Field()+": "+reason)
	}
	return problems
}

// Missing returns the names of variables that are empty, in declaration order.
func (c Config) Missing() []string {
	var missing []string
	for _, fe := range c.fieldErrors() {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	return missing
}

func (c Config) fieldErrors() validator.ValidationErrors {
	var errs validator.ValidationErrors
	if err := validate.Struct(c); err != nil {
		errors.As(err, &errs)
	}
	return errs
}

// LoadDotEnv searches for a .env file starting from the current directory
// and walking up the directory tree. It loads the first .env file found and
// returns its path, or "" if none was found.
func LoadDotEnv() string {
	dir, err := os.Getwd()
	if err != nil {
		// Silently continue - will use system env vars
		return ""
	}
	return loadDotEnvFrom(dir)
}

func loadDotEnvFrom(dir string) string {
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return envPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop
			return ""
		}
		dir = parent
	}
}
