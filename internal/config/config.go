package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const Prefix = "imagebot"

const (
	ProviderOpenAI = "openai"
	ProviderDezgo  = "dezgo"
)

// Config is read from IMAGEBOT_* variables, falling back to the unprefixed names.
type Config struct {
	Provider string `envconfig:"PROVIDER" default:"openai"`

	OpenAIKey      string `envconfig:"OPENAI_API_KEY"`
	OpenAIKeyParam string `envconfig:"OPENAI_API_KEY_PARAM"`
	OpenAIBaseURL  string `envconfig:"OPENAI_BASE_URL"`

	DezgoKey      string `envconfig:"DEZGO_KEY"`
	DezgoKeyParam string `envconfig:"DEZGO_KEY_PARAM"`

	Model   string `envconfig:"MODEL"`
	Size    string `envconfig:"SIZE"`
	Quality string `envconfig:"QUALITY"`
	Style   string `envconfig:"STYLE"`

	Prompts      []string `envconfig:"PROMPTS"`
	PromptsParam string   `envconfig:"PROMPTS_PARAM"`

	Bucket       string `envconfig:"BUCKET"`
	Distribution string `envconfig:"DISTRIBUTION"`
	Site         string `envconfig:"SITE"`
	OutputDir    string `envconfig:"OUTPUT_DIR"`

	Verbose bool `envconfig:"VERBOSE"`
}

// Load reads a .env file when one exists, then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" && c.OpenAIKeyParam == "" {
			return errors.New("OPENAI_API_KEY or OPENAI_API_KEY_PARAM is required")
		}
	case ProviderDezgo:
		if c.DezgoKey == "" && c.DezgoKeyParam == "" {
			return errors.New("DEZGO_KEY or DEZGO_KEY_PARAM is required")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Distribution != "" && c.Bucket == "" {
		return errors.New("DISTRIBUTION requires BUCKET")
	}
	return nil
}

// UsesAWS reports whether any AWS service is needed to run with this config.
func (c *Config) UsesAWS() bool {
	return c.Bucket != "" || c.OpenAIKeyParam != "" || c.DezgoKeyParam != "" || c.PromptsParam != ""
}
