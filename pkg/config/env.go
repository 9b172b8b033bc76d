package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultChatModel  = "gpt-4o"
	DefaultAgentModel = "gpt-4o-mini"
	DefaultLogDir     = "logs"
	DefaultOpenAIURL  = "https://api.openai.com/v1"
)

// LoadDotEnv loads variables from the given .env files without overriding the
// ones already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	return nil
}

// Provider holds what is needed to reach the chat-completion API.
// When AzureEndpoint is set, Azure OpenAI is used and Model is the deployment name.
type Provider struct {
	Model         string
	OpenAIKey     string
	OpenAIBaseURL string
	AzureEndpoint string
	AzureKey      string
}

func (p Provider) IsAzure() bool {
	return p.AzureEndpoint != ""
}

func (p Provider) Name() string {
	if p.IsAzure() {
		return "Azure OpenAI"
	}
	return "OpenAI"
}

func (p Provider) Validate() error {
	if p.IsAzure() {
		if p.AzureKey == "" {
			return errors.New("AZURE_OPENAI_API_KEY is required when AZURE_OPENAI_ENDPOINT is set")
		}
		return nil
	}
	if p.OpenAIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	return nil
}

// ProviderFromEnv reads the provider settings. OPENAI_MODEL overrides defaultModel.
func ProviderFromEnv(defaultModel string) Provider {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}

	return Provider{
		Model:         model,
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: baseURL,
		AzureEndpoint: os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureKey:      os.Getenv("AZURE_OPENAI_API_KEY"),
	}
}

// LogDir is where client logs are written, MCP_LOG_DIR or ./logs.
func LogDir() string {
	if dir := os.Getenv("MCP_LOG_DIR"); dir != "" {
		return dir
	}
	return DefaultLogDir
}
