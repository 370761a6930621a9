package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ccastromar/askai/internal/llm"
)

// dotenvFile is loaded before the environment is processed. Variables that
// are already set win over the file.
var dotenvFile = ".env"

type EnvVars struct {
	AppEnv       string        `envconfig:"APP_ENV" default:"dev"`
	Port         string        `envconfig:"PORT" default:"5000"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"120s"`

	LLMProvider  string `envconfig:"LLM_PROVIDER" default:"gemini"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	LLMBaseURL   string `envconfig:"LLM_BASE_URL"`
	LLMModel     string `envconfig:"LLM_MODEL"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
	LogFile   string `envconfig:"LOG_FILE"`

	ExitKeyword string `envconfig:"CLI_EXIT_KEYWORD" default:"exit"`

	// Optional YAML file layered under the environment.
	ConfigFile string `envconfig:"ASKAI_CONFIG"`
}

func LoadEnv() (*EnvVars, error) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", dotenvFile, err)
	}

	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}

	if v.ConfigFile != "" {
		fc, err := LoadFile(v.ConfigFile)
		if err != nil {
			return nil, err
		}
		fc.applyTo(&v)
	}
	return &v, nil
}

// LLMSettings picks the credential that belongs to the configured provider.
func (v *EnvVars) LLMSettings() llm.Settings {
	provider := strings.ToLower(strings.TrimSpace(v.LLMProvider))
	key := v.GeminiAPIKey
	if provider == llm.ProviderOpenAI {
		key = v.OpenAIAPIKey
	}
	return llm.Settings{
		Provider: provider,
		APIKey:   key,
		Model:    v.LLMModel,
		BaseURL:  v.LLMBaseURL,
	}
}

// ColorLogs mirrors the dev-only coloring of the console writer.
func (v *EnvVars) ColorLogs() bool {
	return v.AppEnv == "local" || v.AppEnv == "dev"
}
