package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML counterpart of EnvVars.
type FileConfig struct {
	Server struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	LLM struct {
		Provider     string `yaml:"provider"`
		Model        string `yaml:"model"`
		BaseURL      string `yaml:"base_url"`
		GeminiAPIKey string `yaml:"gemini_api_key"`
		OpenAIAPIKey string `yaml:"openai_api_key"`
	} `yaml:"llm"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`

	CLI struct {
		ExitKeyword string `yaml:"exit_keyword"`
	} `yaml:"cli"`
}

func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &fc, nil
}

// applyTo copies every non-empty file value whose environment variable is
// not set.
func (fc *FileConfig) applyTo(v *EnvVars) {
	setString("PORT", &v.Port, fc.Server.Port)
	setDuration("READ_TIMEOUT", &v.ReadTimeout, fc.Server.ReadTimeout)
	setDuration("WRITE_TIMEOUT", &v.WriteTimeout, fc.Server.WriteTimeout)

	setString("LLM_PROVIDER", &v.LLMProvider, fc.LLM.Provider)
	setString("LLM_MODEL", &v.LLMModel, fc.LLM.Model)
	setString("LLM_BASE_URL", &v.LLMBaseURL, fc.LLM.BaseURL)
	setString("GEMINI_API_KEY", &v.GeminiAPIKey, fc.LLM.GeminiAPIKey)
	setString("OPENAI_API_KEY", &v.OpenAIAPIKey, fc.LLM.OpenAIAPIKey)

	setString("LOG_LEVEL", &v.LogLevel, fc.Log.Level)
	setString("LOG_FORMAT", &v.LogFormat, fc.Log.Format)
	setString("LOG_FILE", &v.LogFile, fc.Log.File)

	setString("CLI_EXIT_KEYWORD", &v.ExitKeyword, fc.CLI.ExitKeyword)
}

func setString(env string, dst *string, val string) {
	if val == "" {
		return
	}
	if _, ok := os.LookupEnv(env); ok {
		return
	}
	*dst = val
}

func setDuration(env string, dst *time.Duration, val time.Duration) {
	if val == 0 {
		return
	}
	if _, ok := os.LookupEnv(env); ok {
		return
	}
	*dst = val
}
