package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ccastromar/askai/internal/logx"
	"github.com/ccastromar/askai/internal/metrics"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4.1"
)

// Backend is the one capability the client needs from a model service:
// submit a prompt, get generated text back.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Settings is built once at startup and handed to New. The API key is
// never read from the environment by this package.
type Settings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// Client answers normalized questions through a Backend.
type Client struct {
	settings Settings
	backend  Backend
}

// New builds the backend named by s.Provider. A missing API key is not an
// error here: the client is returned and every Ask reports MissingCredential.
func New(ctx context.Context, s Settings) (*Client, error) {
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	if s.Provider == "" {
		s.Provider = ProviderGemini
	}
	s.APIKey = strings.TrimSpace(s.APIKey)

	var (
		backend Backend
		err     error
	)
	switch s.Provider {
	case ProviderGemini:
		if s.Model == "" {
			s.Model = DefaultGeminiModel
		}
		if s.APIKey != "" {
			backend, err = NewGeminiBackend(ctx, s.APIKey, s.Model)
		}
	case ProviderOpenAI:
		if s.Model == "" {
			s.Model = DefaultOpenAIModel
		}
		if s.APIKey != "" {
			backend = NewOpenAIBackend(s.BaseURL, s.APIKey, s.Model)
		}
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", s.Provider, err)
	}

	if backend == nil {
		logx.Warn("LLM", "no API key configured for provider %s, every question will fail", s.Provider)
	} else {
		logx.Info("LLM", "provider=%s model=%s ready", s.Provider, s.Model)
	}
	return &Client{settings: s, backend: backend}, nil
}

// NewClient wires an explicit backend, mainly for tests and alternate
// transports.
func NewClient(s Settings, b Backend) *Client {
	return &Client{settings: s, backend: b}
}

func (c *Client) Provider() string { return c.settings.Provider }
func (c *Client) Model() string    { return c.settings.Model }

// Ready reports whether a credential is loaded. It does not touch the network.
func (c *Client) Ready() bool {
	return strings.TrimSpace(c.settings.APIKey) != "" && c.backend != nil
}

// Ask sends prompt to the backend exactly once. The returned error, when
// non-nil, is always an *Error.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if !c.Ready() {
		c.observe(KindMissingCredential, 0, false)
		return "", MissingCredential()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	text, err := c.backend.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		e := classify(err)
		c.observe(e.Kind, elapsed, true)
		return "", e
	}

	answer := strings.TrimSpace(text)
	if answer == "" {
		c.observe(KindEmptyResponse, elapsed, true)
		return "", EmptyResponse()
	}
	c.observe("", elapsed, true)
	return answer, nil
}

// observe records the outcome; timed is false when no backend call was made.
func (c *Client) observe(kind Kind, elapsed time.Duration, timed bool) {
	outcome := "ok"
	if kind != "" {
		outcome = string(kind)
	}
	lbls := map[string]string{"provider": c.settings.Provider, "outcome": outcome}
	metrics.LLMAsks.Inc(lbls)
	if timed {
		metrics.LLMAskDur.Observe(lbls, elapsed.Seconds())
	}
}
