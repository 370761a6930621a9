package app

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/ccastromar/askai/internal/api"
	"github.com/ccastromar/askai/internal/config"
	"github.com/ccastromar/askai/internal/llm"
	"github.com/ccastromar/askai/internal/logx"
)

type App struct {
	env  *config.EnvVars
	llm  *llm.Client
	http *HTTPServer
}

func New(ctx context.Context, env *config.EnvVars) (*App, error) {
	client, err := llm.New(ctx, env.LLMSettings())
	if err != nil {
		return nil, err
	}
	return NewWithClient(env, client), nil
}

// NewWithClient assembles the app around an already built client.
func NewWithClient(env *config.EnvVars, client *llm.Client) *App {
	askHandler := api.NewHandler(client)
	return &App{
		env:  env,
		llm:  client,
		http: NewHTTPServer(env, askHandler, client),
	}
}

// Handler exposes the full middleware-wrapped router, for tests.
func (a *App) Handler() http.Handler {
	return a.http.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.http.Start(gctx)
	})

	logx.Info("App", "askai started provider=%s model=%s", a.llm.Provider(), a.llm.Model())

	return g.Wait()
}
